package analysis

import "context"

// Analyzer turns a captured image (data URI) into a diagnosis.
type Analyzer interface {
	Analyze(ctx context.Context, image string) (Result, error)
}

// Repository port for persisting and querying analyses
type Repository interface {
	Insert(ctx context.Context, r *Record) error
	// ListRecent returns at most limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]*Record, error)
}

// Camera acquires one still frame and returns it as a data URI.
type Camera interface {
	Capture(ctx context.Context) (string, error)
}

// SnapshotArchive keeps a copy of the captured still outside the database.
type SnapshotArchive interface {
	Archive(ctx context.Context, id RecordID, image string) (string, error)
}
