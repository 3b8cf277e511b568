package analysis

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"time"
)

// RecentLimit is how many records the history view asks for.
const RecentLimit = 10

// RecordID identifier type
type RecordID string

// Pigmentation describes the visual colour analysis of the leaves.
type Pigmentation struct {
	LeafColor  string     `json:"leaf_color"`
	Indicators StringList `json:"indicators"`
}

// Result is the structured diagnosis returned by the gateway for one captured image.
// Pigmentation and Issues may be absent; readers must not assume either is set.
type Result struct {
	PlantType       string        `json:"plant_type"`
	HealthStatus    string        `json:"health_status"`
	Confidence      Confidence    `json:"confidence"`
	Pigmentation    *Pigmentation `json:"pigmentation,omitempty"`
	Diagnosis       string        `json:"diagnosis"`
	Recommendations string        `json:"recommendations"`
	Issues          []string      `json:"issues,omitempty"`
}

// Confidence is an integer percentage supplied by the model. No range check is applied.
type Confidence int

// UnmarshalJSON accepts numbers, numeric strings and "95%" style strings.
// Anything else, including values outside the int range, decodes to zero rather
// than failing the whole result.
func (c *Confidence) UnmarshalJSON(b []byte) error {
	s := string(bytes.TrimSpace(b))
	s = strings.TrimSpace(strings.Trim(s, `"`))
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*c = 0
		return nil
	}
	f = math.Round(f)
	// outside the int range the conversion is undefined
	if f >= float64(math.MaxInt) || f < float64(math.MinInt) {
		*c = 0
		return nil
	}
	*c = Confidence(f)
	return nil
}

// Metadata is the open bag persisted next to each record.
// Issues are duplicated here on purpose so later readers find them in one place.
type Metadata struct {
	Issues []string `json:"issues"`
}

// Record is the persisted form of a past Result.
type Record struct {
	ID              RecordID      `json:"id"`
	CreatedAt       time.Time     `json:"created_at"`
	PlantType       string        `json:"plant_type"`
	HealthStatus    string        `json:"health_status"`
	Confidence      int           `json:"confidence"`
	Diagnosis       string        `json:"diagnosis"`
	Recommendations string        `json:"recommendations"`
	ImageURL        string        `json:"image_url"`
	Pigmentation    *Pigmentation `json:"pigmentation_data,omitempty"`
	Metadata        Metadata      `json:"metadata"`
}

// NewRecord flattens a result into its persisted form. imageURL is stored verbatim.
func NewRecord(id RecordID, createdAt time.Time, imageURL string, r Result) *Record {
	issues := r.Issues
	if issues == nil {
		issues = []string{}
	}
	return &Record{
		ID:              id,
		CreatedAt:       createdAt,
		PlantType:       r.PlantType,
		HealthStatus:    r.HealthStatus,
		Confidence:      int(r.Confidence),
		Diagnosis:       r.Diagnosis,
		Recommendations: r.Recommendations,
		ImageURL:        imageURL,
		Pigmentation:    r.Pigmentation,
		Metadata:        Metadata{Issues: issues},
	}
}

// Result rebuilds the analysis shape from a stored record.
func (r *Record) Result() Result {
	return Result{
		PlantType:       r.PlantType,
		HealthStatus:    r.HealthStatus,
		Confidence:      Confidence(r.Confidence),
		Pigmentation:    r.Pigmentation,
		Diagnosis:       r.Diagnosis,
		Recommendations: r.Recommendations,
		Issues:          r.Metadata.Issues,
	}
}
