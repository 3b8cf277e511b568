package camera

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// CommandDevice captures by running a snapshot tool that writes the image to stdout,
// e.g. "fswebcam --no-banner -r {width}x{height} -" or "libcamera-still -n -o -".
// {width}, {height} and {facing} are substituted from the constraints.
type CommandDevice struct {
	Command []string
}

func NewCommandDevice(command string) *CommandDevice {
	return &CommandDevice{Command: strings.Fields(command)}
}

func (d *CommandDevice) Open(ctx context.Context, c Constraints) (Stream, error) {
	if len(d.Command) == 0 {
		return nil, fmt.Errorf("no capture command configured")
	}
	bin, err := exec.LookPath(d.Command[0])
	if err != nil {
		return nil, fmt.Errorf("capture command %q not available: %w", d.Command[0], err)
	}
	args := make([]string, 0, len(d.Command)-1)
	for _, a := range d.Command[1:] {
		a = strings.ReplaceAll(a, "{width}", strconv.Itoa(c.Width))
		a = strings.ReplaceAll(a, "{height}", strconv.Itoa(c.Height))
		a = strings.ReplaceAll(a, "{facing}", string(c.Facing))
		args = append(args, a)
	}
	return &commandStream{bin: bin, args: args}, nil
}

type commandStream struct {
	bin  string
	args []string
}

func (s *commandStream) Frame(ctx context.Context) (string, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.bin, s.args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return "", nil, fmt.Errorf("capture exited with %d: %s", ee.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return "", nil, fmt.Errorf("run error: %w", err)
	}
	data := stdout.Bytes()
	return sniff(data), data, nil
}

func (s *commandStream) Close() error { return nil }

// FileDevice serves a still image from disk, re-read on every capture.
type FileDevice struct {
	Path string
}

func (d *FileDevice) Open(ctx context.Context, c Constraints) (Stream, error) {
	info, err := os.Stat(d.Path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", d.Path)
	}
	return &fileStream{path: d.Path}, nil
}

type fileStream struct {
	path string
}

func (s *fileStream) Frame(ctx context.Context) (string, []byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", nil, err
	}
	return sniff(data), data, nil
}

func (s *fileStream) Close() error { return nil }

// sniff returns the image media type, falling back to JPEG which is what the
// browser capture produced.
func sniff(data []byte) string {
	ct := http.DetectContentType(data)
	if strings.HasPrefix(ct, "image/") {
		return ct
	}
	return "image/jpeg"
}
