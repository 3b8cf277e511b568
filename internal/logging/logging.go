// Package logging configures the process-wide apex/log handler.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
)

// Setup installs a handler writing to stderr. format is cli, json or text; an empty
// level means info.
func Setup(format, level string) error {
	return SetupWriter(os.Stderr, format, level)
}

func SetupWriter(w io.Writer, format, level string) error {
	h, err := handler(w, format)
	if err != nil {
		return err
	}
	if level == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	log.SetHandler(h)
	log.SetLevel(lvl)
	return nil
}

func handler(w io.Writer, format string) (log.Handler, error) {
	switch strings.ToLower(format) {
	case "", "cli":
		return cli.New(w), nil
	case "json":
		return json.New(w), nil
	case "text":
		return text.New(w), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
