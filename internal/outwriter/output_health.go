package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/huangsam/gradekit/internal/contract"
	"github.com/huangsam/gradekit/schema"
)

// PrintHealth reports a successful backend health check.
func PrintHealth(cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, map[string]any{
				"healthy":     true,
				"base_url":    cfg.BaseURL,
				"model":       cfg.Model,
				"duration_ms": duration.Milliseconds(),
			})
		}, "Wrote JSON")
	}

	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Backend %s is healthy (model %s, checked in %v)\n",
			cfg.BaseURL, cfg.Model, duration.Round(time.Millisecond))
		return err
	}, "Wrote status")
}
