// Package logging installs the process-wide slog default handler.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var initOnce sync.Once

// Init opens <dir>/cuesmith.log and installs it as the slog default
// handler. Safe to call more than once; only the first call takes effect.
func Init(dir string) {
	initOnce.Do(func() {
		if dir == "" {
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
			return
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			panic(fmt.Sprintf("logging: cannot create log dir: %v", err))
		}
		f, err := os.OpenFile(filepath.Join(dir, "cuesmith.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
		if err != nil {
			panic(fmt.Sprintf("logging: failed to open log file: %v", err))
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{AddSource: true})))
	})
}

// Err wraps an arbitrary error value into a structured slog field,
// preserving any %+v stack context pkg/errors attaches.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", fmt.Sprintf("%+v", err))
}
