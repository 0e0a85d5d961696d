// Copyright 2026 the go65816 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logger provides the observability interface injected into the
// emulator components. There is no ambient global logger; anything that
// wants to log is handed a Logger explicitly, which keeps test output
// deterministic.
package logger

import (
	"fmt"
	"io"
)

// A Logger receives diagnostic messages from emulator components.
type Logger interface {
	Logf(format string, args ...any)
}

type writerLogger struct {
	w   io.Writer
	tag string
}

// New returns a Logger that writes tagged lines to w.
func New(w io.Writer, tag string) Logger {
	return &writerLogger{w: w, tag: tag}
}

func (l *writerLogger) Logf(format string, args ...any) {
	fmt.Fprintf(l.w, "%s: %s\n", l.tag, fmt.Sprintf(format, args...))
}

type discardLogger struct{}

// Discard returns a Logger that drops all messages.
func Discard() Logger {
	return discardLogger{}
}

func (discardLogger) Logf(format string, args ...any) {}
