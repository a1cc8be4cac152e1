/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a crash report and a best-effort save of
// the current view, then exits with code 2.
package crash

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"grapher/internal/graph"
	applog "grapher/internal/log"
	"grapher/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// Snapshot is the plotting state at the time of the panic.
type Snapshot struct {
	Expr   string
	View   graph.View
	Window graph.WindowSize
}

// ViewSaver persists the last view; storage.Store satisfies it.
type ViewSaver interface {
	SaveView(ctx context.Context, expr string, v graph.View, w graph.WindowSize) error
}

// Guard carries what Recover needs. All fields are optional.
type Guard struct {
	// State returns the current snapshot; it is called after the panic.
	State func() Snapshot
	Store ViewSaver
	// Dir receives the report; empty means the OS temp dir.
	Dir string
}

// Recover captures a panic, logs it with the stack, writes a report file and
// saves the current view so the next start resumes there.
//
// Usage: defer crash.Recover(guard)
func Recover(g Guard) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	var snap *Snapshot
	if g.State != nil {
		if s, ok := safeState(g.State); ok {
			snap = &s
		}
	}
	reportPath, err := writeReport(g.Dir, snap, r, stack)
	if err != nil {
		l.Error("write crash report failed", slog.Any("err", err))
	}
	if snap != nil && g.Store != nil && snap.Expr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := g.Store.SaveView(ctx, snap.Expr, snap.View, snap.Window); err != nil {
			l.Error("save view on crash failed", slog.Any("err", err))
		} else {
			l.Info("view saved on crash", slog.String("expr", snap.Expr))
		}
		cancel()
	}

	if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
		l.Error("failed to write crash message to stderr", slog.Any("err", err))
	}
	if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
		l.Error("failed to write version info to stderr", slog.Any("err", err))
	}
	exitFn(2)
}

// Go runs fn on a new goroutine under the same guard. Panics do not cross
// goroutines, so background loops need their own Recover.
func Go(g Guard, fn func()) {
	go func() {
		defer Recover(g)
		fn()
	}()
}

// safeState guards against the state callback panicking too.
func safeState(f func() Snapshot) (s Snapshot, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return f(), true
}

func writeReport(dir string, snap *Snapshot, panicVal any, stack []byte) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	stamp := time.Now().Format("20060102-150405")
	f, err := os.CreateTemp(dir, fmt.Sprintf("crash-%s-*.log", stamp))
	if err != nil {
		return "", err
	}
	path := f.Name()
	defer func() {
		if err := f.Close(); err != nil {
			applog.WithComponent("crash").Error("failed to close crash report file", slog.Any("err", err), slog.String("path", path))
		}
	}()

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "Grapher Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if snap != nil {
		_, _ = fmt.Fprintf(&buf, "Expression: %s\n", snap.Expr)
		_, _ = fmt.Fprintf(&buf, "View: centre=%s scale=%g\n", snap.View.Centre, snap.View.Scale)
		_, _ = fmt.Fprintf(&buf, "Window: %gx%g\n", snap.Window.Width, snap.Window.Height)
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if _, err := f.Write(buf.Bytes()); err != nil {
		return path, err
	}
	_ = f.Sync()
	return path, nil
}
