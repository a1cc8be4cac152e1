/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package crash

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"grapher/internal/graph"
)

type memSaver struct {
	expr string
	view graph.View
}

func (m *memSaver) SaveView(_ context.Context, expr string, v graph.View, _ graph.WindowSize) error {
	m.expr, m.view = expr, v
	return nil
}

// TestRecover_Panic ensures Recover handles a panic, writes a report,
// saves the view, and does not terminate the test process due to injected exitFn.
func TestRecover_Panic(t *testing.T) {
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	defer func() {
		_ = w.Close()
		os.Stderr = oldStderr
		_, _ = io.Copy(io.Discard, r)
	}()

	called := 0
	oldExit := exitFn
	exitFn = func(code int) { called = code }
	defer func() { exitFn = oldExit }()

	dir := t.TempDir()
	saver := &memSaver{}
	view := graph.View{Centre: graph.Pt(3, 4), Scale: 2}
	guard := Guard{
		State: func() Snapshot { return Snapshot{Expr: "x^2", View: view, Window: graph.DefaultWindow()} },
		Store: saver,
		Dir:   dir,
	}

	func() {
		defer Recover(guard)
		panic("boom")
	}()

	var found string
	files, _ := os.ReadDir(dir)
	for _, f := range files {
		if strings.HasPrefix(f.Name(), "crash-") && strings.HasSuffix(f.Name(), ".log") {
			found = filepath.Join(dir, f.Name())
			break
		}
	}
	if found == "" {
		t.Fatalf("expected crash report file in %s", dir)
	}
	b, err := os.ReadFile(found)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.Contains(b, []byte("Panic: boom")) || !bytes.Contains(b, []byte("Expression: x^2")) {
		t.Fatalf("report incomplete: %s", string(b))
	}
	if saver.expr != "x^2" || saver.view != view {
		t.Fatalf("view not saved: %+v", saver)
	}
	if called != 2 {
		t.Fatalf("expected exit code 2, got %d", called)
	}
}

func TestRecover_NoPanic(t *testing.T) {
	called := false
	oldExit := exitFn
	exitFn = func(int) { called = true }
	defer func() { exitFn = oldExit }()
	func() {
		defer Recover(Guard{})
	}()
	if called {
		t.Fatalf("exit must not be called without a panic")
	}
}

func TestGo_RecoversOnItsGoroutine(t *testing.T) {
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	defer func() {
		_ = w.Close()
		os.Stderr = oldStderr
		_, _ = io.Copy(io.Discard, r)
	}()

	exited := make(chan int, 1)
	oldExit := exitFn
	exitFn = func(code int) { exited <- code }
	defer func() { exitFn = oldExit }()

	saver := &memSaver{}
	view := graph.View{Centre: graph.Pt(-1, 2), Scale: 4}
	Go(Guard{
		State: func() Snapshot { return Snapshot{Expr: "tan(x)", View: view, Window: graph.DefaultWindow()} },
		Store: saver,
		Dir:   t.TempDir(),
	}, func() { panic("tick failed") })

	if code := <-exited; code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
	if saver.expr != "tan(x)" || saver.view != view {
		t.Fatalf("view not saved from background goroutine: %+v", saver)
	}
}
