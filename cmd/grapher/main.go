/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"grapher/internal/config"
	"grapher/internal/crash"
	"grapher/internal/engine"
	"grapher/internal/export"
	"grapher/internal/expr"
	"grapher/internal/graph"
	applog "grapher/internal/log"
	"grapher/internal/preview"
	"grapher/internal/storage"
	"grapher/internal/ui"
	"grapher/internal/version"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "Grapher - interactive 2-D function plotter")
	fmt.Fprintf(w, "Version: %s\n", version.String())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  grapher <expr>                              Open the plot window (build with -tags fyne)")
	fmt.Fprintln(w, "  grapher export [flags] -o <file> <expr>     Render the visible region to png, svg or pdf")
	fmt.Fprintln(w, "  grapher preview [flags] <expr>              Print a terminal plot of the visible region")
	fmt.Fprintln(w, "  grapher history [-n N]                      List recent expressions and exports")
	fmt.Fprintln(w, "  grapher version|-v|--version                Show version")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Expressions use x as the variable, e.g. \"sin(x) * x^2\" or \"y = 1/x\".")
}

func main() {
	defer crash.Recover(crash.Guard{})
	code := run(os.Args[1:], os.Stdout, os.Stderr)
	_ = applog.Close()
	os.Exit(code)
}

// run is main without the process exit. It returns 0 on success, 1 on a
// failed command and 2 on bad usage.
func run(args []string, stdout, stderr io.Writer) int {
	cfg, cerr := config.Load()
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
		Output:    stderr,
	})
	export.UseLogger(applog.WithComponent("gg"))
	l := applog.WithComponent("cli")
	if cerr != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", cerr))
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "Invalid configuration:", err)
		return 1
	}
	l.Debug("start", slog.Int("args", len(args)))

	if len(args) == 0 {
		fmt.Fprintln(stderr, "No equation passed")
		usage(stderr)
		return 1
	}
	switch args[0] {
	case "version", "--version", "-v":
		fmt.Fprintln(stdout, "Grapher")
		fmt.Fprintln(stdout, version.String())
		return 0
	case "help", "--help", "-h":
		usage(stdout)
		return 0
	case "export":
		return runExport(cfg, args[1:], stdout, stderr)
	case "preview":
		return runPreview(cfg, args[1:], stdout, stderr)
	case "history":
		return runHistory(cfg, args[1:], stdout, stderr)
	case "ui":
		args = args[1:]
	}
	src := strings.Join(args, " ")
	if _, err := compile(src, stderr); err != nil {
		return 1
	}
	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}
	if err := ui.Run(ui.Options{Expr: src, Config: cfg, Store: store}); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

// compile reports expression errors the way the plotter always has.
func compile(src string, stderr io.Writer) (*expr.Expression, error) {
	ex, err := expr.Compile(src)
	switch {
	case errors.Is(err, expr.ErrEmpty):
		fmt.Fprintln(stderr, "No equation passed")
	case err != nil:
		fmt.Fprintln(stderr, "Error in expression:", err)
	}
	return ex, err
}

// openStore returns nil when storage is disabled or cannot be opened.
func openStore(cfg config.AppConfig) *storage.Store {
	if !cfg.Storage.Enabled {
		return nil
	}
	var (
		s   *storage.Store
		err error
	)
	if p := strings.TrimSpace(cfg.Storage.Path); p != "" {
		s, err = storage.Open(p)
	} else {
		s, err = storage.OpenDefault()
	}
	if err != nil {
		applog.WithComponent("cli").Warn("session store unavailable", slog.Any("err", err))
		return nil
	}
	return s
}

// viewFlags are shared by the one-shot render commands.
type viewFlags struct {
	cx, cy, scale float64
	width, height float64
	restore       bool
}

func (v *viewFlags) register(fs *flag.FlagSet, cfg config.AppConfig) {
	fs.Float64Var(&v.cx, "cx", 0, "view centre x")
	fs.Float64Var(&v.cy, "cy", 0, "view centre y")
	fs.Float64Var(&v.scale, "scale", cfg.View.Scale, "half the visible x range")
	fs.Float64Var(&v.width, "width", cfg.View.Width, "window width in pixels")
	fs.Float64Var(&v.height, "height", cfg.View.Height, "window height in pixels")
	fs.BoolVar(&v.restore, "restore", false, "start from the last saved view of this expression")
}

// frame builds a single engine frame for a one-shot command.
func (v viewFlags) frame(cfg config.AppConfig, ex *expr.Expression, store *storage.Store) (*engine.Frame, error) {
	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, err
	}
	opts.View = graph.View{Centre: graph.Pt(v.cx, v.cy), Scale: v.scale}
	opts.Window = graph.WindowSize{Width: v.width, Height: v.height}
	opts.CacheTTL = -1
	if v.restore && store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		sess, err := store.LoadView(ctx, ex.Source())
		cancel()
		if err == nil {
			opts.View = sess.View
		}
	}
	eng, err := engine.New(ex, opts)
	if err != nil {
		return nil, err
	}
	return eng.Frame(), nil
}

func runExport(cfg config.AppConfig, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		vf         viewFlags
		out        string
		format     string
		hideLabels bool
	)
	vf.register(fs, cfg)
	fs.StringVar(&out, "o", "", "output file (extension picks the format)")
	fs.StringVar(&format, "format", "", "png, svg or pdf (overrides the extension)")
	fs.BoolVar(&hideLabels, "hide-labels", cfg.Export.HideLabels, "omit axis labels")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if strings.TrimSpace(out) == "" {
		fmt.Fprintln(stderr, "export requires -o <file>")
		return 2
	}
	ex, err := compile(strings.Join(fs.Args(), " "), stderr)
	if err != nil {
		return 1
	}
	opt := export.Options{Title: ex.String()}
	if format != "" {
		f, err := export.ParseFormat(format)
		if err != nil {
			fmt.Fprintln(stderr, "Error:", err)
			return 2
		}
		opt.Format = f
	} else if _, ok := export.FormatFromPath(out); !ok {
		opt.Format, _ = export.ParseFormat(cfg.Export.Format)
	}
	if opt.Style, err = cfg.ExportStyle(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	opt.Style.HideLabels = hideLabels

	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}
	f, err := vf.frame(cfg, ex, store)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	if err := export.ToFile(out, f, opt); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	if store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		recorded := opt.Format
		if recorded == "" {
			recorded, _ = export.FormatFromPath(out)
		}
		if err := store.RecordExport(ctx, ex.Source(), out, string(recorded)); err != nil {
			applog.WithComponent("cli").Warn("record export failed", slog.Any("err", err))
		}
		if err := store.SaveView(ctx, ex.Source(), f.View, f.Window); err != nil {
			applog.WithComponent("cli").Warn("save view failed", slog.Any("err", err))
		}
	}
	fmt.Fprintln(stdout, "Wrote", out)
	return 0
}

func runPreview(cfg config.AppConfig, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		vf         viewFlags
		cols, rows int
	)
	vf.register(fs, cfg)
	d := preview.DefaultOptions()
	fs.IntVar(&cols, "cols", d.Width, "plot width in terminal cells")
	fs.IntVar(&rows, "rows", d.Height, "plot height in terminal cells")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	ex, err := compile(strings.Join(fs.Args(), " "), stderr)
	if err != nil {
		return 1
	}
	var store *storage.Store
	if vf.restore {
		if store = openStore(cfg); store != nil {
			defer store.Close()
		}
	}
	f, err := vf.frame(cfg, ex, store)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	if err := preview.Write(stdout, f, preview.Options{Width: cols, Height: rows, Title: ex.String()}); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func runHistory(cfg config.AppConfig, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(stderr)
	n := fs.Int("n", 10, "number of entries")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !cfg.Storage.Enabled {
		fmt.Fprintln(stderr, "Session storage is disabled (storage.enabled=false)")
		return 1
	}
	store := openStore(cfg)
	if store == nil {
		fmt.Fprintln(stderr, "Error: session store unavailable")
		return 1
	}
	defer store.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sessions, err := store.RecentSessions(ctx, *n)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	exports, err := store.Exports(ctx, "", *n)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EXPRESSION\tCENTRE\tSCALE\tUPDATED")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%s\t%s\t%g\t%s\n", s.Expr, s.View.Centre, s.View.Scale, s.UpdatedAt.Local().Format(time.DateTime))
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "EXPORT\tFORMAT\tEXPRESSION\tCREATED")
	for _, e := range exports {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Path, e.Format, e.Expr, e.CreatedAt.Local().Format(time.DateTime))
	}
	if err := tw.Flush(); err != nil {
		return 1
	}
	return 0
}
