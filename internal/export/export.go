/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package export renders an engine frame to PNG (via the gg rasteriser),
// SVG (hand-written XML) or PDF (gofpdf). All three draw the same screen
// space scene: minor, mid and main grid tiers, the curve, then labels.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"grapher/internal/engine"
	applog "grapher/internal/log"
)

type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
	FormatPDF Format = "pdf"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPNG, FormatSVG, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want png, svg or pdf)", s)
}

// FormatFromPath guesses the format from the file extension.
func FormatFromPath(path string) (Format, bool) {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	return f, err == nil
}

// Options for ToFile.
type Options struct {
	Format Format
	Style  Style
	// Title is embedded where the format supports it.
	Title string
}

// ToFile renders f and writes it to path, creating parent directories.
// The file is only written once rendering succeeded.
func ToFile(path string, f *engine.Frame, opt Options) error {
	l := applog.WithOperation(applog.WithComponent("export"), "to_file")
	start := time.Now()
	if opt.Format == "" {
		if ff, ok := FormatFromPath(path); ok {
			opt.Format = ff
		} else {
			opt.Format = FormatPNG
		}
	}
	var buf bytes.Buffer
	var err error
	switch opt.Format {
	case FormatPNG:
		err = WritePNG(&buf, f, opt.Style)
	case FormatSVG:
		err = WriteSVG(&buf, f, opt.Style)
	case FormatPDF:
		err = WritePDF(&buf, f, opt.Style, opt.Title)
	default:
		err = fmt.Errorf("unknown export format %q", opt.Format)
	}
	if err != nil {
		l.Error("render failed", "format", string(opt.Format), "err", err)
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure out dir: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opt.Format, err)
	}
	l.Info("exported", "path", path, "format", string(opt.Format), "bytes", buf.Len(), "duration", time.Since(start))
	return nil
}
