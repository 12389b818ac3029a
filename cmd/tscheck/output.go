package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"tscheck/pkg/driver"
	"tscheck/pkg/errors"
	"tscheck/pkg/source"
)

var (
	errorStyle = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	pathColor  = pterm.FgLightBlue
)

// printResults writes the diagnostics of each failing module under a
// banner, then a one-line summary.
func printResults(s *driver.Session, results []*driver.Result) {
	for _, r := range results {
		if len(r.Errors) == 0 {
			continue
		}
		banner(r.Path, len(r.Errors))
		errors.DisplayErrors(os.Stdout, s.FileSet(), r.Errors)
	}

	files, diags := countErrors(results)
	if diags == 0 {
		pterm.Success.Printfln("%d files checked, no errors", len(results))
		return
	}
	pterm.Error.Printfln("%d errors in %d of %d files", diags, files, len(results))
}

func banner(path string, n int) {
	label := fmt.Sprintf(" %d error", n)
	if n != 1 {
		label += "s"
	}
	errorStyle.Print(label + " ")
	width := pterm.GetTerminalWidth() / 2
	if width > 60 {
		width = 60
	}
	if dashes := width - len(label) - len(path) - 3; dashes > 0 {
		fmt.Print(" " + strings.Repeat("-", dashes))
	}
	fmt.Print(" ")
	pathColor.Println(path)
}

// --- JSON ---

type jsonFile struct {
	Path        string     `json:"path"`
	DurationMS  float64    `json:"durationMs"`
	Diagnostics []jsonDiag `json:"diagnostics"`
}

type jsonDiag struct {
	Kind       string     `json:"kind"`
	Code       int        `json:"code,omitempty"`
	Message    string     `json:"message"`
	File       string     `json:"file,omitempty"`
	Line       int        `json:"line,omitempty"`
	Column     int        `json:"column,omitempty"`
	Name       string     `json:"name,omitempty"`
	Expected   string     `json:"expected,omitempty"`
	Actual     string     `json:"actual,omitempty"`
	Candidates []string   `json:"candidates,omitempty"`
	Nested     []jsonDiag `json:"nested,omitempty"`
}

func writeJSON(w io.Writer, s *driver.Session, results []*driver.Result) error {
	out := make([]jsonFile, len(results))
	for i, r := range results {
		out[i] = jsonFile{
			Path:        r.Path,
			DurationMS:  float64(r.Duration.Microseconds()) / 1000,
			Diagnostics: toJSON(s.FileSet(), r.Errors),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func toJSON(fset *source.FileSet, errs []*errors.Error) []jsonDiag {
	out := make([]jsonDiag, 0, len(errs))
	for _, e := range errs {
		d := jsonDiag{
			Kind:    e.Kind.String(),
			Code:    e.Kind.Code(),
			Message: e.Msg,
			Name:    e.Name,
			Nested:  toJSON(fset, e.Nested),
		}
		if pos := e.Pos(fset); pos.Source != nil {
			d.File, d.Line, d.Column = pos.Source.DisplayPath(), pos.Line, pos.Column
		}
		if e.Expected != nil {
			d.Expected = e.Expected.String()
		}
		if e.Actual != nil {
			d.Actual = e.Actual.String()
		}
		for _, c := range e.Candidates {
			d.Candidates = append(d.Candidates, c.String())
		}
		if len(d.Nested) == 0 {
			d.Nested = nil
		}
		out = append(out, d)
	}
	return out
}
