package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pterm/pterm"

	"tscheck/pkg/driver"
	"tscheck/pkg/errors"
)

const historyFile = ".tscheck_history"

// runRepl reads lines and prints the type of each one's last expression.
// Lines that fail to check are reported and dropped from the session.
func runRepl(ctx context.Context, s *driver.Session) int {
	fmt.Println("tscheck (:reset clears the session, :quit or Ctrl+D exits)")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for ctx.Err() == nil {
		line, err := ln.Prompt("> ")
		if err != nil {
			if !stderrors.Is(err, liner.ErrPromptAborted) {
				fmt.Println()
			}
			break
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case ":quit":
			return saveHistory(ln, histPath)
		case ":reset":
			s.Reset()
			continue
		}
		ln.AppendHistory(line)

		ty, errs := s.Eval(ctx, line)
		if len(errs) > 0 {
			errors.DisplayErrors(os.Stdout, s.FileSet(), errs)
			continue
		}
		if ty != nil {
			pterm.FgLightGreen.Println(ty.String())
		}
	}
	return saveHistory(ln, histPath)
}

func saveHistory(ln *liner.State, histPath string) int {
	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return 0
}
