package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"tscheck/pkg/builtins"
	"tscheck/pkg/config"
	"tscheck/pkg/driver"
)

const (
	exitDiagnostics = 1
	exitUsage       = 64 // command line usage error
	exitSoftware    = 70 // internal software error
)

func main() {
	os.Exit(run())
}

func run() int {
	rootFlag := flag.String("root", "", "Project root (default: the directory of the project file, or the current directory)")
	configFlag := flag.String("config", "", "Project file to use instead of searching for tscheck.yaml/tscheck.toml")
	jobsFlag := flag.Int("jobs", 0, "Maximum number of modules checked concurrently (default: from project file, or the CPU count)")
	libFlag := flag.String("lib", "", "Comma-separated standard library sets, e.g. es5,es2015")
	noImplicitAnyFlag := flag.Bool("noImplicitAny", false, "Report values whose type silently becomes any")
	jsonFlag := flag.Bool("json", false, "Write diagnostics as JSON to stdout")
	verboseFlag := flag.Bool("v", false, "Log loader and driver events to stderr")
	replFlag := flag.Bool("repl", false, "Start an interactive session that prints the type of each expression")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tscheck [options] [file ...]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelWarn
	if *verboseFlag {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(*configFlag, *rootFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tscheck: %s\n", err)
		return exitUsage
	}
	if *jobsFlag < 0 {
		fmt.Fprintf(os.Stderr, "tscheck: -jobs must not be negative\n")
		return exitUsage
	}
	if *jobsFlag > 0 {
		cfg.Jobs = *jobsFlag
	}
	if *libFlag != "" {
		if cfg.Libs, err = builtins.ParseLibs(strings.Split(*libFlag, ",")); err != nil {
			fmt.Fprintf(os.Stderr, "tscheck: %s\n", err)
			return exitUsage
		}
	}
	if *noImplicitAnyFlag {
		cfg.Rule.NoImplicitAny = true
	}
	if cfg.File != "" {
		logger.Debug("using project file", "file", cfg.File)
	}

	session, err := driver.NewSession(cfg, driver.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "tscheck: %s\n", err)
		return exitSoftware
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *replFlag {
		if flag.NArg() > 0 {
			flag.Usage()
			return exitUsage
		}
		return runRepl(ctx, session)
	}

	var results []*driver.Result
	if flag.NArg() > 0 {
		for _, arg := range flag.Args() {
			abs, err := filepath.Abs(arg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "tscheck: %s\n", err)
				return exitUsage
			}
			rel, err := cfg.Rel(abs)
			if err != nil || rel == ".." || strings.HasPrefix(rel, "../") {
				fmt.Fprintf(os.Stderr, "tscheck: %s is outside the project root %s\n", arg, cfg.Root)
				return exitUsage
			}
			results = append(results, session.CheckFile(ctx, rel))
		}
	} else {
		results, err = session.Check(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tscheck: %s\n", err)
			return exitSoftware
		}
	}

	if *jsonFlag {
		if err := writeJSON(os.Stdout, session, results); err != nil {
			fmt.Fprintf(os.Stderr, "tscheck: %s\n", err)
			return exitSoftware
		}
	} else {
		printResults(session, results)
	}

	for _, r := range results {
		if len(r.Errors) > 0 {
			return exitDiagnostics
		}
	}
	return 0
}

// loadConfig picks the project file named by -config, or searches upward
// from -root or the working directory. An explicit -root wins over the
// file's root.
func loadConfig(file, root string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case file != "":
		cfg, err = config.Load(file)
	case root != "":
		cfg, err = config.Find(root)
	default:
		cfg, err = config.Find(".")
	}
	if err != nil {
		return nil, err
	}
	if root != "" {
		if cfg.Root, err = filepath.Abs(root); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func countErrors(results []*driver.Result) (files, diags int) {
	for _, r := range results {
		if len(r.Errors) > 0 {
			files++
			diags += len(r.Errors)
		}
	}
	return files, diags
}
