package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/nooga/tscheck/pkg/config"
	"github.com/nooga/tscheck/pkg/driver"
	"github.com/nooga/tscheck/pkg/modules"
	"github.com/nooga/tscheck/pkg/source"
)

const usage = `Usage: tscheck [options] [file.ts ...]

With no files, the include patterns of tscheck.yaml are checked. With no
files and no include patterns, the program is read from standard input.

Options:
`

func main() {
	configFlag := flag.String("config", "", "Configuration file (default: ./tscheck.yaml if present)")
	libFlag := flag.String("lib", "", "Comma separated built-in libraries, e.g. es5,es2015")
	workersFlag := flag.Int("j", 0, "Number of modules checked in parallel (default: GOMAXPROCS)")
	exprFlag := flag.String("e", "", "Check the given code and exit")
	verboseFlag := flag.Bool("v", false, "Log progress to stderr")
	statsFlag := flag.Bool("stats", false, "Print module statistics after checking")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tscheck: %v\n", err)
		os.Exit(64) // Exit code 64: command line usage error
	}
	if *libFlag != "" {
		if err := cfg.SetLibs(*libFlag); err != nil {
			fmt.Fprintf(os.Stderr, "tscheck: -lib: %v\n", err)
			os.Exit(64)
		}
	}
	if *workersFlag < 0 {
		fmt.Fprintf(os.Stderr, "tscheck: -j must not be negative\n")
		os.Exit(64)
	} else if *workersFlag > 0 {
		cfg.Workers = *workersFlag
	}

	d, err := driver.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tscheck: %v\n", err)
		os.Exit(70) // Exit code 70: internal software error
	}
	if *verboseFlag {
		d.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *exprFlag != "" {
		os.Exit(exitCode(driver.ReportResult(os.Stderr, d.CheckString(ctx, *exprFlag))))
	}

	files := flag.Args()
	if len(files) == 0 {
		files, err = cfg.Files(".")
		if err != nil {
			fmt.Fprintf(os.Stderr, "tscheck: %v\n", err)
			os.Exit(64)
		}
	}
	if len(files) == 0 {
		os.Exit(exitCode(checkStdin(ctx, d)))
	}

	reg, err := d.CheckFiles(ctx, files)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tscheck: %v\n", err)
		os.Exit(70)
	}
	n := driver.Report(os.Stderr, reg)
	if *statsFlag {
		printStats(os.Stderr, reg.Stats())
	}
	os.Exit(exitCode(n))
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.Find(".")
}

func checkStdin(ctx context.Context, d *driver.Driver) int {
	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tscheck: reading stdin: %v\n", err)
		os.Exit(70)
	}
	return driver.ReportResult(os.Stderr, d.CheckSource(ctx, source.NewStdinSource(string(content))))
}

func printStats(w io.Writer, s modules.RegistryStats) {
	fmt.Fprintf(w, "modules: %d (clean %d, with errors %d, failed %d)\n",
		s.TotalModules, s.CheckedModules, s.ErrorModules, s.FailedModules)
}

// exitCode is 1 when anything was reported.
func exitCode(diagnostics int) int {
	if diagnostics > 0 {
		return 1
	}
	return 0
}
