// Command cli translates one query read from a file or stdin.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/ast"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/platform/all"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/platform/logrhythm"
	"github.com/lmittmann/tint"
)

func main() {
	logger := slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: time.Kitchen,
		}),
	)

	if err := run(os.Args[1:], os.Stdin, os.Stdout, logger); err != nil {
		logger.Error("translation failed.", "error", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	platforms := fs.String("platform", "", "comma separated platform ids, empty renders every platform")
	input := fs.String("input", "-", "path to a JSON query, - reads stdin")
	list := fs.Bool("list", false, "list platforms and exit")
	textDecomposition := fs.Bool("text-decomposition", false, "decompose LogRhythm rules from the rendered text")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var opts []all.Option
	if *textDecomposition {
		opts = append(opts, all.WithLogRhythmRule(logrhythm.WithTextDecomposition()))
	}

	reg, err := all.Registry(opts...)
	if err != nil {
		return err
	}

	if *list {
		for _, d := range reg.Details() {
			fmt.Fprintf(stdout, "%-24s %s\n", d.ID, d.Name)
		}
		return nil
	}

	var ids []string
	if *platforms != "" {
		ids = strings.Split(*platforms, ",")
	}
	reg, err = reg.Subset(ids...)
	if err != nil {
		return err
	}

	raw, err := readInput(*input, stdin)
	if err != nil {
		return err
	}

	var q ast.Query
	if err := json.Unmarshal(raw, &q); err != nil {
		return fmt.Errorf("cannot decode query: %w", err)
	}

	var errs []error
	for _, id := range reg.IDs() {
		r, _ := reg.Get(id)

		res, err := r.Render(q)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
			continue
		}

		fmt.Fprintf(stdout, "### %s\n%s\n\n", id, res.Output)
		for _, d := range res.Diagnostics {
			logger.Warn("translation diagnostic.", "platform", id, "diagnostic", d)
		}
	}

	return errors.Join(errs...)
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read query file: %w", err)
	}
	return raw, nil
}
