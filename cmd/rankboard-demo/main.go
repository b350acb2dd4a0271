// Command rankboard-demo reads "name score" lines from stdin and prints the
// board after each one.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"rankboard/core"
	"rankboard/engine"
	"rankboard/rankboard"
)

func main() {
	capacity := flag.Int("capacity", 10, "number of places on the board")
	verbose := flag.Bool("v", false, "log every board event")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(os.Stdin, os.Stdout, *capacity, logger); err != nil {
		logger.Error("demo failed", "error", err)
		os.Exit(1)
	}
}

// run applies each input line to a fresh board. "name score" offers an
// entry; "-N" removes place N.
func run(in io.Reader, out io.Writer, capacity int, logger *slog.Logger) error {
	svc, err := rankboard.New(capacity,
		rankboard.WithDispatchMode(engine.DispatchSync),
		rankboard.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := context.Background()
	scanner := bufio.NewScanner(in)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := apply(ctx, svc, text, out); err != nil {
			logger.Warn("skipping line", "line", line, "error", err)
			continue
		}
		fmt.Fprintln(out, svc.String())
	}
	return scanner.Err()
}

func apply(ctx context.Context, svc *engine.BoardService, text string, out io.Writer) error {
	if rest, ok := strings.CutPrefix(text, "-"); ok {
		place, err := strconv.Atoi(rest)
		if err != nil {
			return fmt.Errorf("invalid place %q", rest)
		}
		removed, err := svc.RemoveAt(ctx, place)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "removed %s\n", removed)
		return nil
	}
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return fmt.Errorf("expected \"name score\", got %q", text)
	}
	score, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid score %q", fields[1])
	}
	admitted, err := svc.Add(ctx, fields[0], score)
	if err != nil {
		return err
	}
	if !admitted {
		fmt.Fprintf(out, "rejected %s\n", core.NewEntry(fields[0], score))
	}
	return nil
}
