package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/multibrot/internal/history"
)

func runHistory(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	n := 10
	a, err := newApp(ctx, "history", args, stdout, stderr, func(fs *flag.FlagSet) {
		fs.IntVar(&n, "n", n, "Number of entries to list")
	})
	if err != nil {
		return err
	}
	defer a.close()

	if a.history == nil {
		return errors.New("history is disabled")
	}
	entries, err := a.history.Recent(ctx, n)
	if err != nil {
		return err
	}
	printHistory(stdout, entries)
	return nil
}

func printHistory(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no renders recorded")
		return
	}

	p := message.NewPrinter(language.English)
	ok := color.New(color.FgGreen).SprintFunc()
	failed := color.New(color.FgRed).SprintFunc()

	for _, e := range entries {
		status := ok(e.Status)
		if e.Status != history.StatusOK {
			status = failed(e.Status)
		}
		c := e.Config
		p.Fprintf(w, "%s  %s  %-6s  %d×%d  c=%v  e=%v  %.2fs  %s\n",
			e.ID.String()[:8],
			e.StartedAt.Local().Format("2006-01-02 15:04:05"),
			status,
			c.Width, c.Height, c.Center, c.Exponent,
			e.Duration.Seconds(),
			e.Output,
		)
		if e.Error != "" {
			fmt.Fprintf(w, "          %s\n", failed(e.Error))
		}
	}
}
