// Command multibrot renders Multibrot fractal images.
//
// Usage:
//
//	multibrot [render] [flags]     render one image into the output directory
//	multibrot bench [flags]        time repeated renders, stepping the exponent
//	multibrot history [-n N]       list recent renders from the ledger
//	multibrot version
//
// Settings are layered: built-in defaults, a .env file (-env), MULTIBROT_*
// environment variables, a YAML preset (-preset) and finally flags.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/gogpu/multibrot"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := "render"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "render":
		err = runRender(ctx, args, stdout, stderr)
	case "bench":
		err = runBench(ctx, args, stdout, stderr)
	case "history":
		err = runHistory(ctx, args, stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "multibrot %s\n", multibrot.Version)
	case "help":
		usage(stdout)
	default:
		fmt.Fprintf(stderr, "multibrot: unknown command %q\n", cmd)
		usage(stderr)
		return exitUsage
	}

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, flag.ErrHelp):
		return exitOK
	case errors.Is(err, errUsage):
		return exitUsage
	default:
		fmt.Fprintf(stderr, "multibrot: %v\n", err)
		return exitError
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `usage: multibrot <command> [flags]

commands:
  render    render one image (default)
  bench     time repeated renders
  history   list recent renders
  version   print the version

Run "multibrot <command> -help" for the flags of a command.
`)
}
