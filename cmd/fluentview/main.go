// Package main provides the entry point for the FluentView client.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/fluentview/fluentview-client/internal/config"
	"github.com/fluentview/fluentview-client/internal/di"
	"github.com/fluentview/fluentview-client/internal/logger"
)

const usage = `FluentView - comprehensible-input video tracking

Usage: fluentview [flags] <command> [args]

Commands:
  login               Log in with an email verification code
  status              Show today's watch-time progress
  refresh             Force a progress refresh from the server
  videos              List the video catalog
  series              List the series catalog
  watch <video-id>    Track a watch session for a video
  log <title> <secs>  Log externally watched time
  logout              Log out and wipe local data

Flags:
`

func main() {
	fs := flag.NewFlagSet("fluentview", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}

	cfg, err := config.LoadConfigFlagSet(fs, os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	injector := di.NewContainer(cfg)
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)

	args := fs.Args()
	command := "status"
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	}

	runErr := runCommand(context.Background(), injector, command, args)

	if err := injector.Shutdown(); err != nil {
		log.Error("shutdown error", "error", err)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}
