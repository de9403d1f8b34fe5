package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtroode/outagetracker/internal/app"
	"github.com/dtroode/outagetracker/internal/config"
	"github.com/dtroode/outagetracker/internal/logger"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)

	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("outagetracker", flag.ContinueOnError)
	showVersion := fs.Bool("version", false, "print build information and exit")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: outagetracker [-version] <command> [flags]\n\n%s", usage)
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		logAppVersion()
		return 0
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Printf("failed to parse config: %v", err)
		return 1
	}
	logger := logger.New(cfg.LogLevel)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", "error", err)
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("failed to close app", "error", err)
		}
	}()

	if err := a.Start(ctx); err != nil {
		logger.Error("failed to start app", "error", err)
		return 1
	}

	if err := execute(ctx, a, fs.Args(), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, errUsage) {
			fs.Usage()
			return 2
		}
		return 1
	}

	return 0
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
