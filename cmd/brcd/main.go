package main

import (
	"brc/config"
	"brc/testcases"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/exp/slog"
)

// evaluate loads the configuration, runs the harness and records the outcome
// in the status file. Only failing to write the status is an error.
func evaluate(ctx context.Context, args []string, lookup config.LookupFunc, newH func(config.Config) *harness) error {
	fs := pflag.NewFlagSet("brcd", pflag.ContinueOnError)
	cfg, err := config.Load(fs, args, lookup)
	if err != nil {
		return testcases.WriteStatus(cfg.OutputDir, false, fmt.Sprintf("Failed to load configuration: %v", err))
	}

	h := newH(cfg)
	if _, err := h.run(ctx); err != nil {
		h.logger.Error("evaluation failed", slog.String("err", err.Error()))
		return testcases.WriteStatus(cfg.OutputDir, false, err.Error())
	}
	return testcases.WriteStatus(cfg.OutputDir, true, SUCCESS_MESSAGE)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := evaluate(ctx, os.Args[1:], os.LookupEnv, newHarness); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
