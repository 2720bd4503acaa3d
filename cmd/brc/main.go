package main

import (
	"brc/config"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/profile"
	"github.com/spf13/pflag"
)

const usage = `usage: brc <command> [flags] [args]

commands:
  gen       generate a measurements file
  solve     compute the answer file of a measurements file
  verify    cross-check the concurrent solver against the reference path
  validate  compare an answer file against the expected one
  stats     summarize a pyperf report
  show      print an answer file as a table
`

type command func(ctx context.Context, env *env) error

var commands = map[string]command{
	"gen":      genCmd,
	"solve":    solveCmd,
	"verify":   verifyCmd,
	"validate": validateCmd,
	"stats":    statsCmd,
	"show":     showCmd,
}

var (
	errUsage    = errors.New("invalid usage")
	errMismatch = errors.New("answers differ")
)

// env carries what every command sees once its flags are parsed.
type env struct {
	cfg   config.Config
	fs    *pflag.FlagSet
	out   io.Writer
	flags map[string]any
}

func (e *env) args() []string {
	return e.fs.Args()
}

func (e *env) stringFlag(name string) string {
	return *e.flags[name].(*string)
}

func (e *env) boolFlag(name string) bool {
	return *e.flags[name].(*bool)
}

func (e *env) uint64Flag(name string) uint64 {
	return *e.flags[name].(*uint64)
}

// commandFlags are registered on top of the shared config flags.
func commandFlags(name string, fs *pflag.FlagSet) map[string]any {
	flags := map[string]any{
		"profile": fs.String("profile", "", "profile the run: cpu, mem or trace"),
	}
	switch name {
	case "gen":
		flags["out"] = fs.StringP("out", "o", "", "output path, defaults to a new testcase in --testcases")
		flags["seed"] = fs.Uint64("seed", 0, "random seed, 0 picks one")
	case "solve":
		flags["out"] = fs.StringP("out", "o", "", "answer path, defaults to the input's answer name")
		flags["reference"] = fs.Bool("reference", false, "use the strict single-threaded path")
	case "stats":
		flags["out"] = fs.StringP("out", "o", "", "also write the parsed report here")
	}
	return flags
}

func startProfile(mode string) (interface{ Stop() }, error) {
	switch mode {
	case "":
		return nil, nil
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet), nil
	case "mem":
		return profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet), nil
	case "trace":
		return profile.Start(profile.TraceProfile, profile.ProfilePath("."), profile.Quiet), nil
	}
	return nil, fmt.Errorf("%w: unknown profile %q", errUsage, mode)
}

func run(ctx context.Context, args []string, out io.Writer, lookup config.LookupFunc) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return errUsage
	}
	name := args[0]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprint(out, usage)
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(out)
	flags := commandFlags(name, fs)
	cfg, err := config.Load(fs, args[1:], lookup)
	if err != nil {
		return err
	}

	p, err := startProfile(*flags["profile"].(*string))
	if err != nil {
		return err
	}
	if p != nil {
		defer p.Stop()
	}

	return cmd(ctx, &env{cfg: cfg, fs: fs, out: out, flags: flags})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.LookupEnv); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
