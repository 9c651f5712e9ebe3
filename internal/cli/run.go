package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/calvinalkan/pimstore/internal/config"
	"github.com/calvinalkan/pimstore/pkg/store"
)

const helpFlag = "--help"

var (
	errNoRuntimePath = errors.New("no runtime path: set --rtp, PIM_RTP or HOME")
	errIDRequired    = errors.New("id is required")
)

// session carries what commands need from the global flags. The store is
// opened on first use so "init" and "print-config" work without one.
type session struct {
	stdin     io.Reader
	env       map[string]string
	cfg       *config.Config
	rtp       string
	storeRoot string
	log       *zap.Logger
	now       func() time.Time

	st *store.Store
}

func (s *session) store() (*store.Store, error) {
	if s.st != nil {
		return s.st, nil
	}

	if s.storeRoot == "" {
		return nil, errNoRuntimePath
	}

	st, err := store.Open(s.storeRoot, store.Options{Logger: s.log})
	if err != nil {
		return nil, err
	}

	s.st = st

	return st, nil
}

type globalFlags struct {
	rtp        string
	storePath  string
	configPath string
	overrides  []string
	debug      bool
	help       bool
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var g globalFlags

	fs := flag.NewFlagSet("pim", flag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.SetOutput(io.Discard)

	fs.StringVarP(&g.rtp, "rtp", "r", "", "Runtime path")
	fs.StringVarP(&g.storePath, "store", "s", "", "Store root")
	fs.StringVarP(&g.configPath, "config", "c", "", "Use specified config file")
	fs.StringArrayVarP(&g.overrides, "override", "o", nil, "Override config value (key=value, repeatable)")
	fs.BoolVar(&g.debug, "debug", false, "Enable debug logging")
	fs.BoolVarP(&g.help, "help", "h", false, "Show help")

	err := fs.Parse(args)
	if err != nil {
		return globalFlags{}, err
	}

	g.remaining = fs.Args()

	return g, nil
}

// Run is the main entry point. Returns exit code.
func Run(stdin io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	if len(args) > 0 {
		args = args[1:]
	}

	flags, err := parseGlobalFlags(args)
	if err != nil {
		fprintln(errOut, "error:", err)
		fprintln(errOut)
		printUsage(errOut, commands(nil))

		return 1
	}

	if flags.help || len(flags.remaining) == 0 {
		printUsage(out, commands(nil))

		return 0
	}

	sess := &session{
		stdin: stdin,
		env:   env,
		rtp:   config.RuntimePath(flags.rtp, env),
		now:   time.Now,
	}

	name := flags.remaining[0]

	cmd := lookup(commands(sess), name)
	if cmd == nil {
		fprintln(errOut, "error: unknown command:", name)
		fprintln(errOut)
		printUsage(errOut, commands(nil))

		return 1
	}

	cfg, err := config.Load(config.LoadInput{
		ConfigPath:  flags.configPath,
		RuntimePath: flags.rtp,
		Env:         env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	err = cfg.Override(flags.overrides)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	sess.cfg = cfg
	sess.storeRoot = resolveStoreRoot(flags.storePath, cfg, sess.rtp)

	logger := newLogger(errOut, flags.debug || cfg.Verbose())

	defer func() { _ = logger.Sync() }()

	sess.log = logger

	logger.Debug("starting",
		zap.String("command", name),
		zap.String("rtp", sess.rtp),
		zap.String("store", sess.storeRoot),
		zap.String("config", cfg.Source),
	)

	return cmd.Run(ctx, NewIO(out, errOut), flags.remaining[1:])
}

// resolveStoreRoot picks the store root: --store, then "store.path" from the
// configuration, then <rtp>/store. Relative config paths are taken from rtp.
func resolveStoreRoot(flagPath string, cfg *config.Config, rtp string) string {
	if flagPath != "" {
		return flagPath
	}

	if p := cfg.StorePath(); p != "" {
		if filepath.IsAbs(p) || rtp == "" {
			return p
		}

		return filepath.Join(rtp, p)
	}

	if rtp == "" {
		return ""
	}

	return filepath.Join(rtp, "store")
}

// commands lists all top-level commands. A nil session is enough for help
// output.
func commands(sess *session) []*Command {
	return []*Command{
		InitCmd(sess),
		CreateCmd(sess),
		GetCmd(sess),
		RetrieveCmd(sess),
		EditCmd(sess),
		DeleteCmd(sess),
		LsCmd(sess),
		FindCmd(sess),
		HashCmd(sess),
		NoteCmd(sess),
		LogCmd(sess),
		DiaryCmd(sess),
		TagCmd(sess),
		CategoryCmd(sess),
		BookmarkCmd(sess),
		TrackCmd(sess),
		PrintConfigCmd(sess),
	}
}

func lookup(cmds []*Command, name string) *Command {
	for _, c := range cmds {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, cmds []*Command) {
	fprintln(w, `pim - personal information store

Usage: pim [options] <command> [args]

Options:
  -r, --rtp <dir>          Runtime path [default: $PIM_RTP or ~/.pim]
  -s, --store <dir>        Store root [default: <rtp>/store]
  -c, --config <file>      Use specified config file
  -o, --override <k=v>     Override config value (repeatable)
      --debug              Enable debug logging

Commands:`)

	for _, c := range cmds {
		fprintln(w, c.HelpLine())
	}
}
