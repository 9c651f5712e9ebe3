package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/pimstore/internal/config"
)

var errConfigExists = errors.New("config file already exists")

// InitCmd returns the init command.
func InitCmd(sess *session) *Command {
	return &Command{
		Flags: flag.NewFlagSet("init", flag.ContinueOnError),
		Usage: "init",
		Short: "Write a default config file",
		Long:  "Write a default config.toml into the runtime path and create the store directory. Refuses to overwrite an existing config file.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execInit(sess, o)
		},
	}
}

func execInit(sess *session, o *IO) error {
	if sess.rtp == "" {
		return errNoRuntimePath
	}

	path := filepath.Join(sess.rtp, "config.toml")

	_, err := os.Stat(path)
	if err == nil {
		return fmt.Errorf("%w: %s", errConfigExists, path)
	}

	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	err = os.MkdirAll(sess.rtp, 0o750)
	if err != nil {
		return fmt.Errorf("creating runtime path: %w", err)
	}

	err = atomic.WriteFile(path, strings.NewReader(config.DefaultTOML))
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Opening the store creates its root.
	_, err = sess.store()
	if err != nil {
		return err
	}

	o.Println(path)

	return nil
}
