package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/pimstore/pkg/store/header"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(sess *session) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration, after overrides, and the file it was loaded from.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execPrintConfig(sess, o)
		},
	}
}

func execPrintConfig(sess *session, o *IO) error {
	data, err := header.Marshal(sess.cfg.Doc())
	if err != nil {
		return err
	}

	o.Printf("%s", data)

	o.Println()
	o.Println("# Sources:")

	if sess.cfg.Source != "" {
		o.Println("#   config:", sess.cfg.Source)
	} else {
		o.Println("#   (using defaults only)")
	}

	o.Println("#   rtp:", sess.rtp)
	o.Println("#   store:", sess.storeRoot)

	return nil
}
