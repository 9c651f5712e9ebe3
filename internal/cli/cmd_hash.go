package cli

import (
	"context"
	"errors"

	flag "github.com/spf13/pflag"
)

var errPrefixRequired = errors.New("hash prefix is required")

// FindCmd returns the find command.
func FindCmd(sess *session) *Command {
	return &Command{
		Flags: flag.NewFlagSet("find", flag.ContinueOnError),
		Usage: "find <prefix>",
		Short: "Find the entry whose hash starts with prefix",
		Long:  "Print the id of the single entry whose SHA-256 content hash starts with <prefix>. Fails when no entry or several entries match; the candidates are listed.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return errPrefixRequired
			}

			st, err := sess.store()
			if err != nil {
				return err
			}

			id, err := findByHash(st, args[0])
			if err != nil {
				return err
			}

			o.Println(id)

			return nil
		},
	}
}

// HashCmd returns the hash command.
func HashCmd(sess *session) *Command {
	return &Command{
		Flags: flag.NewFlagSet("hash", flag.ContinueOnError),
		Usage: "hash <id>",
		Short: "Print the content hash of an entry",
		Exec: func(_ context.Context, o *IO, args []string) error {
			st, id, err := sessionID(sess, args)
			if err != nil {
				return err
			}

			sum, err := st.Hash(id)
			if err != nil {
				return err
			}

			o.Println(sum)

			return nil
		},
	}
}
