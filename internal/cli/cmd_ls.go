package cli

import (
	"context"
	"errors"
	"iter"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/pimstore/internal/module/filter"
	"github.com/calvinalkan/pimstore/pkg/store"
)

// LsCmd returns the ls command.
func LsCmd(sess *session) *Command {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	withHash := fs.Bool("hash", false, "Print the content hash before each id")
	versionLt := fs.String("version-lt", "", "Only entries whose store version is below this semver")

	return &Command{
		Flags: fs,
		Usage: "ls [module] [--hash] [--version-lt V]",
		Short: "List entry ids",
		Long: `List the ids of all entries of [module], or of the whole store.

Entries that cannot be parsed are skipped with a warning when --version-lt
has to read them; the exit code is then 1.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execLs(sess, o, args, *withHash, *versionLt)
		},
	}
}

func execLs(sess *session, o *IO, args []string, withHash bool, versionLt string) error {
	st, err := sess.store()
	if err != nil {
		return err
	}

	var ids iter.Seq2[store.ID, error]

	if len(args) > 0 {
		ids = st.RetrieveForModule(args[0])
	} else {
		ids = st.Entries()
	}

	var keep filter.Filter = filter.All
	if versionLt != "" {
		keep = filter.VersionLess(versionLt)
	}

	for id, err := range ids {
		if err != nil {
			return err
		}

		if versionLt != "" {
			g, err := st.Retrieve(id)
			if err != nil {
				if errors.Is(err, store.ErrParse) || errors.Is(err, store.ErrNotFound) {
					o.Warn(err.Error(), "skipped")

					continue
				}

				return err
			}

			ok := keep(g.Entry())

			g.Discard()

			if !ok {
				continue
			}
		}

		if !withHash {
			o.Println(id)

			continue
		}

		sum, err := st.Hash(id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}

			return err
		}

		o.Printf("%s %s\n", sum, id)
	}

	return nil
}
