package cli

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/pimstore/pkg/store"
)

var (
	errNoHashMatch    = errors.New("no entry matches hash")
	errIDOrHash       = errors.New("either <id> or --hash is required")
	errIDAndHashGiven = errors.New("<id> and --hash are mutually exclusive")
)

// DeleteCmd returns the delete command.
func DeleteCmd(sess *session) *Command {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	hash := fs.String("hash", "", "Select the entry by hash prefix")
	yes := fs.BoolP("yes", "y", false, "Do not ask for confirmation")

	return &Command{
		Flags: fs,
		Usage: "delete <id> | --hash <prefix> [--yes]",
		Short: "Delete an entry",
		Long:  "Delete the entry at <id>, or the single entry whose content hash starts with <prefix>. Asks for confirmation unless --yes is given.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execDelete(sess, o, args, *hash, *yes)
		},
	}
}

func execDelete(sess *session, o *IO, args []string, hash string, yes bool) error {
	if hash != "" && len(args) > 0 {
		return errIDAndHashGiven
	}

	if hash == "" && len(args) == 0 {
		return errIDOrHash
	}

	st, err := sess.store()
	if err != nil {
		return err
	}

	var id store.ID

	if hash != "" {
		id, err = findByHash(st, hash)
	} else {
		id, err = st.NewID(args[0])
	}

	if err != nil {
		return err
	}

	if !yes {
		ok, err := confirm(sess.stdin, o, fmt.Sprintf("Delete %s?", id))
		if err != nil {
			return err
		}

		if !ok {
			o.Println("Not deleted:", id)

			return nil
		}
	}

	err = st.Delete(id)
	if err != nil {
		return err
	}

	o.Println("Deleted", id)

	return nil
}

func findByHash(st *store.Store, prefix string) (store.ID, error) {
	id, found, err := st.FindByPartialHash(prefix)
	if err != nil {
		return store.ID{}, err
	}

	if !found {
		return store.ID{}, fmt.Errorf("%w: %s", errNoHashMatch, prefix)
	}

	return id, nil
}
