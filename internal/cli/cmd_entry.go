package cli

import (
	"bytes"
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/pimstore/pkg/store"
)

// CreateCmd returns the create command.
func CreateCmd(sess *session) *Command {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	content := fs.String("content", "", "Entry content")

	return &Command{
		Flags: fs,
		Usage: "create <id> [--content TEXT]",
		Short: "Create an entry, prints its id",
		Long:  "Create a new entry at <id> (<module>/<name...>). Fails if the entry already exists.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execCreate(sess, o, args, *content)
		},
	}
}

func execCreate(sess *session, o *IO, args []string, content string) error {
	st, id, err := sessionID(sess, args)
	if err != nil {
		return err
	}

	g, err := st.Create(id)
	if err != nil {
		return err
	}

	g.Entry().SetContent(content)

	err = g.Release()
	if err != nil {
		return err
	}

	o.Println(id)

	return nil
}

// GetCmd returns the get command.
func GetCmd(sess *session) *Command {
	return &Command{
		Flags: flag.NewFlagSet("get", flag.ContinueOnError),
		Usage: "get <id>",
		Short: "Print an entry",
		Long:  "Print the entry stored at <id>. Prints \"No entry found\" if it does not exist.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execShow(sess, o, args, false)
		},
	}
}

// RetrieveCmd returns the retrieve command.
func RetrieveCmd(sess *session) *Command {
	return &Command{
		Flags: flag.NewFlagSet("retrieve", flag.ContinueOnError),
		Usage: "retrieve <id>",
		Short: "Print an entry, fails if missing",
		Long:  "Print the entry stored at <id>. Fails if it does not exist.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execShow(sess, o, args, true)
		},
	}
}

func execShow(sess *session, o *IO, args []string, mustExist bool) error {
	st, id, err := sessionID(sess, args)
	if err != nil {
		return err
	}

	var g *store.Guard

	if mustExist {
		g, err = st.Retrieve(id)
	} else {
		g, err = st.Get(id)
	}

	if err != nil {
		return err
	}

	if g == nil {
		o.Println("No entry found")

		return nil
	}

	defer g.Discard()

	return printEntry(o, g.Entry())
}

func printEntry(o *IO, e *store.Entry) error {
	data, err := e.Marshal()
	if err != nil {
		return err
	}

	o.Printf("%s", data)

	if !bytes.HasSuffix(data, []byte("\n")) {
		o.Println()
	}

	return nil
}

// sessionID opens the store and parses args[0] as an entry id.
func sessionID(sess *session, args []string) (*store.Store, store.ID, error) {
	if len(args) == 0 {
		return nil, store.ID{}, errIDRequired
	}

	st, err := sess.store()
	if err != nil {
		return nil, store.ID{}, err
	}

	id, err := st.NewID(args[0])
	if err != nil {
		return nil, store.ID{}, err
	}

	return st, id, nil
}
