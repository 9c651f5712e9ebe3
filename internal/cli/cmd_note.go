package cli

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/pimstore/internal/module/note"
	"github.com/calvinalkan/pimstore/pkg/store"
)

var (
	errNameRequired = errors.New("name is required")
	errNoteNotFound = errors.New("note not found")
)

// NoteCmd returns the note command group.
func NoteCmd(sess *session) *Command {
	return &Command{
		Usage: "note <add|show|ls|rm>",
		Short: "Manage notes",
		Subcommands: []*Command{
			noteAddCmd(sess),
			noteShowCmd(sess),
			noteLsCmd(sess),
			noteRmCmd(sess),
		},
	}
}

func noteAddCmd(sess *session) *Command {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	text := fs.StringP("text", "t", "", "Note text")

	return &Command{
		Flags: fs,
		Usage: "add <name> [--text TEXT]",
		Short: "Create a note, prints its id",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return errNameRequired
			}

			st, err := sess.store()
			if err != nil {
				return err
			}

			g, err := note.Create(st, args[0], *text)
			if err != nil {
				return err
			}

			err = g.Release()
			if err != nil {
				return err
			}

			o.Println(g.ID())

			return nil
		},
	}
}

func noteShowCmd(sess *session) *Command {
	return &Command{
		Usage: "show <name>",
		Short: "Print the text of a note",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return errNameRequired
			}

			st, err := sess.store()
			if err != nil {
				return err
			}

			g, err := note.Get(st, args[0])
			if err != nil {
				return err
			}

			if g == nil {
				return fmt.Errorf("%w: %s", errNoteNotFound, args[0])
			}

			defer g.Discard()

			o.Println(note.Text(g.Entry()))

			return nil
		},
	}
}

func noteLsCmd(sess *session) *Command {
	return &Command{
		Usage: "ls",
		Short: "List note names",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			st, err := sess.store()
			if err != nil {
				return err
			}

			for id, err := range note.All(st) {
				if err != nil {
					return err
				}

				name, err := noteName(st, id)
				if err != nil {
					o.Warn(err.Error(), "skipped")

					continue
				}

				o.Println(name)
			}

			return nil
		},
	}
}

func noteName(st *store.Store, id store.ID) (string, error) {
	g, err := st.Retrieve(id)
	if err != nil {
		return "", err
	}

	defer g.Discard()

	name, err := note.Name(g.Entry())
	if err != nil {
		return "", err
	}

	if name == "" {
		return id.Name(), nil
	}

	return name, nil
}

func noteRmCmd(sess *session) *Command {
	return &Command{
		Usage: "rm <name>",
		Short: "Delete a note",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return errNameRequired
			}

			st, err := sess.store()
			if err != nil {
				return err
			}

			err = note.Delete(st, args[0])
			if err != nil {
				return err
			}

			o.Println("Deleted note", args[0])

			return nil
		},
	}
}
