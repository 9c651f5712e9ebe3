package cli

import (
	"context"
	"errors"

	"github.com/calvinalkan/pimstore/internal/module/tag"
	"github.com/calvinalkan/pimstore/pkg/store"
)

var errTagRequired = errors.New("tag is required")

// TagCmd returns the tag command group.
func TagCmd(sess *session) *Command {
	return &Command{
		Usage: "tag <add|rm|ls>",
		Short: "Manage entry tags",
		Subcommands: []*Command{
			{
				Usage: "add <id> <tag>",
				Short: "Tag an entry",
				Exec: func(_ context.Context, _ *IO, args []string) error {
					return updateTags(sess, args, func(e *store.Entry, t string) error {
						return tag.Add(e, t)
					})
				},
			},
			{
				Usage: "rm <id> <tag>",
				Short: "Remove a tag from an entry",
				Exec: func(_ context.Context, o *IO, args []string) error {
					return updateTags(sess, args, func(e *store.Entry, t string) error {
						removed, err := tag.Remove(e, t)
						if err == nil && !removed {
							o.Warn("tag "+t+" not set on "+e.ID().Rel(), "nothing removed")
						}

						return err
					})
				},
			},
			{
				Usage: "ls <id>",
				Short: "List the tags of an entry",
				Exec: func(_ context.Context, o *IO, args []string) error {
					st, id, err := sessionID(sess, args)
					if err != nil {
						return err
					}

					g, err := st.Retrieve(id)
					if err != nil {
						return err
					}

					defer g.Discard()

					tags, err := tag.All(g.Entry())
					if err != nil {
						return err
					}

					for _, t := range tags {
						o.Println(t)
					}

					return nil
				},
			},
		},
	}
}

func updateTags(sess *session, args []string, fn func(*store.Entry, string) error) error {
	if len(args) < 2 {
		if len(args) == 0 {
			return errIDRequired
		}

		return errTagRequired
	}

	st, id, err := sessionID(sess, args)
	if err != nil {
		return err
	}

	t := args[1]

	return st.Update(id, func(e *store.Entry) error {
		return fn(e, t)
	})
}
