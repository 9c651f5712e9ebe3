package cli

import (
	"context"
	"errors"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/pimstore/internal/module/bookmark"
)

var errURLRequired = errors.New("url is required")

// BookmarkCmd returns the bookmark command group.
func BookmarkCmd(sess *session) *Command {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	title := fs.StringP("title", "t", "", "Bookmark title")

	return &Command{
		Usage: "bookmark <add|ls>",
		Short: "Manage bookmarks",
		Subcommands: []*Command{
			{
				Flags: fs,
				Usage: "add <url> [--title TITLE]",
				Short: "Add a bookmark, prints its id",
				Exec: func(_ context.Context, o *IO, args []string) error {
					if len(args) == 0 {
						return errURLRequired
					}

					st, err := sess.store()
					if err != nil {
						return err
					}

					if id, found, err := bookmark.FindByURL(st, args[0]); err != nil {
						return err
					} else if found {
						o.Warn(args[0]+" already bookmarked as "+id.Rel(), "added anyway")
					}

					id, err := bookmark.Add(st, args[0], *title)
					if err != nil {
						return err
					}

					o.Println(id)

					return nil
				},
			},
			{
				Usage: "ls",
				Short: "List bookmarks as <id> <url>",
				Exec: func(_ context.Context, o *IO, _ []string) error {
					st, err := sess.store()
					if err != nil {
						return err
					}

					for id, err := range bookmark.All(st) {
						if err != nil {
							return err
						}

						g, err := st.Retrieve(id)
						if err != nil {
							o.Warn(err.Error(), "skipped")

							continue
						}

						u, err := bookmark.URL(g.Entry())
						g.Discard()

						if err != nil {
							o.Warn(err.Error(), "skipped")

							continue
						}

						o.Printf("%s %s\n", id, u)
					}

					return nil
				},
			},
		},
	}
}
