package cli

import (
	"context"
	"time"

	"github.com/calvinalkan/pimstore/internal/module/timetrack"
)

// TrackCmd returns the track command group.
func TrackCmd(sess *session) *Command {
	return &Command{
		Usage: "track <start|stop|ls>",
		Short: "Track time per tag",
		Subcommands: []*Command{
			{
				Usage: "start <tag>",
				Short: "Start an interval, prints its id",
				Exec: func(_ context.Context, o *IO, args []string) error {
					if len(args) == 0 {
						return errTagRequired
					}

					st, err := sess.store()
					if err != nil {
						return err
					}

					id, err := timetrack.Start(st, args[0], sess.now())
					if err != nil {
						return err
					}

					o.Println(id)

					return nil
				},
			},
			{
				Usage: "stop <id>",
				Short: "Stop a running interval",
				Exec: func(_ context.Context, o *IO, args []string) error {
					st, id, err := sessionID(sess, args)
					if err != nil {
						return err
					}

					err = timetrack.Stop(st, id, sess.now())
					if err != nil {
						return err
					}

					o.Println("Stopped", id)

					return nil
				},
			},
			{
				Usage: "ls",
				Short: "List running intervals with their elapsed time",
				Exec: func(_ context.Context, o *IO, _ []string) error {
					st, err := sess.store()
					if err != nil {
						return err
					}

					running, err := timetrack.Running(st)
					if err != nil {
						return err
					}

					now := sess.now()

					for _, id := range running {
						g, err := st.Retrieve(id)
						if err != nil {
							return err
						}

						d, err := timetrack.Duration(g.Entry(), now)
						g.Discard()

						if err != nil {
							return err
						}

						o.Printf("%s %s\n", id, d.Truncate(time.Second))
					}

					return nil
				},
			},
		},
	}
}
