package cli

import (
	"context"

	"github.com/calvinalkan/pimstore/internal/module/category"
	"github.com/calvinalkan/pimstore/pkg/store"
)

// CategoryCmd returns the category command group.
func CategoryCmd(sess *session) *Command {
	return &Command{
		Usage: "category <add|rm|ls|set>",
		Short: "Manage categories",
		Subcommands: []*Command{
			{
				Usage: "add <name>",
				Short: "Register a category",
				Exec: func(_ context.Context, o *IO, args []string) error {
					return withRegister(sess, args, func(r *category.Register, name string) error {
						err := r.Create(name)
						if err == nil {
							o.Println("Added category", name)
						}

						return err
					})
				},
			},
			{
				Usage: "rm <name>",
				Short: "Unregister a category",
				Exec: func(_ context.Context, o *IO, args []string) error {
					return withRegister(sess, args, func(r *category.Register, name string) error {
						err := r.Delete(name)
						if err == nil {
							o.Println("Removed category", name)
						}

						return err
					})
				},
			},
			{
				Usage: "ls",
				Short: "List registered categories",
				Exec: func(_ context.Context, o *IO, _ []string) error {
					st, err := sess.store()
					if err != nil {
						return err
					}

					names, err := category.NewRegister(st).All()
					if err != nil {
						return err
					}

					for _, n := range names {
						o.Println(n)
					}

					return nil
				},
			},
			{
				Usage: "set <id> <name>",
				Short: "Set the category of an entry",
				Exec: func(_ context.Context, _ *IO, args []string) error {
					if len(args) < 2 {
						return errNameRequired
					}

					st, id, err := sessionID(sess, args)
					if err != nil {
						return err
					}

					r := category.NewRegister(st)

					return st.Update(id, func(e *store.Entry) error {
						return category.SetChecked(r, e, args[1])
					})
				},
			},
		},
	}
}

func withRegister(sess *session, args []string, fn func(*category.Register, string) error) error {
	if len(args) == 0 {
		return errNameRequired
	}

	st, err := sess.store()
	if err != nil {
		return err
	}

	return fn(category.NewRegister(st), args[0])
}
