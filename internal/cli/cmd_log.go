package cli

import (
	"context"
	"errors"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/pimstore/internal/module/diary"
)

var errTextRequired = errors.New("text is required")

// LogCmd returns the log command.
func LogCmd(sess *session) *Command {
	fs := flag.NewFlagSet("log", flag.ContinueOnError)
	name := fs.String("diary", "", "Log to this diary [default: log.default]")

	return &Command{
		Flags: fs,
		Usage: "log [--diary NAME] <text...>",
		Short: "Add a log line, prints its id",
		Long:  "Add a timestamped log entry to the diary named by log.default (or --diary). The name must be listed in log.logs.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			logName := *name
			if logName == "" {
				var err error

				logName, err = diary.LogName(sess.cfg)
				if err != nil {
					return err
				}
			}

			return writeDiary(sess, o, logName, args, true)
		},
	}
}

// DiaryCmd returns the diary command group.
func DiaryCmd(sess *session) *Command {
	return &Command{
		Usage: "diary <add|ls|names>",
		Short: "Manage diary entries",
		Subcommands: []*Command{
			diaryAddCmd(sess),
			diaryLsCmd(sess),
			diaryNamesCmd(sess),
		},
	}
}

func diaryAddCmd(sess *session) *Command {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	name := fs.StringP("name", "n", "", "Diary name [default: diary.default_diary]")

	return &Command{
		Flags: fs,
		Usage: "add [--name NAME] <text...>",
		Short: "Add a diary entry, prints its id",
		Exec: func(_ context.Context, o *IO, args []string) error {
			diaryName, err := diaryNameOrDefault(sess, *name)
			if err != nil {
				return err
			}

			return writeDiary(sess, o, diaryName, args, false)
		},
	}
}

func diaryLsCmd(sess *session) *Command {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	name := fs.StringP("name", "n", "", "Diary name [default: diary.default_diary]")

	return &Command{
		Flags: fs,
		Usage: "ls [--name NAME]",
		Short: "List the entries of a diary",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			diaryName, err := diaryNameOrDefault(sess, *name)
			if err != nil {
				return err
			}

			st, err := sess.store()
			if err != nil {
				return err
			}

			for id, err := range diary.Entries(st, diaryName) {
				if err != nil {
					return err
				}

				o.Println(id.Rel())
			}

			return nil
		},
	}
}

func diaryNamesCmd(sess *session) *Command {
	return &Command{
		Usage: "names",
		Short: "List diaries with entries",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			st, err := sess.store()
			if err != nil {
				return err
			}

			names, err := diary.Names(st)
			if err != nil {
				return err
			}

			for _, n := range names {
				o.Println(n)
			}

			return nil
		},
	}
}

func diaryNameOrDefault(sess *session, name string) (string, error) {
	if name != "" {
		return name, nil
	}

	return diary.DefaultName(sess.cfg)
}

func writeDiary(sess *session, o *IO, name string, args []string, isLog bool) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return errTextRequired
	}

	st, err := sess.store()
	if err != nil {
		return err
	}

	g, err := diary.NewEntryNow(st, name, sess.now)
	if err != nil {
		return err
	}

	if isLog {
		err = diary.MakeLog(g.Entry())
		if err != nil {
			g.Discard()

			return err
		}
	}

	g.Entry().SetContent(text + "\n")

	err = g.Release()
	if err != nil {
		return err
	}

	o.Println(g.ID())

	return nil
}
