package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/pimstore/pkg/store"
	"github.com/calvinalkan/pimstore/pkg/store/header"
)

var errNoEditorFound = errors.New("no editor found (set editor in config or $EDITOR)")

// EditCmd returns the edit command.
func EditCmd(sess *session) *Command {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	editHeader := fs.Bool("header", false, "Edit the header instead of the content")

	return &Command{
		Flags: fs,
		Usage: "edit <id> [--header]",
		Short: "Open an entry in your editor",
		Long: `Open the content of <id> (or its header with --header) in an editor.

The entry stays checked out while the editor runs. The editor is taken from
the "editor" config key (with "editor-opts"), then $EDITOR, then vi.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execEdit(ctx, sess, o, args, *editHeader)
		},
	}
}

func execEdit(ctx context.Context, sess *session, o *IO, args []string, editHeader bool) error {
	st, id, err := sessionID(sess, args)
	if err != nil {
		return err
	}

	editor, err := resolveEditor(sess)
	if err != nil {
		return err
	}

	g, err := st.Retrieve(id)
	if err != nil {
		return err
	}

	defer g.Discard()

	e := g.Entry()

	text := e.Content()
	ext := ".md"

	if editHeader {
		data, err := header.Marshal(e.Header())
		if err != nil {
			return err
		}

		text = string(data)
		ext = ".toml"
	}

	edited, err := editText(ctx, editor, text, ext)
	if err != nil {
		return err
	}

	if edited == text {
		o.Println("Unchanged", id)

		return nil
	}

	err = applyEdit(e, edited, editHeader)
	if err != nil {
		return err
	}

	err = g.Release()
	if err != nil {
		return err
	}

	o.Println("Updated", id)

	return nil
}

func applyEdit(e *store.Entry, edited string, editHeader bool) error {
	if !editHeader {
		e.SetContent(edited)

		return nil
	}

	h, err := header.Unmarshal([]byte(edited))
	if err != nil {
		return err
	}

	return e.SetHeader(h)
}

// resolveEditor returns the editor command line.
// Priority: config "editor" (+ "editor-opts") -> $EDITOR -> vi.
func resolveEditor(sess *session) ([]string, error) {
	if name := sess.cfg.Editor(); name != "" {
		_, err := exec.LookPath(name)
		if err == nil {
			return append([]string{name}, strings.Fields(sess.cfg.EditorOpts())...), nil
		}
	}

	if name := sess.env["EDITOR"]; name != "" {
		_, err := exec.LookPath(name)
		if err == nil {
			return []string{name}, nil
		}
	}

	_, err := exec.LookPath("vi")
	if err == nil {
		return []string{"vi"}, nil
	}

	return nil, errNoEditorFound
}

// editText writes text to a temp file, runs the editor on it and returns
// the file's content afterwards.
func editText(ctx context.Context, editor []string, text, ext string) (string, error) {
	dir, err := os.MkdirTemp("", "pim-edit-")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}

	defer func() { _ = os.RemoveAll(dir) }()

	path := filepath.Join(dir, "entry"+ext)

	err = os.WriteFile(path, []byte(text), 0o600)
	if err != nil {
		return "", fmt.Errorf("writing temp file: %w", err)
	}

	args := append(editor[1:len(editor):len(editor)], path)

	cmd := exec.CommandContext(ctx, editor[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err = cmd.Run()
	if err != nil {
		return "", fmt.Errorf("running editor: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading temp file: %w", err)
	}

	return string(data), nil
}
