package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

// confirm asks question and reports whether the answer was yes.
//
// On a terminal the prompt goes through liner. Otherwise one line is read
// from stdin; EOF or Ctrl-C count as no.
func confirm(stdin io.Reader, o *IO, question string) (bool, error) {
	prompt := question + " (yes/no): "

	if isTerminal(stdin) {
		line := liner.NewLiner()
		defer line.Close()

		line.SetCtrlCAborts(true)

		answer, err := line.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return false, nil
		}

		if err != nil {
			return false, err
		}

		return isYes(answer), nil
	}

	o.Printf("%s", prompt)

	if stdin == nil {
		o.Println()

		return false, nil
	}

	answer, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	o.Println()

	return isYes(answer), nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok || f != os.Stdin {
		return false
	}

	info, err := f.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice == 0 {
		return false
	}

	return liner.TerminalSupported()
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
