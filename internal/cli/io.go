package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/calvinalkan/pimstore/pkg/store"
)

// IO handles command output and collects warnings about entries a command
// had to skip.
type IO struct {
	out      io.Writer
	errOut   io.Writer
	warnings []string
	started  bool
}

// NewIO creates a new IO instance.
func NewIO(out, errOut io.Writer) *IO {
	return &IO{out: out, errOut: errOut}
}

// Warn records a problem that did not stop the command, for example an
// entry "ls" could not parse.
//
// Warnings are printed to stderr before the first line of output and again
// at the end, so they stay visible when output is piped through head or
// tail. Any warning makes the exit code 1.
func (o *IO) Warn(issue string, action string) {
	o.warnings = append(o.warnings, fmt.Sprintf("%s: %s", issue, action))
}

// Println writes to stdout. On first call, any collected warnings
// are printed to stderr first.
func (o *IO) Println(a ...any) {
	o.flushWarningsStart()
	_, _ = fmt.Fprintln(o.out, a...)
}

// Printf writes formatted output to stdout. On first call, any collected
// warnings are printed to stderr first.
func (o *IO) Printf(format string, a ...any) {
	o.flushWarningsStart()
	_, _ = fmt.Fprintf(o.out, format, a...)
}

// stderr returns an IO that writes everything to stderr, for help text
// printed after an error.
func (o *IO) stderr() *IO {
	return NewIO(o.errOut, o.errOut)
}

// ErrPrintln writes to stderr.
func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, a...)
}

// Finish prints warnings to stderr and returns exit code.
// Returns 1 if any warnings, 0 otherwise.
func (o *IO) Finish() int {
	// If no output happened but we have warnings, print them at "start" position
	o.flushWarningsStart()

	for _, w := range o.warnings {
		_, _ = fmt.Fprintln(o.errOut, "warning:", w)
	}

	if len(o.warnings) > 0 {
		return 1
	}

	return 0
}

func (o *IO) flushWarningsStart() {
	if !o.started && len(o.warnings) > 0 {
		for _, w := range o.warnings {
			_, _ = fmt.Fprintln(o.errOut, "warning:", w)
		}
	}

	o.started = true
}

// printError reports err on stderr. Ambiguous hash errors also list every
// candidate on its own line.
func printError(o *IO, err error) {
	o.ErrPrintln("error:", err)

	var serr *store.Error
	if errors.As(err, &serr) && serr.Kind == store.KindAmbiguousHash {
		for _, c := range serr.Candidates {
			o.ErrPrintln("  candidate:", c)
		}
	}
}
