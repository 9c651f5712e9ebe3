package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command defines a CLI command with unified help generation.
type Command struct {
	// Flags defines command-specific flags.
	// The FlagSet name is not used - command identity comes from Usage.
	Flags *flag.FlagSet

	// Usage is the freeform usage string shown after "pim" in help.
	// Includes the command name and arguments/flags.
	// Examples: "get <id>", "delete <id> | --hash <prefix> [--yes]"
	Usage string

	// Short is a one-line description for the global help listing.
	Short string

	// Long is the full description shown in command help.
	// If empty, Short is used instead.
	Long string

	// Exec runs the command after flags are parsed.
	// Unused when Subcommands is set.
	Exec func(ctx context.Context, o *IO, args []string) error

	// Subcommands turns the command into a group dispatching on its first
	// argument ("note add", "tag ls").
	Subcommands []*Command

	// parent is the group name, set when run as a subcommand.
	parent string
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")
	return name
}

// HelpLine returns the short help line for the main usage display.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-34s %s", c.Usage, c.Short)
}

// PrintHelp prints the full help output for "pim <cmd> --help".
func (c *Command) PrintHelp(o *IO) {
	if c.parent != "" {
		o.Println("Usage: pim", c.parent, c.Usage)
	} else {
		o.Println("Usage: pim", c.Usage)
	}
	o.Println()

	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	o.Println(desc)

	if len(c.Subcommands) > 0 {
		o.Println()
		o.Println("Commands:")

		for _, sub := range c.Subcommands {
			o.Println(sub.HelpLine())
		}
	}

	if c.Flags != nil && c.Flags.HasFlags() {
		o.Println()
		o.Println("Flags:")

		var buf strings.Builder
		c.Flags.SetOutput(&buf)
		c.Flags.PrintDefaults()
		o.Printf("%s", buf.String())
	}
}

// Run parses flags and executes the command. Returns exit code.
// Handles error printing internally for consistent output ordering.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	if len(c.Subcommands) > 0 {
		return c.runGroup(ctx, o, args)
	}

	if c.Flags == nil {
		c.Flags = flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	}

	c.Flags.SetOutput(&strings.Builder{}) // discard pflag output

	err := c.Flags.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.PrintHelp(o)
			return 0
		}
		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		c.PrintHelp(o.stderr())

		return 1
	}

	if err := c.Exec(ctx, o, c.Flags.Args()); err != nil {
		printError(o, err)
		return 1
	}

	return o.Finish()
}

func (c *Command) runGroup(ctx context.Context, o *IO, args []string) int {
	if len(args) == 0 {
		c.PrintHelp(o.stderr())

		return 1
	}

	if args[0] == "-h" || args[0] == helpFlag {
		c.PrintHelp(o)

		return 0
	}

	for _, sub := range c.Subcommands {
		if sub.Name() == args[0] {
			sub.parent = c.Name()

			return sub.Run(ctx, o, args[1:])
		}
	}

	o.ErrPrintln("error: unknown command:", c.Name(), args[0])
	o.ErrPrintln()
	c.PrintHelp(o.stderr())

	return 1
}
