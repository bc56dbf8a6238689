// Package cli implements tfcctl, a small inspection command for processes
// built with the tfc build tag: it prints the virtual clock and thread
// bookkeeping snapshot exposed by osal.DebugStats. Its Command/Runner shape
// is adapted from cmdline2's command tree, simplified to a single leaf
// command and built on top of pflag rather than the standard flag package.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/gpcc-go/gpcc/osal"
)

// Command is a single named, runnable leaf of the tfcctl command tree.
type Command struct {
	Name  string
	Short string
	Flags *pflag.FlagSet
	Run   func(out io.Writer, args []string) error
}

// Root builds the tfcctl root: currently a single "stats" command, kept as
// a tree (rather than a flat function) so additional inspection commands
// can be added as siblings without changing the dispatch logic.
func Root() []*Command {
	return []*Command{statsCommand()}
}

func statsCommand() *Command {
	fs := pflag.NewFlagSet("stats", pflag.ContinueOnError)
	watch := fs.Bool("watch", false, "keep printing until interrupted (not implemented by this single-shot command)")
	return &Command{
		Name:  "stats",
		Short: "print the current virtual-clock and thread bookkeeping snapshot",
		Flags: fs,
		Run: func(out io.Writer, args []string) error {
			if *watch {
				return fmt.Errorf("tfcctl stats: -watch is not supported by this build")
			}
			if !osal.DebugStatsSupported() {
				fmt.Fprintln(out, "tfcctl: process was not built with the tfc tag; no virtual clock to report")
				return nil
			}
			fmt.Fprintln(out, osal.DebugStats())
			return nil
		},
	}
}

// Dispatch finds the command named by args[0] among cmds and runs it with
// the remaining arguments, writing its output to out.
func Dispatch(cmds []*Command, out io.Writer, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("tfcctl: no command given; available: %s", names(cmds))
	}
	for _, c := range cmds {
		if c.Name != args[0] {
			continue
		}
		if err := c.Flags.Parse(args[1:]); err != nil {
			return err
		}
		return c.Run(out, c.Flags.Args())
	}
	return fmt.Errorf("tfcctl: unknown command %q; available: %s", args[0], names(cmds))
}

func names(cmds []*Command) string {
	s := ""
	for i, c := range cmds {
		if i > 0 {
			s += ", "
		}
		s += c.Name
	}
	return s
}
