// Command tfcctl prints the virtual-clock and thread bookkeeping snapshot of
// a running process built with the tfc build tag (spec E1/E6). It is a thin
// wrapper around package cli; see Root/Dispatch there.
package main

import (
	"os"

	"github.com/gpcc-go/gpcc/cli"
	"github.com/gpcc-go/gpcc/log"
)

func main() {
	log.Configure(log.LogToStderr(true))
	if err := cli.Dispatch(cli.Root(), os.Stdout, os.Args[1:]); err != nil {
		log.Errorf("tfcctl: %v", err)
		os.Exit(1)
	}
}
