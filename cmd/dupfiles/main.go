// Command dupfiles finds files in a scan directory that duplicate files
// in a reference directory and moves (or reports) them, per the design.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}
