// Command dltcat decodes a DLT UDP stream into tagged, line-indexed text.
package main

import (
	"fmt"
	"os"

	"github.com/dlt-toolkit/dlthub/cmd"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := cmd.NewCommand(version, commit).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
