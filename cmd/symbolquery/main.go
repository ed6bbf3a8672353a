// symbolquery answers symbol queries against a configured set of symbol
// indexes.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "symbolquery:", err)
		os.Exit(1)
	}
}
