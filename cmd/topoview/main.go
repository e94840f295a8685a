// Command topoview loads a topology manifest and reports how its layers
// behave at a given map scale.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
