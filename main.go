package main

import (
	"os"

	"github.com/galileo-map/galileo-vt-styler/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
