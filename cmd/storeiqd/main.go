// Package main is the entry point for the storeiqd server.
package main

import (
	"os"

	"github.com/lmoretti/storeiq/cmd/storeiqd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
