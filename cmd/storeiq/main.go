// Package main is the entry point for the storeiq CLI client.
package main

import (
	"github.com/lmoretti/storeiq/cmd/storeiq/cmd"
)

func main() {
	cmd.Execute()
}
