package main

import (
	"os"

	"github.com/spigell/blacktable/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
