package main

import (
	"os"

	"github.com/msto63/grab/cmd/grab/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
