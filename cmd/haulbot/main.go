package main

import (
	"os"

	"github.com/nurpe/haulbot/cmd/haulbot/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
