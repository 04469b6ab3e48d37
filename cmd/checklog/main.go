package main

import (
	"os"

	"github.com/arloliu/checklog/cmd/checklog/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
