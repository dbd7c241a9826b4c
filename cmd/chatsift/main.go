package main

import (
	"os"

	"github.com/sifthq/chatsift/cmd/chatsift/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
