package main

import (
	"os"

	"eosindex/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
