package main

import (
	"os"

	"hooklint/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
