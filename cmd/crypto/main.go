package main

import (
	"github.com/ianisnotreal/crypto-tracker-cli/internal/cli"
)

func main() {
	cli.Execute()
}
