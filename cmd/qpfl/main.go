package main

import (
	"os"

	"github.com/qpfl/league-core/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
