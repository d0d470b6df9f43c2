package main

import (
	"os"

	"github.com/hashicorp-forge/documentcloud/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
