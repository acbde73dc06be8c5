package main

import (
	"os"

	"github.com/stefego2-arch/Avatar/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
