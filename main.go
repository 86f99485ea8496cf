package main

import (
	"os"

	"github.com/jpagaduan/nqeshgen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
