package main

import (
	"os"

	"github.com/steps-lang/steps/cmd/steps/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
