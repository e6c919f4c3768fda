package main

import (
	"os"

	"github.com/rustyeddy/indexchart/cmd/indexchart/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
