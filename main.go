package main

import (
	"os"

	"github.com/adnanhb/flowrag/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
