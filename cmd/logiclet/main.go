package main

import (
	"os"

	"github.com/robbyt/go-logiclet/cmd/logiclet/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
