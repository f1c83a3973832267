package main

import (
	"os"

	"github.com/ib-77/checkchain/cmd/chaincheck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
