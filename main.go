package main

import (
	"os"

	"github.com/zlnvch/reviewclient/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
