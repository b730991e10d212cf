package main

import (
	"clementus360/doit/cli"
	"os"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
