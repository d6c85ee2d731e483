package main

import (
	"os"

	"github.com/ldenis/synctray/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
