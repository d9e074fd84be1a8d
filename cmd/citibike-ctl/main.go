package main

import (
	"os"

	"tarediiran-industries.com/citibike-services/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
