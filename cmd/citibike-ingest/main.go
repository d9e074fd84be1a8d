package main

import (
	"os"

	"tarediiran-industries.com/citibike-services/internal/ingest"
)

func main() {
	os.Exit(ingest.Main(os.Args[0], os.Args[1:], os.Stdout, os.Stderr))
}
