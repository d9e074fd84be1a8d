package main

import (
	"os"

	"tarediiran-industries.com/citibike-services/internal/web/citibike_web"
)

func main() {
	os.Exit(citibike_web.Main(os.Args[0], os.Args[1:], os.Stdout, os.Stderr))
}
