// Package main generates operator grant keys and mints operator grants.
package main

import (
	"os"

	"github.com/louisbranch/identpanel/internal/platform/config"
	"github.com/louisbranch/identpanel/internal/tools/operatorgrant"
)

func main() {
	err := operatorgrant.Run(os.Args[1:], operatorgrant.Options{
		Out:    os.Stdout,
		Lookup: os.LookupEnv,
	})
	config.Exit("operator-grant", err)
}
