// Package main is the entry point for cinema.
package main

import (
	"github.com/cinema-cli/cinema/cmd"
	"github.com/cinema-cli/cinema/config"
	"github.com/cinema-cli/cinema/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
