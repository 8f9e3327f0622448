package main

import (
	"github.com/urfave/cli/v2"
)

// getPath returns the positional path argument, defaulting to ".".
func getPath(c *cli.Context) string {
	if c.Args().Len() > 0 {
		return c.Args().First()
	}
	return "."
}
