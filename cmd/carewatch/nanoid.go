package main

import (
	"fmt"

	"carewatch/internal/utils"

	"github.com/urfave/cli/v2"
)

var nanoidCommand = &cli.Command{
	Name:  "nanoid",
	Usage: "Generate IDs for use in seed files",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"c"},
			Usage:   "Number of IDs to generate",
			Value:   1,
		},
		&cli.StringFlag{
			Name:  "prefix",
			Usage: "Prefix such as doc or wrk",
		},
	},
	Action: func(c *cli.Context) error {
		count := c.Int("count")
		prefix := c.String("prefix")
		for range count {
			if prefix != "" {
				fmt.Println(utils.PrefixedID(prefix))
				continue
			}
			fmt.Println(utils.NanoID())
		}
		return nil
	},
}
