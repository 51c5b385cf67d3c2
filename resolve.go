package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/gamelib-io/web-ui/services/gamelist"
)

func makeResolveCMD() cli.Command {
	resolveCMD := cli.Command{
		Name:    "resolve",
		Aliases: []string{"r"},
		Usage:   "Resolves metadata for every entry of a game list file",
		Action:  resolve,
	}
	configureResolve(&resolveCMD)
	return resolveCMD
}

func configureResolve(c *cli.Command) {
	c.Flags = append(c.Flags,
		cli.StringFlag{
			Name:  "input, i",
			Usage: "game list file",
		},
	)
	c.Flags = configureResolver(c.Flags)
}

func resolve(c *cli.Context) error {
	input := c.String("input")
	if input == "" {
		return errors.New("no input file provided")
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return errors.Wrap(err, "failed to read game list")
	}
	entries := gamelist.Parse(string(data))
	if len(entries) == 0 {
		return errors.New("no games were detected in the input file")
	}

	// Setting HTTP Client
	cl := http.DefaultClient

	// Setting Metadata Provider
	provider := makeResolver(c, cl)

	ctx := context.Background()
	for _, entry := range entries {
		g := provider.Resolve(ctx, entry.Title, entry.Platform, entry.Source, nil)
		origin := "placeholder"
		if g.IgdbMatch {
			origin = "igdb"
		}
		rating := "-"
		if g.Rating != nil {
			rating = fmt.Sprintf("%.1f", *g.Rating)
		}
		platform := ""
		if g.Platform != nil {
			platform = *g.Platform
		}
		log.Infof("%-40q platform=%-10s rating=%-5s origin=%s", g.Title, platform, rating, origin)
	}
	log.Infof("resolved %d games", len(entries))
	return nil
}
