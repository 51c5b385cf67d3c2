package main

import (
	"net/http"

	"github.com/urfave/cli"

	"github.com/gamelib-io/web-ui/services/igdb"
	"github.com/gamelib-io/web-ui/services/metadata"
)

func configureResolver(f []cli.Flag) []cli.Flag {
	f = igdb.RegisterFlags(f)
	f = metadata.RegisterRatingFlags(f)
	return f
}

func makeResolver(c *cli.Context, cl *http.Client) *metadata.Provider {
	// Setting IGDB API
	api := igdb.New(c, cl)

	// Setting Metadata Provider
	return metadata.New(c, api)
}
