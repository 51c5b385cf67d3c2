package main

import (
	"github.com/urfave/cli"
)

func configure(app *cli.App) {
	serveCMD := makeServeCMD()
	resolveCMD := makeResolveCMD()
	app.Commands = []cli.Command{serveCMD, resolveCMD}
}
