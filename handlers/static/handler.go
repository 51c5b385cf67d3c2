package static

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

const assetsDirFlag = "assets-dir"

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   assetsDirFlag,
			Usage:  "frontend assets directory",
			Value:  "./static",
			EnvVar: "ASSETS_DIR",
		},
	)
}

// RegisterHandler mounts the frontend assets when the directory exists. The
// API stays usable without them.
func RegisterHandler(c *cli.Context, r *gin.Engine) {
	dir := c.String(assetsDirFlag)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		log.Warnf("assets directory %v not found, serving api only", dir)
		return
	}
	r.Static("/static", dir)
	index := filepath.Join(dir, "index.html")
	r.GET("/", func(c *gin.Context) {
		if _, err := os.Stat(index); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "frontend assets are missing"})
			return
		}
		c.File(index)
	})
}
