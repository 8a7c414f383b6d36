package main

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

var mainOpts = struct {
	home string
}{}

func main() {
	app := cli.NewApp()
	app.Name = "parcel"
	app.Usage = "build, sign, and inspect service parcels"
	app.EnableBashCompletion = true
	app.Commands = []cli.Command{
		keygen(),
		build(),
		info(),
		lint(),
		download(),
		upload(),
	}
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:        "home",
			Usage:       "directory holding the default signing key",
			EnvVar:      "PARCEL_HOME",
			Destination: &mainOpts.home,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Error("parcel: command failed")
		os.Exit(1)
	}
}

func home() string {
	if mainOpts.home != "" {
		return mainOpts.home
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		logrus.WithError(err).Fatal("parcel: could not determine home directory")
	}
	return filepath.Join(dir, ".parcel")
}

func defaultKeyPath() string {
	return filepath.Join(home(), "key")
}
