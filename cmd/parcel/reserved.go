package main

import (
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

// download and upload are reserved for a future network catalog
// integration; they accept no arguments and succeed without doing
// anything.

var downloadCmd = cli.Command{
	Name:  "download",
	Usage: "Reserved for future catalog integration",
	Action: func(c *cli.Context) error {
		logrus.Warn("parcel: download is reserved and not yet implemented")
		return nil
	},
}

var uploadCmd = cli.Command{
	Name:  "upload",
	Usage: "Reserved for future catalog integration",
	Action: func(c *cli.Context) error {
		logrus.Warn("parcel: upload is reserved and not yet implemented")
		return nil
	},
}

func download() cli.Command { return downloadCmd }

func upload() cli.Command { return uploadCmd }
