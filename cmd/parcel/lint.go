package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/homeland-social/parcel/envelope"
	plint "github.com/homeland-social/parcel/lint"
	"github.com/homeland-social/parcel/manifest"
)

var lintCmd = cli.Command{
	Name:      "lint",
	Usage:     "Check a manifest against its embedded service definition",
	ArgsUsage: "<manifest.json|parcel.pcl>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return errors.New("lint requires exactly one path argument")
		}
		return lintAction(c.Args().Get(0))
	},
}

func lint() cli.Command { return lintCmd }

func lintAction(path string) error {
	m, err := loadManifestOrParcel(path)
	if err != nil {
		return err
	}
	if err := plint.Check(m); err != nil {
		return err
	}
	return nil
}

func loadManifestOrParcel(path string) (*manifest.Manifest, error) {
	if strings.HasSuffix(path, ".pcl") {
		p, err := envelope.Read(path, true)
		if err != nil {
			return nil, err
		}
		return p.Manifest, nil
	}
	return manifest.Load(path)
}
