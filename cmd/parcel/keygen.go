package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/homeland-social/parcel/keys"
)

var keygenOpts = struct {
	force bool
	path  string
}{}

var keygenCmd = cli.Command{
	Name:  "keygen",
	Usage: "Generate and persist a new Ed25519 signing key",
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name:        "force, f",
			Usage:       "Overwrite an existing key file",
			Destination: &keygenOpts.force,
		},
		cli.StringFlag{
			Name:        "key, k",
			Usage:       "Key file path (default: $PARCEL_HOME/key)",
			Destination: &keygenOpts.path,
		},
	},
	Action: func(c *cli.Context) error {
		return keygenAction()
	},
}

func keygen() cli.Command { return keygenCmd }

func keygenAction() error {
	path := keygenOpts.path
	if path == "" {
		path = defaultKeyPath()
	}

	if err := os.MkdirAll(home(), 0o700); err != nil {
		return errors.Wrapf(err, "creating %s", home())
	}

	key, err := keys.Generate()
	if err != nil {
		return err
	}
	if err := keys.Save(path, key, keygenOpts.force); err != nil {
		return err
	}

	logrus.WithField("path", path).Info("parcel: wrote new signing key")
	return nil
}
