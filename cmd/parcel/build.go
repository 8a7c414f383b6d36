package main

import (
	"crypto/ed25519"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/homeland-social/parcel/envelope"
	"github.com/homeland-social/parcel/fspath"
	"github.com/homeland-social/parcel/keys"
	"github.com/homeland-social/parcel/manifest"
)

var buildOpts = struct {
	key    string
	keygen bool
	force  bool
	output string
}{}

var buildCmd = cli.Command{
	Name:      "build",
	Usage:     "Build and sign a parcel from a manifest file",
	ArgsUsage: "<manifest.json>",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:        "key, k",
			Usage:       "Signing key file (default: $PARCEL_HOME/key)",
			Destination: &buildOpts.key,
		},
		cli.BoolFlag{
			Name:        "keygen",
			Usage:       "Generate a new signing key instead of loading one",
			Destination: &buildOpts.keygen,
		},
		cli.BoolFlag{
			Name:        "force, f",
			Usage:       "Overwrite an existing output parcel, and an existing key file when --keygen is given",
			Destination: &buildOpts.force,
		},
		cli.StringFlag{
			Name:        "output, o",
			Usage:       "Output parcel path (default: derived from name and version)",
			Destination: &buildOpts.output,
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return errors.New("build requires exactly one manifest path argument")
		}
		return buildAction(c.Args().Get(0))
	},
}

func build() cli.Command { return buildCmd }

func buildAction(manifestPath string) error {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}

	keyPath := buildOpts.key
	if keyPath == "" {
		keyPath = defaultKeyPath()
	}

	var key ed25519.PrivateKey
	if buildOpts.keygen {
		key, err = keys.Generate()
		if err != nil {
			return err
		}
		if err := keys.Save(keyPath, key, buildOpts.force); err != nil {
			return err
		}
	} else {
		key, err = keys.Load(keyPath)
		if err != nil {
			return err
		}
	}

	output := buildOpts.output
	if output == "" {
		output = fspath.DefaultParcelName.Generate(fspath.ManifestIdentifier(m.Name(), m.Version()))
	}

	if _, err := envelope.Write(output, m, key, buildOpts.force); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{"manifest": manifestPath, "output": output}).Info("parcel: built parcel")
	return nil
}
