package main

import (
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/homeland-social/parcel/envelope"
)

var infoCmd = cli.Command{
	Name:      "info",
	Usage:     "Print a parcel's manifest, signature, and file listing",
	ArgsUsage: "<parcel.pcl>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return errors.New("info requires exactly one parcel path argument")
		}
		return infoAction(c.Args().Get(0))
	},
}

func info() cli.Command { return infoCmd }

func infoAction(path string) error {
	p, err := envelope.Read(path, true)
	if err != nil {
		return err
	}
	m := p.Manifest

	fmt.Println("MANIFEST")
	fmt.Printf("  name:               %s\n", m.Name())
	fmt.Printf("  version:            %s\n", m.Version())
	fmt.Printf("  uuid:               %s\n", m.UUID())
	fmt.Printf("  description:        %s\n", m.Description)
	fmt.Printf("  service_definition: %s\n", m.ServiceDefinition())
	for _, o := range m.Options() {
		fmt.Printf("  option:             %s (%s) default=%v\n", o.Name, o.Type, o.Default)
	}
	for _, s := range m.Settings() {
		fmt.Printf("  setting:            %s\n", s.Name)
	}
	for _, r := range m.Requires() {
		fmt.Printf("  requires:           %s\n", r)
	}
	for _, cft := range m.Conflicts() {
		fmt.Printf("  conflicts:          %s\n", cft)
	}

	fmt.Println("SECURITY")
	fmt.Printf("  pubkey:    %s\n", hex.EncodeToString(p.PubKey))
	fmt.Printf("  signature: %s\n", hex.EncodeToString(p.Signature))

	fmt.Println("FILES")
	for _, f := range m.Files() {
		fmt.Printf("  %s (%d bytes)\n", f.Name, len(f.Bytes))
	}

	return nil
}
