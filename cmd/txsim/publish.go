package main

import (
	"os"

	yamlv2 "gopkg.in/yaml.v2"

	"github.com/spf13/cobra"

	"github.com/nexargate/resource-engine/internal/host"
)

// manifest is the optional sidecar file a publish can supply alongside
// its WASM bytes: package metadata and ricardian (legal-prose) notes,
// in the plain key/value style the simulator's older config fixtures
// used before the rest of the CLI moved to yaml.v3.
type manifest struct {
	Name      string `yaml:"name"`
	Ricardian string `yaml:"ricardian"`
}

func publishCmd() *cobra.Command {
	var manifestPath string
	cmd := &cobra.Command{
		Use:   "publish <wasm-file>",
		Short: "publish a compiled blueprint module and print its package address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var ricardian []byte
			if manifestPath != "" {
				raw, err := os.ReadFile(manifestPath)
				if err != nil {
					return err
				}
				var m manifest
				if err := yamlv2.Unmarshal(raw, &m); err != nil {
					return err
				}
				ricardian = []byte(m.Ricardian)
			}

			rt, led, err := newRuntime()
			if err != nil {
				return err
			}
			defer closeLedger(led)

			addr, err := host.Publish(rt, code, ricardian)
			if err != nil {
				dumpReceipt(rt.Receipt(false, nil, err))
				return err
			}
			dumpReceipt(rt.Receipt(true, addr.Bytes(), nil))
			return nil
		},
	}
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "optional YAML manifest with package name and ricardian notes")
	return cmd
}
