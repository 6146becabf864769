package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nexargate/resource-engine/internal/abi"
	"github.com/nexargate/resource-engine/pkg/types"
)

func exportABICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-abi <package> <blueprint>",
		Short: "describe a published blueprint's functions and methods",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := types.ParseAddress(args[0])
			if err != nil {
				return err
			}

			rt, led, err := newRuntime()
			if err != nil {
				return err
			}
			defer closeLedger(led)

			bp, err := abi.Export(rt, pkg, args[1])
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(bp)
			if err != nil {
				return err
			}
			fmt.Fprint(os.Stdout, string(out))
			return nil
		},
	}
}
