package main

import (
	"crypto/rand"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nexargate/resource-engine/pkg/types"
)

func newAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new-account",
		Short: "generate a fresh address for use as a default caller",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var a types.Address
			if _, err := rand.Read(a[:]); err != nil {
				return err
			}
			fmt.Println(a.Hex())
			return nil
		},
	}
}
