package main

import (
	"github.com/spf13/cobra"

	"github.com/nexargate/resource-engine/internal/process"
	"github.com/nexargate/resource-engine/internal/sbor"
	"github.com/nexargate/resource-engine/pkg/types"
)

// encodeCallArgs SBOR-encodes each raw CLI argument as a string leaf.
// Blueprints expecting a richer shape (an amount, a struct) decode the
// string themselves; this mirrors the simulator convention of passing
// every positional argument as text (`123`, `hello`, `1000:01`). The
// selected function or method name is always element zero: a
// blueprint's single `_main` export reads it back via get_call_data to
// decide which of its functions to run.
func encodeCallArgs(selector string, raw []string) [][]byte {
	out := make([][]byte, len(raw)+1)
	out[0] = sbor.Encode(sbor.Str(selector))
	for i, a := range raw {
		out[i+1] = sbor.Encode(sbor.Str(a))
	}
	return out
}

func callFunctionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call-function <package> <blueprint> <function> [args...]",
		Short: "call a blueprint's free function",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := types.ParseAddress(args[0])
			if err != nil {
				return err
			}
			blueprint, function := args[1], args[2]

			rt, led, err := newRuntime()
			if err != nil {
				return err
			}
			defer closeLedger(led)

			inv := process.PrepareCallFunction(pkg, blueprint, encodeCallArgs(function, args[3:]))
			out, err := process.Execute(rt, pkg, inv)
			if err != nil {
				dumpReceipt(rt.Receipt(false, nil, err))
				return err
			}
			dumpReceipt(rt.Receipt(true, out, nil))
			return nil
		},
	}
}

func callMethodCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call-method <package> <blueprint> <component> <method> [args...]",
		Short: "call a method on a component instance",
		Args:  cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := types.ParseAddress(args[0])
			if err != nil {
				return err
			}
			blueprint := args[1]
			component, err := types.ParseAddress(args[2])
			if err != nil {
				return err
			}
			method := args[3]

			rt, led, err := newRuntime()
			if err != nil {
				return err
			}
			defer closeLedger(led)

			inv := process.PrepareCallMethod(pkg, blueprint, sbor.Encode(sbor.Bytes(component.Bytes())), encodeCallArgs(method, args[4:]))
			out, err := process.Execute(rt, pkg, inv)
			if err != nil {
				dumpReceipt(rt.Receipt(false, nil, err))
				return err
			}
			dumpReceipt(rt.Receipt(true, out, nil))
			return nil
		},
	}
}
