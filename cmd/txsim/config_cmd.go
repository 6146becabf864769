package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// dotConfigPath is where configCmd persists name/value pairs set via
// `txsim config <name> <value>` — a dotfile under the data dir, the Go
// counterpart of rev2's per-user config file that `get_config`/
// `set_config` read and write.
func dotConfigPath() string {
	return filepath.Join(flagDataDir, ".txsim-config.yaml")
}

func loadDotConfig() (map[string]string, error) {
	raw, err := os.ReadFile(dotConfigPath())
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	vals := map[string]string{}
	if err := yaml.Unmarshal(raw, &vals); err != nil {
		return nil, err
	}
	return vals, nil
}

func saveDotConfig(vals map[string]string) error {
	if err := os.MkdirAll(flagDataDir, 0o755); err != nil {
		return err
	}
	out, err := yaml.Marshal(vals)
	if err != nil {
		return err
	}
	return os.WriteFile(dotConfigPath(), out, 0o644)
}

// configCmd sets name to value in the data dir's dotfile and prints
// every persisted name/value pair, mirroring rev2's
// `set_config` + `get_configs` sequence. No other command reads these
// values.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config <name> <value>",
		Short: "set a persisted simulator config value and print the current set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vals, err := loadDotConfig()
			if err != nil {
				return err
			}
			vals[args[0]] = args[1]
			if err := saveDotConfig(vals); err != nil {
				return err
			}

			names := make([]string, 0, len(vals))
			for n := range vals {
				names = append(names, n)
			}
			sort.Strings(names)
			for _, n := range names {
				fmt.Printf("%s = %s\n", n, vals[n])
			}
			return nil
		},
	}
}
