package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/gffbase/gffbase/internal/ingest"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage gffbase configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.gffbase.yaml.",
		Example: `  gffbase config                                   # show all config
  gffbase config set ingest.merge_strategy create_unique
  gffbase config get ingest.checklines`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(args[0])
		},
	}
}

func runConfigShow() error {
	settings := viper.AllSettings()
	if len(settings) == 0 {
		fmt.Printf("# No configuration set. Config file: %s\n", defaultConfigPath())
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

// validMergeStrategies mirrors internal/ingest.MergeStrategy's five
// values, so a typo in "config set ingest.merge_strategy" is caught
// here rather than surfacing as a create-db failure later.
var validMergeStrategies = map[ingest.MergeStrategy]bool{
	ingest.MergeError:        true,
	ingest.MergeWarning:      true,
	ingest.MergeMerge:        true,
	ingest.MergeCreateUnique: true,
	ingest.MergeReplace:      true,
}

// validateConfigValue checks key against the ingest options it
// configures and returns the typed value viper should store. Keys it
// doesn't recognize pass through as plain strings.
func validateConfigValue(key, value string) (any, error) {
	switch key {
	case "ingest.merge_strategy":
		s := ingest.MergeStrategy(value)
		if !validMergeStrategies[s] {
			return nil, fmt.Errorf("invalid merge_strategy %q, want one of error/warning/merge/create_unique/replace", value)
		}
		return value, nil

	case "ingest.checklines":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid checklines %q: %w", value, err)
		}
		return n, nil

	case "ingest.id_spec":
		if _, err := parseIDSpec(value); err != nil {
			return nil, fmt.Errorf("invalid id_spec %q: %w", value, err)
		}
		return value, nil

	case "ingest.keep_order", "ingest.sort_attribute_values":
		b, err := strconv.ParseBool(normalizeBool(value))
		if err != nil {
			return nil, fmt.Errorf("invalid boolean %q for %s", value, key)
		}
		return b, nil

	default:
		return value, nil
	}
}

func normalizeBool(value string) string {
	switch value {
	case "yes", "on":
		return "true"
	case "no", "off":
		return "false"
	default:
		return value
	}
}

func runConfigSet(key, value string) error {
	typed, err := validateConfigValue(key, value)
	if err != nil {
		return err
	}
	viper.Set(key, typed)

	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, ".gffbase.yaml")
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Set %s = %v in %s\n", key, typed, cfgFile)
	return nil
}

func runConfigGet(key string) error {
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Println(val)
	return nil
}
