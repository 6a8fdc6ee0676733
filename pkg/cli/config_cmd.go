package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sqlgen/internal/domain"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and edit CLI profiles (metadata source, mode, output)",
	}
	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigGetCmd(),
		newConfigSetCmd(),
		newConfigUseProfileCmd(),
	)
	return cmd
}

// profileFlag is the --profile override, empty for the current profile.
func profileFlag(cmd *cobra.Command) string {
	name, _ := cmd.Flags().GetString("profile")
	return name
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the whole config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadUserConfig()
			if err != nil {
				return fmt.Errorf("no config at %s: %w", ConfigPath(), err)
			}
			if getOutputFormat(cmd) == "json" {
				return PrintJSON(cmd.OutOrStdout(), cfg)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one key of the active profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadUserConfigOrEmpty()
			name := cfg.ActiveProfileName(profileFlag(cmd))
			val, err := cfg.ActiveProfile(profileFlag(cmd)).Get(args[0])
			if err != nil {
				return err
			}
			res := map[string]string{"profile": name, "key": args[0], "value": val}
			return printResult(cmd, res, "%s", val)
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set <key> <value>",
		Short:   "Set one key of the active profile",
		Long:    "Sets metadata, mode or output in the active profile (or --profile), creating the\nprofile when it does not exist.",
		Example: "  sqlgen config set metadata s3://bucket/metadata.yaml\n  sqlgen config set mode parameterized -p staging",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if err := checkProfileValue(key, value); err != nil {
				return err
			}

			cfg := loadUserConfigOrEmpty()
			name := cfg.ActiveProfileName(profileFlag(cmd))
			prof := cfg.Profiles[name]
			if err := prof.Set(key, value); err != nil {
				return err
			}
			cfg.Profiles[name] = prof
			if cfg.CurrentProfile == "" {
				cfg.CurrentProfile = name
			}
			if err := SaveUserConfig(cfg); err != nil {
				return err
			}

			res := map[string]string{"status": "ok", "profile": name, "path": ConfigPath()}
			return printResult(cmd, res, "Profile %q saved to %s", name, ConfigPath())
		},
	}
}

// checkProfileValue rejects values the commands would refuse later.
func checkProfileValue(key, value string) error {
	switch key {
	case "mode":
		_, err := domain.ParseMode(value)
		return err
	case "output":
		return validateOutputFormat(value)
	default:
		return nil
	}
}

func newConfigUseProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use-profile <name>",
		Short: "Make a saved profile the current one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadUserConfig()
			if err != nil {
				return fmt.Errorf("no config found: %w", err)
			}
			name := args[0]
			if _, ok := cfg.Profiles[name]; !ok {
				return fmt.Errorf("profile %q not found in %s", name, ConfigPath())
			}
			cfg.CurrentProfile = name
			if err := SaveUserConfig(cfg); err != nil {
				return err
			}
			res := map[string]string{"status": "ok", "active_profile": name}
			return printResult(cmd, res, "Active profile set to %q", name)
		},
	}
}
