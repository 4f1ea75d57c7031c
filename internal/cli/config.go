package cli

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/go-preprocess/internal/config"
)

var errInvalidSetting = errors.New("invalid setting")

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or set the preprocess configuration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "log_level: %s\n", a.cfg.LogLevel)
				fmt.Fprintf(w, "log_format: %s\n", a.cfg.LogFormat)
				fmt.Fprintf(w, "registry_path: %s\n", a.cfg.RegistryPath)
				fmt.Fprintf(w, "concurrency: %d\n", a.cfg.Concurrency)
				fmt.Fprintf(w, "separator: %s\n", a.cfg.Separator)

				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a config value and save it to the config file",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				// Flag overrides belong to this run only and are not persisted.
				c, err := config.Load(a.cfgFile)
				if err != nil {
					return err
				}

				err = setValue(c, args[0], args[1])
				if err != nil {
					return err
				}

				err = config.Save(c, a.cfgFile)
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), "Saved config")

				return nil
			},
		},
	)

	return cmd
}

func setValue(c *config.Global, key, val string) error {
	switch key {
	case "log_level":
		switch val {
		case "debug", "info", "warn", "error":
			c.LogLevel = val
		default:
			return errors.Wrapf(errInvalidSetting, "log_level %q (use debug, info, warn or error)", val)
		}
	case "log_format":
		switch val {
		case "text", "json":
			c.LogFormat = val
		default:
			return errors.Wrapf(errInvalidSetting, "log_format %q (use text or json)", val)
		}
	case "registry_path":
		if val == "" {
			return errors.Wrap(errInvalidSetting, "registry_path is empty")
		}
		c.RegistryPath = val
	case "concurrency":
		n, err := strconv.Atoi(val)
		if err != nil || n < 0 {
			return errors.Wrapf(errInvalidSetting, "concurrency %q", val)
		}
		c.Concurrency = n
	case "separator":
		c.Separator = val
	default:
		return errors.Wrapf(errInvalidSetting, "unknown key %q", key)
	}

	return nil
}
