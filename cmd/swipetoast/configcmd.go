package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/swipetoast/internal/config"
)

var configOpts struct {
	defaults bool
	init     bool
	path     bool
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the effective configuration as TOML.

  --defaults  print the built-in defaults instead of the loaded file
  --init      write the defaults to the config path if no file exists
  --path      print the config file path`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().BoolVar(&configOpts.defaults, "defaults", false,
		"Print the built-in defaults")
	configCmd.Flags().BoolVar(&configOpts.init, "init", false,
		"Write the defaults to the config file if it does not exist")
	configCmd.Flags().BoolVar(&configOpts.path, "path", false,
		"Print the config file path")
}

func runConfig(cmd *cobra.Command, args []string) error {
	path := globalOpts.configPath
	if path == "" {
		path = config.ConfigPath()
	}
	out := cmd.OutOrStdout()

	switch {
	case configOpts.path:
		_, err := fmt.Fprintln(out, path)
		return err

	case configOpts.init:
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to check config file: %w", err)
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
		_, err := fmt.Fprintf(out, "wrote %s\n", path)
		return err
	}

	c := getConfig()
	if configOpts.defaults {
		c = config.DefaultConfig()
	}
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = out.Write(data)
	return err
}
