package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/androiddevnotesforks/walleria/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigPathCmd(), newConfigShowCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		accessKey string
		secretKey string
		force     bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}

			cfg := config.Default()
			cfg.API.AccessKey = accessKey
			cfg.API.SecretKey = secretKey
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			if accessKey == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Set api.access_key to your Unsplash application key before searching.")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&accessKey, "access-key", "", "Unsplash application access key")
	cmd.Flags().StringVar(&secretKey, "secret-key", "", "Unsplash application secret key (needed for login)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return showConfig(cmd, cfg)
		},
	}
}

// showConfig prints cfg as YAML with the keys masked.
func showConfig(cmd *cobra.Command, cfg config.Config) error {
	view := map[string]any{
		"api": map[string]any{
			"base_url":          cfg.API.BaseURL,
			"auth_url":          cfg.API.AuthURL,
			"access_key":        mask(cfg.API.AccessKey),
			"secret_key":        mask(cfg.API.SecretKey),
			"redirect_uri":      cfg.API.RedirectURI,
			"timeout":           cfg.API.Timeout.String(),
			"requests_per_hour": cfg.API.RequestsPerHour,
		},
		"storage":   map[string]any{"db_path": cfg.Storage.DBPath},
		"downloads": map[string]any{"dir": cfg.Downloads.Dir, "quality": cfg.Downloads.Quality, "concurrency": cfg.Downloads.Concurrency},
		"search":    map[string]any{"page_size": cfg.Search.PageSize},
		"log":       map[string]any{"level": cfg.Log.Level, "file": cfg.Log.File},
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "\nWarning: %v\n", err)
	}
	return nil
}

func mask(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) <= 4:
		return "****"
	}
	return secret[:4] + "****"
}
