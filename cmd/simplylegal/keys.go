package main

import (
	"fmt"
	"strings"

	"github.com/simplylegal/simplylegal/internal/auth"
	"github.com/spf13/cobra"
)

type keysOptions struct {
	service string
}

func newKeysCmd() *cobra.Command {
	opts := keysOptions{}
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys in the OS keychain",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeysStatus(cmd, &opts)
		},
	}

	cmd.SetUsageTemplate(keysUsageTemplate)
	cmd.PersistentFlags().StringVar(&opts.service, "service", "openai", "Service to manage (openai or gemini)")

	cmd.AddCommand(
		newKeysSetCmd(&opts),
		newKeysDeleteCmd(&opts),
		newKeysStatusCmd(&opts),
	)
	return cmd
}

func newKeysSetCmd(opts *keysOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save an API key to the keychain (prompt only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeysSet(cmd, opts)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newKeysDeleteCmd(opts *keysOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a key from the keychain",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeysDelete(cmd, opts)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newKeysStatusCmd(opts *keysOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show key status (default if no action given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeysStatus(cmd, opts)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func runKeysSet(cmd *cobra.Command, opts *keysOptions) error {
	svc, err := normalizeService(opts.service)
	if err != nil {
		return err
	}
	promptKey, err := promptForKey(fmt.Sprintf("%s API Key: ", serviceLabel(svc)))
	if err != nil {
		return fmt.Errorf("error reading key: %w", err)
	}
	key := strings.TrimSpace(promptKey)
	if key == "" {
		return fmt.Errorf("API key is required")
	}
	if err := saveKey(svc, key); err != nil {
		return fmt.Errorf("error saving key: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s API key to keychain.\n", svc)
	return nil
}

func runKeysDelete(cmd *cobra.Command, opts *keysOptions) error {
	svc, err := normalizeService(opts.service)
	if err != nil {
		return err
	}
	if err := deleteKey(svc); err != nil {
		return fmt.Errorf("error deleting key: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s API key from keychain.\n", svc)
	return nil
}

func runKeysStatus(cmd *cobra.Command, opts *keysOptions) error {
	svc, err := normalizeService(opts.service)
	if err != nil {
		return err
	}

	if getStatus(svc) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s API Key: Found (source=Keychain)\n", svc)
		return nil
	}
	if envKey, ok := getEnvKey(svc); ok && envKey != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s API Key: Found (source=Environment Variable)\n", svc)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s API Key: Not Found (keychain empty, %s not set)\n", svc, auth.EnvVar(svc))
	return nil
}

func normalizeService(service string) (string, error) {
	svc := strings.ToLower(service)
	if !auth.Known(svc) {
		return "", fmt.Errorf("invalid service. Must be 'openai' or 'gemini'")
	}
	return svc, nil
}

func serviceLabel(svc string) string {
	if svc == auth.ServiceOpenAI {
		return "OpenAI"
	}
	return "Gemini"
}
