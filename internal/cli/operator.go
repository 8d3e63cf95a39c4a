package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange the operator key for a token",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"key": key}
			var result TokenResult

			if err := client.Post("/api/v1/operator/login", req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Operator key (required)")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}
