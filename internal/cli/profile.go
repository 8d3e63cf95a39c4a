package cli

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Profile enrollment commands",
	}

	cmd.AddCommand(newProfileEnrollCmd())
	cmd.AddCommand(newProfileListCmd())
	cmd.AddCommand(newProfileGetCmd())
	cmd.AddCommand(newProfileDeleteCmd())

	return cmd
}

func newProfileEnrollCmd() *cobra.Command {
	var name, captureFile, eyeImageFile string

	cmd := &cobra.Command{
		Use:   "enroll",
		Short: "Enroll a new profile from a capture file",
		Long: `Enroll a new profile. The capture file is a JSON document holding the
detected faces of one camera frame, as produced by the external face
pipeline. An optional eye image (PNG or JPEG) enables iris enrollment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			capture, err := loadCaptureFile(captureFile)
			if err != nil {
				return err
			}

			req := map[string]any{
				"display_name": name,
				"faces":        capture,
			}

			if eyeImageFile != "" {
				raw, err := os.ReadFile(eyeImageFile)
				if err != nil {
					return fmt.Errorf("failed to read eye image: %w", err)
				}
				req["eye_image"] = base64.StdEncoding.EncodeToString(raw)
			}

			var result Profile
			if err := client.Post("/api/v1/profiles", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&captureFile, "capture", "", "Capture JSON file (required)")
	cmd.Flags().StringVar(&eyeImageFile, "eye-image", "", "Eye-region image file for iris enrollment")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("capture")

	return cmd
}

func newProfileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List enrolled profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ProfileList

			if err := client.Get("/api/v1/profiles", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newProfileGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Profile

			if err := client.Get("/api/v1/profiles/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newProfileDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/profiles/" + args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Profile deleted")
			return nil
		},
	}
}

// loadCaptureFile reads a JSON array of face observations.
func loadCaptureFile(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read capture file: %w", err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("capture file is not valid JSON")
	}

	return json.RawMessage(data), nil
}
