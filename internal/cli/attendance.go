package cli

import (
	"github.com/spf13/cobra"
)

func newAttendanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attendance",
		Short: "Show the attendance log",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result AttendanceList

			if err := client.Get("/api/v1/attendance", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
