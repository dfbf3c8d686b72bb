package commands

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/PowerDNS/snapshots/snapshot"
)

func init() {
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:          "remove NAME...",
	Short:        "Remove snapshots",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		// Refuse everything before removing anything
		for _, name := range args {
			if _, err := snapshot.ParseName(name); err != nil {
				return err
			}
		}

		st, dir, err := openDir(ctx, "", true)
		if err != nil {
			return err
		}
		for _, name := range args {
			if err := st.Delete(ctx, name); err != nil {
				return err
			}
			logrus.WithField("snapshot", name).WithField("dir", dir).Info("Removed snapshot")
		}
		return nil
	},
}
