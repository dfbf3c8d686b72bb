package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/PowerDNS/snapshots/driver"
	"github.com/PowerDNS/snapshots/snapshot"
	"github.com/PowerDNS/snapshots/snaptest"
)

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().Bool("update", false, "Rewrite the snapshot if it does not match")
}

var matchCmd = &cobra.Command{
	Use:   "match NAME [FILE]",
	Short: "Check a document from FILE or stdin against a snapshot",
	Long: `Check a document from FILE or stdin against a snapshot.

The driver is picked from the extension of the snapshot name. A missing
snapshot is created. The exit code is 1 when the snapshot does not match.
`,
	Args:         cobra.RangeArgs(1, 2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		update, err := cmd.Flags().GetBool("update")
		if err != nil {
			return err
		}
		update = update || conf.Update

		ni, err := snapshot.ParseName(args[0])
		if err != nil {
			return err
		}
		d, err := driver.ForExtension(ni.Extension)
		if err != nil {
			return err
		}
		doc, err := readDocument(cmd, args[1:])
		if err != nil {
			return err
		}

		st, dir, err := openDir(ctx, "", false)
		if err != nil {
			return err
		}
		s := snapshot.New(ni.ID, dir, d, st)
		outcome, err := snaptest.Assert(ctx, s, string(doc), update)
		if err != nil {
			var me *driver.MismatchError
			if errors.As(err, &me) {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Snapshot %s does not match (-expected +actual):\n%s",
					s.Filename(), me.Diff())
				return errMismatch
			}
			return err
		}

		logrus.WithFields(logrus.Fields{
			"snapshot": s.ID(),
			"file":     s.Filename(),
			"driver":   d.Name(),
			"outcome":  outcome.String(),
		}).Info("Snapshot checked")
		return nil
	},
}
