package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/PowerDNS/simpleblob"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/PowerDNS/snapshots/driver"
	"github.com/PowerDNS/snapshots/snapshot"
	"github.com/PowerDNS/snapshots/utils"
)

// listConcurrency limits the number of directories listed at once
const listConcurrency = 4

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringP("prefix", "p", "", "Prefix filter")
	listCmd.Flags().BoolP("long", "l", false, "Add extra information, like size and driver")
}

// listing is the result of listing one snapshot directory
type listing struct {
	dir   string
	blobs simpleblob.BlobList
}

var listCmd = &cobra.Command{
	Use:          "list [DIR...]",
	Short:        "List snapshots",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		prefix, err := cmd.Flags().GetString("prefix")
		if err != nil {
			return err
		}
		long, err := cmd.Flags().GetBool("long")
		if err != nil {
			return err
		}

		dirs := args
		if len(dirs) == 0 {
			dirs = []string{""}
		}

		t0 := time.Now()
		results := make([]listing, len(dirs))
		eg, ctx := errgroup.WithContext(ctx)
		eg.SetLimit(listConcurrency)
		for i, dir := range dirs {
			eg.Go(func() error {
				st, absDir, err := openDir(ctx, dir, true)
				if err != nil {
					return err
				}
				blobs, err := st.List(ctx, prefix)
				if err != nil {
					return err
				}
				// Only show snapshots, not other files in the directory
				blobs = lo.Filter(blobs, func(b simpleblob.Blob, _ int) bool {
					_, err := snapshot.ParseName(b.Name)
					return err == nil
				})
				results[i] = listing{dir: absDir, blobs: blobs}
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"dirs":    len(dirs),
			"time_ms": utils.TimeDiff(time.Now(), t0).Milliseconds(),
		}).Debug("Listed snapshot directories")

		out := cmd.OutOrStdout()
		for i, res := range results {
			if len(results) > 1 {
				if i > 0 {
					_, _ = fmt.Fprintln(out)
				}
				_, _ = fmt.Fprintf(out, "%s:\n", res.dir)
			}
			for _, blob := range res.blobs {
				if long {
					_, _ = fmt.Fprintf(out, "%10s\t%-12s\t%s\n",
						utils.ByteSize(blob.Size), driverName(blob.Name), blob.Name)
				} else {
					_, _ = fmt.Fprintf(out, "%s\n", blob.Name)
				}
			}
		}
		return nil
	},
}

// driverName returns the name of the driver that reads the named snapshot,
// or "?" if no driver is registered for its extension.
func driverName(name string) string {
	d, err := driverForName(name)
	if err != nil {
		return "?"
	}
	return d.Name()
}

func driverForName(name string) (driver.Driver, error) {
	ni, err := snapshot.ParseName(name)
	if err != nil {
		return nil, err
	}
	return driver.ForExtension(ni.Extension)
}
