package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/PowerDNS/snapshots/utils"
)

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().Bool("ascii", false, "Escape control characters and non-ASCII bytes")
}

var showCmd = &cobra.Command{
	Use:          "show NAME",
	Short:        "Print the stored text of a snapshot",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		ascii, err := cmd.Flags().GetBool("ascii")
		if err != nil {
			return err
		}

		st, _, err := openDir(ctx, "", true)
		if err != nil {
			return err
		}
		data, err := st.Load(ctx, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if ascii {
			_, err = fmt.Fprint(out, utils.DisplayASCII(data))
		} else {
			_, err = out.Write(data)
		}
		return err
	},
}
