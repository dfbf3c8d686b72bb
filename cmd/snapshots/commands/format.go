package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/PowerDNS/snapshots/driver"
)

func init() {
	rootCmd.AddCommand(formatCmd)
	formatCmd.Flags().String("driver", driver.JSON{}.Name(), fmt.Sprintf(
		"Driver to format with, one of: %v, optionally with a 'digest+' prefix", driver.Names()))
}

var formatCmd = &cobra.Command{
	Use:          "format [FILE]",
	Short:        "Print the canonical snapshot text of a document from FILE or stdin",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := cmd.Flags().GetString("driver")
		if err != nil {
			return err
		}
		d, err := driver.Get(name)
		if err != nil {
			return err
		}
		doc, err := readDocument(cmd, args)
		if err != nil {
			return err
		}
		text, err := d.Serialize(string(doc))
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	},
}

// readDocument reads the file named by the first argument, or stdin
func readDocument(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}
