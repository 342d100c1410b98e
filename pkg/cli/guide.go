package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/surveyd/pkg/cli/help"
)

var guideCmd = &cobra.Command{
	Use:   "guide [TOPIC]",
	Short: "Show documentation topics",
	Long:  "Show an embedded documentation topic, or list the topics when none is named.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if len(args) == 0 {
			fmt.Fprintf(w, "Guide topics:\n%s\nUsage: surveyd guide <topic>\n", help.List())
			return nil
		}

		content, err := help.Topic(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(w, content)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(guideCmd)
}
