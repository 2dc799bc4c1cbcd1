package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/relloyd/whload/actions"
	"github.com/spf13/cobra"
)

var timestampsTable string

var timestampsCmd = &cobra.Command{
	Use:     "timestamps",
	Short:   "List the timestamps that have a file for a table",
	Args:    cobra.NoArgs,
	PreRunE: requireLoaderConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		tables, err := loaderCfg.Tables()
		if err != nil {
			return err
		}
		if !tables.Contains(timestampsTable) {
			return errors.Errorf("table %v is not one of the tables loaded: %v", timestampsTable, tables)
		}
		b, err := loaderCfg.Bucket()
		if err != nil {
			return err
		}
		ts, err := actions.ListTimestamps(newObjectClient(b), timestampsTable)
		if err != nil {
			return err
		}
		for _, t := range ts {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), t)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(timestampsCmd)
	switches.addFlag(timestampsCmd, &timestampsTable, "table", "", true, "")
	switches.addFlag(timestampsCmd, &loaderCfg.ProcessedBucket, "bucket", loaderCfg.ProcessedBucket, true, "")
	switches.addFlag(timestampsCmd, &loaderCfg.Region, "region", loaderCfg.Region, false, "")
}
