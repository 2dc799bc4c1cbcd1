package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/relloyd/whload/actions"
	"github.com/relloyd/whload/aws/s3"
	"github.com/spf13/cobra"
)

var checkTimestamp string

// newObjectClient returns the client used to reach the processed bucket.
var newObjectClient = func(b s3.AwsS3Bucket) s3.BasicClient {
	return s3.NewBasicClient(b.Name, b.Region, b.Prefix)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Show which tables have a file for a timestamp",
	Long: `Show which tables have a file for a timestamp without reading the files
or connecting to the warehouse.`,
	Args:    cobra.NoArgs,
	PreRunE: requireLoaderConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		b, err := loaderCfg.Bucket()
		if err != nil {
			return err
		}
		tables, err := loaderCfg.Tables()
		if err != nil {
			return err
		}
		checks, err := actions.CheckTables(log, newObjectClient(b), tables, checkTimestamp)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		for _, c := range checks {
			_, _ = fmt.Fprintf(w, "%v\t%v\t%v\n", c.Table, c.Status, c.Key)
		}
		if fErr := w.Flush(); fErr != nil && err == nil {
			err = fErr
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	switches.addFlag(checkCmd, &checkTimestamp, "timestamp", "", true, "")
	switches.addFlag(checkCmd, &loaderCfg.ProcessedBucket, "bucket", loaderCfg.ProcessedBucket, true, "")
	switches.addFlag(checkCmd, &loaderCfg.Region, "region", loaderCfg.Region, false, "")
	switches.addFlag(checkCmd, &loaderCfg.TablesFile, "tables-file", loaderCfg.TablesFile, false, "")
	switches.addFlag(checkCmd, &loaderCfg.LogLevel, "log-level", loaderCfg.LogLevel, false, "")
}
