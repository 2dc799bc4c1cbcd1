package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var loadTimestamp string

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Append the files for a timestamp into the warehouse",
	Long: `Append the files for a timestamp into the warehouse.
For each table, in order, the object <table>/<timestamp>.parquet is appended to the table of the
same name if it exists. The result is printed as JSON.`,
	Args:    cobra.NoArgs,
	PreRunE: requireLoaderConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		l, err := loaderFactory(log, loaderCfg)
		if err != nil {
			return err
		}
		res, err := l.Run(context.Background(), loadTimestamp)
		for _, o := range res.Tables {
			log.Debug(o.Table, ": ", o.State, " (", o.Rows, " rows)")
		}
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
	switches.addFlag(loadCmd, &loadTimestamp, "timestamp", "", true, "")
	addLoaderFlags(loadCmd)
}
