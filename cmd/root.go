package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/relloyd/whload/constants"
	"github.com/relloyd/whload/logger"
	"github.com/spf13/cobra"
)

var (
	// Default values may be set at compile time.
	version          = "0.1.0"
	buildDate        = "2022-11-14T09:00+0000"
	stackDumpOnPanic bool
)

var rootCmd = &cobra.Command{
	Use:   "whload",
	Short: "Append processed Parquet files into the warehouse",
	Long: `whload appends the per-table Parquet files written to the processed bucket for a
timestamp into the matching warehouse tables. Tables without a file for the timestamp are
skipped. Warehouse credentials are read from AWS Secrets Manager.

Set ` + constants.EnvVarTwelveFactorMode + `=lambda to run as an AWS Lambda function, or to any
other value to run a single load for ` + constants.EnvVarTimestamp + ` configured only by the environment.`,
	SilenceUsage: true,
}

func init() {
	cobra.EnableCommandSorting = false
	rootCmd.PersistentFlags().BoolVar(&stackDumpOnPanic, "print-stack", false, "Print a stack dump if there is a panic")
	_ = rootCmd.PersistentFlags().MarkHidden("print-stack")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if twelveFactorMode { // if we are running based on environment variables...
		if err := execute12FactorMode(); err != nil {
			// execute12FactorMode logs the error.
			os.Exit(1)
		}
	} else { // else we're using CLI args and flags via Cobra...
		if err := rootCmd.Execute(); err != nil {
			// Execute() prints the error.
			os.Exit(1)
		}
	}
}

func newLogger() logger.Logger {
	return logger.NewLogger(constants.ServiceName, loaderCfg.LogLevel, stackDumpOnPanic || loaderCfg.StackDump)
}

func printJSON(w io.Writer, i interface{}) error {
	j, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(j))
	return err
}
