package cmd

import (
	"fmt"
	"os"
	"reflect"
	"strconv"

	"github.com/relloyd/whload/config"
	"github.com/relloyd/whload/constants"
	"github.com/spf13/cobra"
)

type cliFlag struct {
	name      string // name of flag
	val       string // default value
	shortHand string // single character name for the flag
	envVar    string // environment variable that supplies the default
	desc      string // description of the flag; the long text
}

type cliFlags map[string]cliFlag

var switches = cliFlags{
	"timestamp": cliFlag{name: "timestamp", shortHand: "t", envVar: constants.EnvVarTimestamp,
		desc: "The timestamp that names the generation of files to load, used verbatim in object keys\n" +
			"of the form <table>/<timestamp>.parquet"},
	"bucket": cliFlag{name: "bucket", shortHand: "b",
		desc: "Processed bucket name or s3://<bucket>[/<prefix>]"},
	"region": cliFlag{name: "region", shortHand: "R",
		desc: "AWS region of the processed bucket and the secret"},
	"secret-name": cliFlag{name: "secret-name", shortHand: "s",
		desc: "Name of the AWS Secrets Manager secret holding the warehouse credentials"},
	"schema": cliFlag{name: "schema", shortHand: "S",
		desc: "Warehouse schema that owns the tables"},
	"batch-size": cliFlag{name: "batch-size", shortHand: "B",
		desc: "Number of rows combined into a single INSERT statement"},
	"tables-file": cliFlag{name: "tables-file", shortHand: "f",
		desc: "YAML file listing the tables to load, in order (default: the fixed warehouse table list)"},
	"table": cliFlag{name: "table", shortHand: "T",
		desc: "Table whose files should be listed"},
	"log-level": cliFlag{name: "log-level", shortHand: "l",
		desc: "Log level: \"error | warn | info | debug\""},
	"port": cliFlag{name: "port", shortHand: "p",
		desc: "Port to listen on"},
}

var (
	loaderCfg    *config.LoaderConfig // defaults read from the environment in init(), overridden by CLI flags
	loaderCfgErr error
)

// requireLoaderConfig stops commands that use loaderCfg when the environment could not be read.
func requireLoaderConfig(cmd *cobra.Command, args []string) error {
	return loaderCfgErr
}

// addFlag adds a flag to cobra.Command c, based on the type of targetVar (which must be a pointer).
// The name of the flag is looked up in map, cliFlags.
// The default is the value of the flag's environment variable if set, else the supplied defaultValue.
// The flag is marked as required in Cobra based on the value of required.
// Supply a value for desc2 to append to the existing description found in map cliFlags.
func (f *cliFlags) addFlag(c *cobra.Command, targetVar interface{}, name string, defaultValue string, required bool, desc2 string) {
	v := reflect.ValueOf(targetVar)
	if v.Kind() != reflect.Ptr {
		fmt.Println("error adding flag: targetVar must be a pointer")
		os.Exit(1)
	}
	sw := f.getCliFlag(name, defaultValue)
	desc := sw.desc + desc2
	switch p := targetVar.(type) {
	case *string:
		c.Flags().StringVarP(p, sw.name, sw.shortHand, sw.val, desc)
	case *bool:
		b, _ := strconv.ParseBool(sw.val)
		c.Flags().BoolVarP(p, sw.name, sw.shortHand, b, desc)
	case *int:
		defaultInt, err := strconv.Atoi(sw.val)
		if err != nil {
			fmt.Printf("the value for flag %q must be an integer: %v\n", sw.name, err)
			os.Exit(1)
		}
		c.Flags().IntVarP(p, sw.name, sw.shortHand, defaultInt, desc)
	default:
		panic("Error: unhandled CLI flag target value type")
	}
	// Optionally mark the flag as mandatory when there is no default.
	if required && sw.val == "" {
		_ = c.MarkFlagRequired(sw.name)
	}
}

// getCliFlag fetches the flag called name and applies its default: the environment variable
// if it is set, else defaultValue.
func (f *cliFlags) getCliFlag(name string, defaultValue string) cliFlag {
	s, ok := (*f)[name]
	if !ok {
		panic(fmt.Sprintf("unregistered CLI flag, %q", name))
	}
	s.val = defaultValue
	if s.envVar != "" {
		if v := os.Getenv(s.envVar); v != "" {
			s.val = v
		}
	}
	return s
}

// addLoaderFlags adds the flags that override loaderCfg.
func addLoaderFlags(c *cobra.Command) {
	c.Flags().SortFlags = false
	switches.addFlag(c, &loaderCfg.ProcessedBucket, "bucket", loaderCfg.ProcessedBucket, true, "")
	switches.addFlag(c, &loaderCfg.Region, "region", loaderCfg.Region, false, "")
	switches.addFlag(c, &loaderCfg.SecretName, "secret-name", loaderCfg.SecretName, false, "")
	switches.addFlag(c, &loaderCfg.Schema, "schema", loaderCfg.Schema, false, "")
	switches.addFlag(c, &loaderCfg.BatchSize, "batch-size", strconv.Itoa(loaderCfg.BatchSize), false, "")
	switches.addFlag(c, &loaderCfg.TablesFile, "tables-file", loaderCfg.TablesFile, false, "")
	switches.addFlag(c, &loaderCfg.LogLevel, "log-level", loaderCfg.LogLevel, false, "")
}
