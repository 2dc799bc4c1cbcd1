package cmd

import (
	"net"

	"github.com/relloyd/whload/actions"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a web service and run a load for each trigger event POSTed to /load",
	Long: `Start a web service and run a load for each trigger event POSTed to /load, e.g.
  {"myresult":{"timestamp_to_transform":"1995-01-01 00:00:00.000000"}}
The response is the load result as JSON. GET /health reports that the server is up.`,
	Args:    cobra.NoArgs,
	PreRunE: requireLoaderConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		l, err := loaderFactory(log, loaderCfg)
		if err != nil {
			return err
		}
		serveConfig.LogLevel = loaderCfg.LogLevel
		serveConfig.StackDumpOnPanic = stackDumpOnPanic
		return actions.RunWebServer(log, &serveConfig, l)
	},
}

var serveConfig = actions.WebServerConfig{
	Scheme: "http",
	Addr:   net.IP{0, 0, 0, 0},
	Port:   8080,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addLoaderFlags(serveCmd)
	serveCmd.Flags().IPVarP(&serveConfig.Addr, "address", "a", net.IP{0, 0, 0, 0}, "Address to listen on")
	switches.addFlag(serveCmd, &serveConfig.Port, "port", "8080", false, "")
}
