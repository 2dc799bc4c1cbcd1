package cmd

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"github.com/relloyd/whload/actions"
	"github.com/relloyd/whload/config"
	"github.com/relloyd/whload/constants"
	"github.com/relloyd/whload/logger"
)

// init will be called first due to the lexical order in which these functions are executed.
// This ensures .env values and the 12 factor mode are set before other init() functions build
// flag defaults from the environment.
func init() {
	loadDotEnv()
	setupTwelveFactorMode()
	loaderCfg, loaderCfgErr = config.NewLoaderConfigFromEnv()
}

var (
	twelveFactorMode bool // true if os env var constants.EnvVarTwelveFactorMode is set
	lambdaMode       bool // true if os env var constants.EnvVarTwelveFactorMode is "lambda"
	stdout           io.Writer = os.Stdout
	lambdaStart                = func(handler interface{}) { lambda.Start(handler) }
)

// loadRunner is what the load, serve and 12 factor paths need from a loader.
type loadRunner interface {
	actions.LoadHandler
	Run(ctx context.Context, timestamp string) (actions.LoadResult, error)
}

// loaderFactory builds the loader from configuration.
var loaderFactory = func(log logger.Logger, cfg *config.LoaderConfig) (loadRunner, error) {
	return actions.NewLoader(log, cfg)
}

// loadDotEnv reads .env from the working directory if there is one. Existing variables win.
func loadDotEnv() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
}

// setupTwelveFactorMode will enable or disable 12 factor mode based on environment variable.
func setupTwelveFactorMode() {
	mode := os.Getenv(constants.EnvVarTwelveFactorMode)
	if mode != "" { // if variable for 12factor mode is set and we should read env vars to determine actions...
		twelveFactorMode = true
		lambdaMode = strings.ToLower(mode) == constants.TwelveFactorModeLambda
	} else { // else 12factor mode should be off...
		twelveFactorMode = false // explicitly turn off this mode since tests may have turned it on while others require it off.
		lambdaMode = false
	}
}

// execute12FactorMode configures a loader from the environment only. In lambda mode it hands the
// loader to the Lambda runtime, which decodes each trigger event. Otherwise it runs one load for
// the timestamp in constants.EnvVarTimestamp and prints the result.
func execute12FactorMode() error {
	cfg, err := config.NewLoaderConfigFromEnv()
	log := logger.NewLogger(constants.ServiceName, cfg.LogLevel, cfg.StackDump)
	if err != nil {
		log.Error(err)
		return err
	}
	log.Info("whload is running in 12 Factor mode...")
	l, err := loaderFactory(log, cfg)
	if err != nil {
		log.Error("Error: ", err)
		return err
	}
	if lambdaMode {
		lambdaStart(l.Handle)
		return nil
	}
	res, err := l.Run(context.Background(), os.Getenv(constants.EnvVarTimestamp))
	if err != nil {
		log.Error("Error: ", err)
		return err
	}
	return printJSON(stdout, res)
}
