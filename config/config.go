package config

import (
	"github.com/pkg/errors"
	"github.com/relloyd/whload/aws/s3"
	"github.com/relloyd/whload/constants"
	"github.com/relloyd/whload/helper"
	tabledefinition "github.com/relloyd/whload/table-definition"
)

// LoaderConfig holds everything a load needs apart from the trigger timestamp and the warehouse
// credentials, which only ever come from the secret store.
type LoaderConfig struct {
	ProcessedBucket string `errorTxt:"S3_PROCESSED_BUCKET" mandatory:"yes"`
	Region          string `errorTxt:"AWS_REGION" mandatory:"yes"`
	SecretName      string `errorTxt:"secret name" mandatory:"yes"`
	Schema          string `errorTxt:"schema" mandatory:"yes"`
	BatchSize       int
	TablesFile      string
	LogLevel        string
	StackDump       bool
}

// NewDefaultLoaderConfig returns a config with every default set and no bucket.
func NewDefaultLoaderConfig() *LoaderConfig {
	return &LoaderConfig{
		Region:     constants.DefaultRegion,
		SecretName: constants.DefaultSecretName,
		Schema:     constants.DefaultSchema,
		BatchSize:  constants.InsertBatchSizeDefault,
		LogLevel:   constants.DefaultLogLevel,
	}
}

// NewLoaderConfigFromEnv reads the loader configuration from the environment, applying defaults
// for anything unset. It does not validate; call Validate once any CLI overrides are applied.
func NewLoaderConfigFromEnv() (*LoaderConfig, error) {
	c := NewDefaultLoaderConfig()
	c.ProcessedBucket = helper.ReadValueFromEnvWithDefault(constants.EnvVarProcessedBucket, "")
	c.Region = helper.ReadValueFromEnvWithDefault(constants.EnvVarRegion, c.Region)
	c.SecretName = helper.ReadValueFromEnvWithDefault(constants.EnvVarSecretName, c.SecretName)
	c.Schema = helper.ReadValueFromEnvWithDefault(constants.EnvVarSchema, c.Schema)
	c.TablesFile = helper.ReadValueFromEnvWithDefault(constants.EnvVarTablesFile, "")
	c.LogLevel = helper.ReadValueFromEnvWithDefault(constants.EnvVarLogLevel, c.LogLevel)
	c.StackDump = helper.ReadBoolFromEnv(constants.EnvVarStackDump)
	var err error
	if c.BatchSize, err = helper.ReadIntFromEnvWithDefault(constants.EnvVarBatchSize, c.BatchSize); err != nil {
		return c, err
	}
	return c, nil
}

// Validate returns an error listing every missing mandatory value, or the reason the bucket
// or batch size is unusable.
func (c *LoaderConfig) Validate() error {
	if err := helper.ValidateStructIsPopulated(c); err != nil {
		return err
	}
	if c.BatchSize < 1 {
		return errors.Errorf("batch size must be greater than zero; got %v", c.BatchSize)
	}
	if _, err := c.Bucket(); err != nil {
		return err
	}
	return nil
}

// Bucket parses ProcessedBucket, which may be a bare bucket name or s3://bucket/prefix.
func (c *LoaderConfig) Bucket() (s3.AwsS3Bucket, error) {
	b, err := s3.ParseDSN(c.ProcessedBucket, c.Region)
	if err != nil {
		return b, errors.Wrapf(err, "invalid value for %v", constants.EnvVarProcessedBucket)
	}
	return b, nil
}

// Tables returns the table list from TablesFile, or the default warehouse tables when no file is set.
func (c *LoaderConfig) Tables() (tabledefinition.TableList, error) {
	if c.TablesFile == "" {
		return tabledefinition.DefaultWarehouseTables(), nil
	}
	return tabledefinition.LoadTableListFile(c.TablesFile)
}
