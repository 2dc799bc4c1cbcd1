package actions

import (
	"github.com/relloyd/whload/aws/s3"
	"github.com/relloyd/whload/aws/secrets"
	"github.com/relloyd/whload/config"
	"github.com/relloyd/whload/file"
	"github.com/relloyd/whload/logger"
	"github.com/relloyd/whload/rdbms"
)

// NewLoader validates cfg and returns a Loader wired to S3, Secrets Manager and Postgres.
func NewLoader(log logger.Logger, cfg *config.LoaderConfig) (*Loader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b, err := cfg.Bucket()
	if err != nil {
		return nil, err
	}
	tables, err := cfg.Tables()
	if err != nil {
		return nil, err
	}
	log.Debug("Processed bucket: ", b, "; tables: ", tables)
	return &Loader{
		Log:        log,
		Store:      s3.NewBasicClient(b.Name, b.Region, b.Prefix),
		Secrets:    secrets.NewClient(cfg.Region),
		Connect:    rdbms.OpenWarehouseConnection,
		Read:       file.ReadParquet,
		Tables:     tables,
		Schema:     cfg.Schema,
		SecretName: cfg.SecretName,
		BatchSize:  cfg.BatchSize,
	}, nil
}
