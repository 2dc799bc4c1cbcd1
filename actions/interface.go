package actions

import (
	"context"

	"github.com/relloyd/whload/aws/s3"
	"github.com/relloyd/whload/logger"
	"github.com/relloyd/whload/rdbms/shared"
	"github.com/relloyd/whload/stream"
)

//go:generate mockgen -destination=mocks/interface.go -package=mocks github.com/relloyd/whload/actions ObjectStore,SecretStore

// ObjectStore is the processed area as seen by the loader.
type ObjectStore interface {
	s3.Header
	s3.Getter
	URL(key string) string
}

// SecretStore supplies the warehouse credentials.
type SecretStore interface {
	GetSecretString(name string) (string, error)
}

// ConnectFunc opens the single warehouse connection used for a whole load.
type ConnectFunc func(ctx context.Context, log logger.Logger, creds shared.WarehouseCredentials) (shared.Connector, error)

// ReadFunc decodes the bytes of one object into a dataset.
type ReadFunc func(ctx context.Context, data []byte) (*stream.Dataset, error)

// LoadHandler runs a load for a trigger event.
type LoadHandler interface {
	Handle(ctx context.Context, evt TriggerEvent) (LoadResult, error)
}
