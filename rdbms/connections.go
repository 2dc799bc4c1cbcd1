package rdbms

import (
	"context"
	"database/sql"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"github.com/relloyd/whload/logger"
	"github.com/relloyd/whload/rdbms/shared"
)

const pgxDriverName = "pgx"

var (
	ErrConnection        = errors.New("cannot connect to warehouse")
	ErrConnectionUnknown = errors.New("unexpected error opening warehouse connection")
)

// sqlOpen is replaced in tests.
var sqlOpen = sql.Open

// OpenWarehouseConnection opens exactly one connection to the warehouse described by creds and pings it.
// Unreachable hosts and rejected logins return an error wrapping ErrConnection; anything else wraps
// ErrConnectionUnknown. Nothing is retried.
func OpenWarehouseConnection(ctx context.Context, log logger.Logger, creds shared.WarehouseCredentials) (shared.Connector, error) {
	u, err := creds.DSN()
	if err != nil { // if the DSN could not be built...
		err = errors.Wrap(ErrConnectionUnknown, err.Error())
		log.Error("There has been an error building the warehouse DSN: ", err)
		return nil, err
	}
	log.Info("Opening warehouse connection: ", u.Redacted())
	db, err := sqlOpen(pgxDriverName, u.DSN)
	if err != nil {
		err = errors.Wrap(ErrConnectionUnknown, err.Error())
		log.Error("There has been an error opening the warehouse connection: ", err)
		return nil, err
	}
	// One connection per invocation, used for every table.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		err = classifyConnectionError(err)
		log.Error("Cannot connect to warehouse: ", err)
		return nil, err
	}
	log.Info("Successful connection to: ", u.Redacted())
	return &shared.HpConnection{
		DbSql: db,
		Dml:   &shared.DmlGeneratorTxtBatch{},
	}, nil
}

func classifyConnectionError(err error) error {
	var connectErr *pgconn.ConnectError
	var pgErr *pgconn.PgError
	var netErr net.Error
	if errors.As(err, &connectErr) || errors.As(err, &pgErr) || errors.As(err, &netErr) {
		return errors.Wrap(ErrConnection, err.Error())
	}
	return errors.Wrap(ErrConnectionUnknown, err.Error())
}
