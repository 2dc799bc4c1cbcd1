package shared

import (
	"context"
	"database/sql"
)

// Connector abstracts all access to the warehouse connection.
type Connector interface {
	Begin(ctx context.Context) (Transacter, error)
	Close() error
	GetDmlGenerator() DmlGenerator
}

type Transacter interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error)
	Commit() error
	Rollback() error
}

type Result = sql.Result

type DmlGenerator interface {
	NewInsertGenerator(cfg *SqlStatementGeneratorConfig) SqlStmtTxtBatcher
}

// SqlStmtGenerator produces the SQL text for a batch.
type SqlStmtGenerator interface {
	GetStatement() string
}

// SqlStmtTxtBatcher is used to combine DML statements that affect individual records into one statement, aiming
// to improve performance and reduce network round trips.
type SqlStmtTxtBatcher interface {
	SqlStmtGenerator
	InitBatch(batchSize int)                             // reset variables and preallocate slices for the given batch size.
	AddValuesToBatch(values []interface{}) (bool, error) // add values to SQL statement.
	GetValues() []interface{}                            // get all values added to the batch so they can be supplied as args to exec the SQL returned by GetStatement().
	NumRows() int                                        // rows currently held in the batch.
}
