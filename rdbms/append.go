package rdbms

import (
	"context"

	"github.com/pkg/errors"
	"github.com/relloyd/whload/constants"
	"github.com/relloyd/whload/logger"
	"github.com/relloyd/whload/rdbms/shared"
	"github.com/relloyd/whload/stream"
)

// AppendDataset inserts every row of ds into st in one transaction, matching columns by name.
// Existing rows are never touched. On error the transaction is rolled back so the table is left as it was.
// It returns the number of rows inserted.
func AppendDataset(ctx context.Context, log logger.Logger, conn shared.Connector, st SchemaTable, ds *stream.Dataset, batchSize int) (rows int64, err error) {
	cols := ds.Columns()
	if len(cols) == 0 {
		return 0, errors.Errorf("no columns found to append to %v", st)
	}
	batchSize = FitBatchSize(batchSize, len(cols))
	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, errors.Wrapf(err, "error starting transaction for %v", st)
	}
	defer func() {
		if err != nil { // if we failed part way...
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Warn("Error rolling back ", st, ": ", rbErr)
			}
		}
	}()
	gen := conn.GetDmlGenerator().NewInsertGenerator(&shared.SqlStatementGeneratorConfig{
		Log:          log,
		OutputSchema: st.GetSchema(),
		OutputTable:  st.GetTable(),
		Columns:      cols,
	})
	gen.InitBatch(batchSize)
	var batchIsFull bool
	for idx, row := range ds.Rows() { // for each row read from the file...
		batchIsFull, err = gen.AddValuesToBatch(row)
		if err != nil {
			err = errors.Wrapf(err, "error adding row %v of %v to batch", idx, st)
			return rows, err
		}
		if batchIsFull {
			if err = execBatch(ctx, tx, gen, st); err != nil {
				return rows, err
			}
			rows += int64(gen.NumRows())
			gen.InitBatch(batchSize)
		}
	}
	if gen.NumRows() > 0 { // if there is a partial batch left over...
		if err = execBatch(ctx, tx, gen, st); err != nil {
			return rows, err
		}
		rows += int64(gen.NumRows())
	}
	if err = tx.Commit(); err != nil {
		err = errors.Wrapf(err, "error committing %v", st)
		return rows, err
	}
	log.Debug("Appended ", rows, " rows to ", st)
	return rows, nil
}

func execBatch(ctx context.Context, tx shared.Transacter, gen shared.SqlStmtTxtBatcher, st SchemaTable) error {
	if _, err := tx.ExecContext(ctx, gen.GetStatement(), gen.GetValues()...); err != nil {
		return errors.Wrapf(err, "error inserting %v rows into %v", gen.NumRows(), st)
	}
	return nil
}

// FitBatchSize caps rows per INSERT so the statement stays within the Postgres bind parameter limit.
func FitBatchSize(batchSize int, numCols int) int {
	if batchSize <= 0 {
		batchSize = constants.InsertBatchSizeDefault
	}
	if numCols > 0 && batchSize*numCols > constants.PostgresMaxBindParameters {
		batchSize = constants.PostgresMaxBindParameters / numCols
	}
	if batchSize < 1 {
		batchSize = 1
	}
	return batchSize
}
