package shared

import (
	"github.com/relloyd/whload/logger"
)

type DmlGeneratorTxtBatch struct{}

type SqlStatementGeneratorConfig struct {
	Log          logger.Logger
	OutputSchema string
	OutputTable  string
	Columns      []string // target table column names, in the order values are supplied.
}

type sqlCoreCfg struct {
	sqlStmt                string
	sqlStmtTemplate        string
	sqlValues              []interface{} // slice to hold data values for all rows in batch
	batchSize              int
	rowsInBatch            int
	previousNumRowsInBatch int
}
