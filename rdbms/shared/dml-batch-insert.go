package shared

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// SqlInsertTxtBatch is the Postgres implementation of interface SqlStmtTxtBatcher.
// It is able to generate multi-row INSERT statements with batches of rows supplied.
type SqlInsertTxtBatch struct {
	SqlStatementGeneratorConfig // mandatory to be populated.
	sqlCoreCfg
}

// NewInsertGenerator creates a new SqlStmtTxtBatcher that appends rows to cfg.OutputSchema.cfg.OutputTable.
func (*DmlGeneratorTxtBatch) NewInsertGenerator(cfg *SqlStatementGeneratorConfig) SqlStmtTxtBatcher {
	cfg.Log.Debug("Creating NewInsertGenerator")
	o := &SqlInsertTxtBatch{SqlStatementGeneratorConfig: *cfg}
	o.setupSqlStatement()
	return o
}

// QuoteIdentifier returns name as a quoted Postgres identifier.
func QuoteIdentifier(name ...string) string {
	return pgx.Identifier(name).Sanitize()
}

func (o *SqlInsertTxtBatch) setupSqlStatement() {
	cols := make([]string, len(o.Columns))
	for idx, c := range o.Columns { // for each target column...
		cols[idx] = QuoteIdentifier(c)
	}
	var tab string
	if o.OutputSchema != "" {
		tab = QuoteIdentifier(o.OutputSchema, o.OutputTable)
	} else {
		tab = QuoteIdentifier(o.OutputTable)
	}
	// Populate the SQL template.
	o.sqlStmtTemplate = `insert into <TABLE> (<TGT-COLS>) values <VALUES>`
	o.sqlStmtTemplate = strings.Replace(o.sqlStmtTemplate, "<TABLE>", tab, 1)
	o.sqlStmtTemplate = strings.Replace(o.sqlStmtTemplate, "<TGT-COLS>", strings.Join(cols, ","), 1)
	o.Log.Debug("setup INSERT generator with SQL (VALUES pending): ", o.sqlStmtTemplate)
}

func (o *SqlInsertTxtBatch) InitBatch(batchSize int) {
	o.batchSize = batchSize
	o.rowsInBatch = 0
	o.sqlValues = make([]interface{}, 0, o.batchSize*len(o.Columns)) // many values per row in a batch.
}

func (o *SqlInsertTxtBatch) AddValuesToBatch(values []interface{}) (batchIsFull bool, err error) {
	if o.rowsInBatch >= o.batchSize {
		return true, errors.New("no more rows allowed in INSERT batch")
	}
	if len(values) != len(o.Columns) {
		return false, errors.New("the number of values supplied does not match the number of table columns")
	}
	o.sqlValues = append(o.sqlValues, values...)
	o.rowsInBatch++ // keep track of how close we are to the batch limit.
	return o.rowsInBatch >= o.batchSize, nil
}

func (o *SqlInsertTxtBatch) GetValues() []interface{} {
	return o.sqlValues
}

func (o *SqlInsertTxtBatch) NumRows() int {
	return o.rowsInBatch
}

// GetStatement returns the INSERT for the rows currently in the batch.
// The text is cached while the number of rows stays the same, which is every batch but the last.
func (o *SqlInsertTxtBatch) GetStatement() string {
	if o.previousNumRowsInBatch != o.rowsInBatch || o.sqlStmt == "" { // if we need to generate SQL...
		allRows := strings.Builder{}
		valIdx := 1
		for rowIdx := 0; rowIdx < o.rowsInBatch; rowIdx++ { // for each row in the batch...
			if rowIdx > 0 {
				allRows.WriteString(",")
			}
			row := make([]string, len(o.Columns))
			for idy := range o.Columns { // for each field in the current row...
				row[idy] = fmt.Sprintf("$%v", valIdx)
				valIdx++
			}
			allRows.WriteString("(" + strings.Join(row, ",") + ")")
		}
		o.sqlStmt = strings.Replace(o.sqlStmtTemplate, "<VALUES>", allRows.String(), 1)
		o.previousNumRowsInBatch = o.rowsInBatch
	}
	o.Log.Trace("SQL batch INSERT generated statement: ", o.sqlStmt)
	return o.sqlStmt
}
