package actions

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/relloyd/whload/aws/s3"
	"github.com/relloyd/whload/constants"
	"github.com/relloyd/whload/logger"
	"github.com/relloyd/whload/rdbms"
	"github.com/relloyd/whload/rdbms/shared"
	tabledefinition "github.com/relloyd/whload/table-definition"
	"github.com/rs/xid"
)

var ErrMissingTimestamp = errors.New("trigger event has no myresult.timestamp_to_transform")

// TableLoadError is returned when reading or appending a table fails part way through a run.
// Tables loaded before it stay loaded.
type TableLoadError struct {
	Table string
	Err   error
}

func (e *TableLoadError) Error() string {
	return fmt.Sprintf("error loading table %v: %v", e.Table, e.Err)
}

func (e *TableLoadError) Unwrap() error {
	return e.Err
}

// TriggerResult is the part of the upstream payload that names the generation of files to load.
type TriggerResult struct {
	TimestampToTransform *string `json:"timestamp_to_transform"`
}

// TriggerEvent is the inbound payload e.g. {"myresult":{"timestamp_to_transform":"1995-01-01 00:00:00.000000"}}
type TriggerEvent struct {
	MyResult *TriggerResult `json:"myresult"`
}

func NewTriggerEvent(timestamp string) TriggerEvent {
	return TriggerEvent{MyResult: &TriggerResult{TimestampToTransform: &timestamp}}
}

// Timestamp returns the timestamp used verbatim in object keys.
func (e TriggerEvent) Timestamp() (string, error) {
	if e.MyResult == nil || e.MyResult.TimestampToTransform == nil || *e.MyResult.TimestampToTransform == "" {
		return "", ErrMissingTimestamp
	}
	return *e.MyResult.TimestampToTransform, nil
}

// LoadResult is the response for a completed run.
type LoadResult struct {
	StatusCode            int            `json:"statusCode"`
	TimestampToLoad       string         `json:"timestamp_to_load"`
	NumberOfTablesUpdated int            `json:"numberOfTablesUpdated"`
	Tables                []TableOutcome `json:"-"`
}

type TableState string

const (
	TablePending TableState = "pending"
	TableSkipped TableState = "skipped"
	TableLoaded  TableState = "loaded"
	TableFailed  TableState = "failed"
)

// TableOutcome records what happened to one table during a run.
type TableOutcome struct {
	Table string
	Key   string
	State TableState
	Rows  int64
}

type RunState string

const (
	RunInit                RunState = "init"
	RunCredentialsResolved RunState = "credentials-resolved"
	RunConnected           RunState = "connected"
	RunIterating           RunState = "iterating"
	RunDone                RunState = "done"
	RunAborted             RunState = "aborted"
)

// ObjectKey returns the key of the file holding table at timestamp.
func ObjectKey(table string, timestamp string) string {
	return table + "/" + timestamp + constants.ObjectKeyExt
}

// Loader appends the per-table files for a timestamp into the warehouse.
// It holds no state between runs.
type Loader struct {
	Log        logger.Logger
	Store      ObjectStore
	Secrets    SecretStore
	Connect    ConnectFunc
	Read       ReadFunc
	Tables     tabledefinition.TableList
	Schema     string
	SecretName string
	BatchSize  int
}

// Handle extracts the timestamp from evt and runs the load.
func (l *Loader) Handle(ctx context.Context, evt TriggerEvent) (LoadResult, error) {
	ts, err := evt.Timestamp()
	if err != nil {
		l.Log.Error(err)
		return LoadResult{}, err
	}
	return l.Run(ctx, ts)
}

// Run loads every table in l.Tables, in order, whose file exists for timestamp.
// A missing file skips the table. A missing bucket, an unexpected storage error, a credentials or
// connection failure, or a failure to read or append a table stops the run and is returned.
// On error the returned LoadResult describes the tables handled so far.
func (l *Loader) Run(ctx context.Context, timestamp string) (result LoadResult, err error) {
	log := l.Log.WithField("runId", xid.New().String())
	state := RunInit
	setState := func(s RunState) {
		log.Debug("Run state changed from ", state, " to ", s)
		state = s
	}
	defer func() {
		if err != nil {
			setState(RunAborted)
		}
	}()
	if timestamp == "" {
		log.Error(ErrMissingTimestamp)
		return result, ErrMissingTimestamp
	}
	log = log.WithField("timestamp", timestamp)
	tables := l.Tables.Names()
	result = LoadResult{
		StatusCode:      constants.StatusCodeOK,
		TimestampToLoad: timestamp,
		Tables:          make([]TableOutcome, len(tables)),
	}
	for idx, t := range tables {
		result.Tables[idx] = TableOutcome{Table: t, Key: ObjectKey(t, timestamp), State: TablePending}
	}
	// Credentials and connection.
	creds, err := rdbms.ResolveCredentials(log, l.Secrets, l.SecretName)
	if err != nil {
		return result, err
	}
	setState(RunCredentialsResolved)
	conn, err := l.Connect(ctx, log, creds)
	if err != nil {
		return result, err
	}
	defer func() {
		if cErr := conn.Close(); cErr != nil {
			log.Warn("Error closing warehouse connection: ", cErr)
		}
	}()
	setState(RunConnected)
	// Tables.
	setState(RunIterating)
	for idx := range result.Tables {
		o := &result.Tables[idx]
		tlog := log.WithField("table", o.Table)
		status, hErr := l.Store.Head(o.Key)
		switch status {
		case s3.ObjectNotFound:
			tlog.Warn("No file found at ", l.Store.URL(o.Key), "; skipping table")
			o.State = TableSkipped
			continue
		case s3.ObjectExists:
			// load below
		case s3.ObjectBucketNotFound:
			err = errors.Wrapf(hErr, "checking %v", o.Key)
			tlog.Error("The processed bucket does not exist: ", err)
			return result, err
		default:
			if hErr == nil {
				hErr = errors.Wrapf(s3.ErrUnexpectedBackend, "unhandled object status %v", status)
			}
			err = errors.Wrapf(hErr, "checking %v", o.Key)
			tlog.Error("Unexpected error checking for file: ", err)
			return result, err
		}
		o.Rows, err = l.loadTable(ctx, tlog, conn, o)
		if err != nil {
			o.State = TableFailed
			tlog.Error("Error loading table: ", err)
			err = &TableLoadError{Table: o.Table, Err: err}
			return result, err
		}
		o.State = TableLoaded
		result.NumberOfTablesUpdated++
		tlog.Info("Appended ", o.Rows, " rows from ", l.Store.URL(o.Key))
	}
	setState(RunDone)
	log.Info("Updated ", result.NumberOfTablesUpdated, " of ", len(result.Tables), " tables")
	return result, nil
}

func (l *Loader) loadTable(ctx context.Context, log logger.Logger, conn shared.Connector, o *TableOutcome) (int64, error) {
	data, err := l.Store.Get(o.Key)
	if err != nil {
		return 0, errors.Wrapf(err, "error reading %v", l.Store.URL(o.Key))
	}
	ds, err := l.Read(ctx, data)
	if err != nil {
		return 0, errors.Wrapf(err, "error decoding %v", l.Store.URL(o.Key))
	}
	log.Debug("Read ", ds.NumRows(), " rows with columns ", ds.Columns())
	return rdbms.AppendDataset(ctx, log, conn, rdbms.NewSchemaTable(l.Schema, o.Table), ds, l.BatchSize)
}
