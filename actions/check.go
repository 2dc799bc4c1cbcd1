package actions

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/relloyd/whload/aws/s3"
	"github.com/relloyd/whload/constants"
	"github.com/relloyd/whload/logger"
	tabledefinition "github.com/relloyd/whload/table-definition"
)

// TableCheck is the existence status of one table's file.
type TableCheck struct {
	Table  string `json:"table"`
	Key    string `json:"key"`
	Status string `json:"status"`
}

// CheckTables looks up the file for every table at timestamp without reading it.
// It stops at the first missing bucket or unexpected storage error, returning the checks made so far.
func CheckTables(log logger.Logger, store s3.Header, tables tabledefinition.TableList, timestamp string) ([]TableCheck, error) {
	if timestamp == "" {
		return nil, ErrMissingTimestamp
	}
	checks := make([]TableCheck, 0, tables.Len())
	for _, t := range tables.Names() {
		c := TableCheck{Table: t, Key: ObjectKey(t, timestamp)}
		status, err := store.Head(c.Key)
		c.Status = status.String()
		checks = append(checks, c)
		if err != nil {
			log.Error("Error checking ", c.Key, ": ", err)
			return checks, err
		}
		log.Debug(c.Key, " ", c.Status)
	}
	return checks, nil
}

// ListTimestamps returns the sorted timestamps for which table has a file.
// Keys under the table that are not parquet files are ignored.
func ListTimestamps(store s3.Lister, table string) ([]string, error) {
	if table == "" || strings.Contains(table, "/") {
		return nil, errors.Errorf("invalid table name %q", table)
	}
	dir := table + "/"
	keys, err := store.List(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "error listing files for table %v", table)
	}
	ts := make([]string, 0, len(keys))
	for _, k := range keys {
		if !strings.HasPrefix(k, dir) || !strings.HasSuffix(k, constants.ObjectKeyExt) {
			continue
		}
		v := strings.TrimSuffix(strings.TrimPrefix(k, dir), constants.ObjectKeyExt)
		if v == "" || strings.Contains(v, "/") { // if the file is nested deeper...
			continue
		}
		ts = append(ts, v)
	}
	sort.Strings(ts)
	return ts, nil
}
