package file

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/apache/arrow/go/v16/arrow"
	"github.com/apache/arrow/go/v16/arrow/array"
	"github.com/apache/arrow/go/v16/arrow/memory"
	"github.com/apache/arrow/go/v16/parquet/file"
	"github.com/apache/arrow/go/v16/parquet/pqarrow"
	"github.com/pkg/errors"
	"github.com/relloyd/whload/constants"
	"github.com/relloyd/whload/stream"
)

// ErrNotParquet is returned when the bytes read from the object store cannot be decoded.
var ErrNotParquet = errors.New("object is not a readable parquet file")

const recordChunkSize = 64 * 1024

// ReadParquet decodes a whole parquet file held in memory into a Dataset.
// Column order follows the file schema. Index columns written by pandas are dropped.
// Values are returned as Go natives: integers, floats, bools, strings, []byte and time.Time.
// Decimals and any other logical types are returned in their string form for the database to cast.
func ReadParquet(ctx context.Context, data []byte) (*stream.Dataset, error) {
	rdr, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(ErrNotParquet, err.Error())
	}
	defer rdr.Close()
	fr, err := pqarrow.NewFileReader(rdr, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, errors.Wrap(ErrNotParquet, err.Error())
	}
	tbl, err := fr.ReadTable(ctx)
	if err != nil {
		return nil, errors.Wrap(ErrNotParquet, err.Error())
	}
	defer tbl.Release()
	schema := tbl.Schema()
	cols := make([]string, schema.NumFields())
	for idx, f := range schema.Fields() {
		cols[idx] = f.Name
	}
	ds := stream.NewDataset(cols)
	tr := array.NewTableReader(tbl, recordChunkSize)
	defer tr.Release()
	for tr.Next() { // for each chunk of records...
		rec := tr.Record()
		numCols := int(rec.NumCols())
		for r := 0; r < int(rec.NumRows()); r++ {
			row := make([]interface{}, numCols)
			for c := 0; c < numCols; c++ {
				if row[c], err = value(rec.Column(c), r); err != nil {
					return nil, errors.Wrapf(err, "column %v row %v", cols[c], r)
				}
			}
			if err = ds.AddRow(row); err != nil {
				return nil, err
			}
		}
	}
	if err = tr.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading parquet records")
	}
	return ds.WithoutColumns(IsIndexColumn), nil
}

// IsIndexColumn returns true for the columns pandas adds when it stores a DataFrame index.
func IsIndexColumn(name string) bool {
	return strings.HasPrefix(name, constants.PandasIndexColumnPrefix) && strings.HasSuffix(name, "__")
}

func value(arr arrow.Array, i int) (interface{}, error) {
	if arr.IsNull(i) {
		return nil, nil
	}
	switch a := arr.(type) {
	case *array.Boolean:
		return a.Value(i), nil
	case *array.Int8:
		return int64(a.Value(i)), nil
	case *array.Int16:
		return int64(a.Value(i)), nil
	case *array.Int32:
		return int64(a.Value(i)), nil
	case *array.Int64:
		return a.Value(i), nil
	case *array.Uint8:
		return int64(a.Value(i)), nil
	case *array.Uint16:
		return int64(a.Value(i)), nil
	case *array.Uint32:
		return int64(a.Value(i)), nil
	case *array.Uint64:
		return a.ValueStr(i), nil // may overflow int64
	case *array.Float32:
		return strconv.FormatFloat(float64(a.Value(i)), 'g', -1, 32), nil // widening to float64 adds digits
	case *array.Float64:
		return a.Value(i), nil
	case *array.String:
		return strings.Clone(a.Value(i)), nil
	case *array.LargeString:
		return strings.Clone(a.Value(i)), nil
	case *array.Binary:
		return append([]byte(nil), a.Value(i)...), nil
	case *array.Date32:
		return a.Value(i).ToTime(), nil
	case *array.Date64:
		return a.Value(i).ToTime(), nil
	case *array.Timestamp:
		ts, ok := a.DataType().(*arrow.TimestampType)
		if !ok {
			return nil, errors.Errorf("unexpected timestamp type %v", a.DataType())
		}
		return a.Value(i).ToTime(ts.Unit), nil
	default:
		return arr.ValueStr(i), nil
	}
}
