package corpus

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	domdoc "github.com/kailas-cloud/contentrec/internal/domain/document"
)

const parquetBatch = 1000

// readParquet reads top-level scalar columns with the generic row reader.
// id and content are required; other flat columns become fields.
func readParquet(path string) ([]domdoc.Document, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	names := make(map[int]string)
	hasID, hasContent := false, false
	for i, col := range pf.Schema().Columns() {
		if len(col) != 1 {
			continue // nested columns are not document fields
		}
		names[i] = col[0]
		hasID = hasID || col[0] == KeyID
		hasContent = hasContent || col[0] == KeyContent
	}
	if !hasID || !hasContent {
		return nil, errors.New("parquet schema must have id and content columns")
	}

	var recs []map[string]any
	buf := make([]parquet.Row, parquetBatch)
	for _, rg := range pf.RowGroups() {
		rows := parquet.NewRowGroupReader(rg)
		for {
			n, readErr := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				recs = append(recs, rowToRecord(row, names))
			}
			if readErr != nil {
				if errors.Is(readErr, io.EOF) {
					break
				}
				return nil, fmt.Errorf("read rows: %w", readErr)
			}
		}
	}
	return ToDocuments(recs)
}

func rowToRecord(row parquet.Row, names map[int]string) map[string]any {
	rec := make(map[string]any, len(names))
	for _, v := range row {
		name, ok := names[v.Column()]
		if !ok || v.IsNull() {
			continue
		}
		switch v.Kind() {
		case parquet.Boolean:
			rec[name] = v.Boolean()
		case parquet.Int32, parquet.Int64:
			rec[name] = v.Int64()
		case parquet.Float, parquet.Double:
			rec[name] = v.Double()
		default:
			rec[name] = v.String()
		}
	}
	return rec
}
