package builtins

import (
	"encoding/csv"
	"os"
	"strings"

	"github.com/steps-lang/steps/internal/errors"
	"github.com/steps-lang/steps/internal/value"
	"github.com/steps-lang/steps/pkg/token"
)

func registerCSV(r *Registry) {
	r.register("read_csv", []string{"path"}, csvRead)
	r.register("write_csv", []string{"path", "rows"}, csvWrite)
}

// csvRead parses a CSV file into a list of tables. The first record is
// the header; each following record becomes a table keyed by header name.
func csvRead(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	path, err := wantText("read_csv", "path", args, 0, pos)
	if err != nil {
		return nil, err
	}
	data, rerr := os.ReadFile(path)
	if rerr != nil {
		return nil, errors.New(errors.Runtime, errors.CodeWrongOperand, pos,
			"cannot read file %q: %v", path, rerr)
	}
	reader := csv.NewReader(strings.NewReader(string(data)))
	records, perr := reader.ReadAll()
	if perr != nil {
		return nil, errors.New(errors.Runtime, errors.CodeWrongOperand, pos,
			"cannot parse %q as CSV: %v", path, perr)
	}

	rows := value.NewList()
	if len(records) == 0 {
		return rows, nil
	}
	header := records[0]
	for _, record := range records[1:] {
		row := value.NewTable()
		for i, key := range header {
			cell := ""
			if i < len(record) {
				cell = record[i]
			}
			row.Set(key, value.NewText(cell))
		}
		rows.Add(row)
	}
	return rows, nil
}

// csvWrite writes a list of tables as CSV. The header is the key set of
// the first row, in insertion order; every row is emitted against it.
func csvWrite(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	path, err := wantText("write_csv", "path", args, 0, pos)
	if err != nil {
		return nil, err
	}
	rows, err := wantList("write_csv", "rows", args, 1, pos)
	if err != nil {
		return nil, err
	}

	var records [][]string
	var header []string
	for i, e := range rows.Elements {
		row, ok := e.(*value.Table)
		if !ok {
			return nil, errors.New(errors.Runtime, errors.CodeWrongOperand, pos,
				"write_csv expects every row to be a table, row %d is %s", i, e.Type())
		}
		if header == nil {
			header = append(header, row.Keys()...)
			records = append(records, header)
		}
		record := make([]string, len(header))
		for j, key := range header {
			if cell, ok := row.Get(key); ok {
				record[j] = cell.Display()
			}
		}
		records = append(records, record)
	}

	var sb strings.Builder
	writer := csv.NewWriter(&sb)
	if werr := writer.WriteAll(records); werr != nil {
		return nil, errors.New(errors.Runtime, errors.CodeWrongOperand, pos,
			"cannot encode CSV: %v", werr)
	}
	if werr := os.WriteFile(path, []byte(sb.String()), 0o644); werr != nil {
		return nil, errors.New(errors.Runtime, errors.CodeWrongOperand, pos,
			"cannot write file %q: %v", path, werr)
	}
	return value.NothingValue, nil
}
