package orm

import (
	"database/sql"
)

// Row a raw result row, column name to value
type Row map[string]interface{}

func scanRows(rows *sql.Rows) ([]string, []Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	results := []Row{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for idx := range values {
			pointers[idx] = &values[idx]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, nil, err
		}

		row := make(Row, len(columns))
		for idx, column := range columns {
			row[column] = normalizeValue(values[idx])
		}
		results = append(results, row)
	}

	return columns, results, rows.Err()
}

// normalizeValue drivers without type information (mysql text protocol)
// return []byte for every column
func normalizeValue(value interface{}) interface{} {
	if b, ok := value.([]byte); ok {
		return string(b)
	}
	return value
}
