package logger

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const tmFmtWithMS = "2006-01-02 15:04:05.999"

func isPrintable(s string) bool {
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

// ExplainSQL render sql with vars inlined, for logging only. Placeholders are
// `?` when numericPlaceholder is nil, otherwise numbered placeholders such as
// `$1` matched by numericPlaceholder, whose first group is the position.
func ExplainSQL(sql string, numericPlaceholder *regexp.Regexp, escaper string, vars ...interface{}) string {
	values := make([]string, len(vars))
	for idx, v := range vars {
		values[idx] = explainValue(v, escaper)
	}

	if numericPlaceholder == nil {
		var (
			buf strings.Builder
			idx int
		)
		for i := 0; i < len(sql); i++ {
			if sql[i] == '?' && idx < len(values) {
				buf.WriteString(values[idx])
				idx++
				continue
			}
			buf.WriteByte(sql[i])
		}
		return buf.String()
	}

	return numericPlaceholder.ReplaceAllStringFunc(sql, func(placeholder string) string {
		match := numericPlaceholder.FindStringSubmatch(placeholder)
		if len(match) < 2 {
			return placeholder
		}
		n, err := strconv.Atoi(match[1])
		if err != nil || n < 1 || n > len(values) {
			return placeholder
		}
		return values[n-1]
	})
}

func explainValue(v interface{}, escaper string) string {
	quote := func(s string) string {
		return escaper + strings.ReplaceAll(s, escaper, "\\"+escaper) + escaper
	}

	if valuer, ok := v.(driver.Valuer); ok {
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Ptr && rv.IsNil() {
			return "NULL"
		}
		v, _ = valuer.Value()
	}

	switch v := v.(type) {
	case nil:
		return "NULL"
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		if v.IsZero() {
			return quote("0000-00-00 00:00:00")
		}
		return quote(v.Format(tmFmtWithMS))
	case *time.Time:
		if v == nil {
			return "NULL"
		}
		return quote(v.Format(tmFmtWithMS))
	case []byte:
		if s := string(v); isPrintable(s) {
			return quote(s)
		}
		return quote("<binary>")
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return quote(v)
	case fmt.Stringer:
		return quote(v.String())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return "NULL"
		}
		return explainValue(rv.Elem().Interface(), escaper)
	case reflect.String:
		return quote(rv.String())
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return explainValue(rv.Bytes(), escaper)
		}
	}
	return quote(fmt.Sprint(v))
}
