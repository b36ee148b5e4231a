package utils

import (
	"database/sql/driver"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

var ormSourceDir string

func init() {
	_, file, _, _ := runtime.Caller(0)
	ormSourceDir = sourceDir(file)
}

func sourceDir(file string) string {
	dir := filepath.Dir(filepath.Dir(file))

	s := filepath.Dir(dir)
	if filepath.Base(s) != "nexus.dev" {
		s = dir
	}
	return filepath.ToSlash(s) + "/"
}

// FileWithLineNum return the file name and line number of the first caller
// outside the orm module
func FileWithLineNum() string {
	// the second caller usually from orm internal, so set i start from 2
	for i := 2; i < 15; i++ {
		_, file, line, ok := runtime.Caller(i)
		if ok && (!strings.HasPrefix(file, ormSourceDir) || strings.HasSuffix(file, "_test.go")) {
			return file + ":" + strconv.FormatInt(int64(line), 10)
		}
	}

	return ""
}

// CallerFile the base name without extension of the file skip frames up the stack
func CallerFile(skip int) string {
	_, file, _, ok := runtime.Caller(skip + 1)
	if !ok {
		return ""
	}
	return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
}

// CheckTruth check string true or not
func CheckTruth(vals ...string) bool {
	for _, val := range vals {
		if val != "" && !strings.EqualFold(val, "false") {
			return true
		}
	}
	return false
}

// ToStringKey normalises key values for dictionary matching so an id read
// back as int64, string or []byte produces the same key
func ToStringKey(values ...interface{}) string {
	results := make([]string, len(values))

	for idx, value := range values {
		if valuer, ok := value.(driver.Valuer); ok {
			value, _ = valuer.Value()
		}

		switch v := value.(type) {
		case nil:
			results[idx] = ""
		case []byte:
			results[idx] = string(v)
		case float32, float64:
			f := cast.ToFloat64(v)
			if f == float64(int64(f)) {
				results[idx] = strconv.FormatInt(int64(f), 10)
			} else {
				results[idx] = strconv.FormatFloat(f, 'f', -1, 64)
			}
		default:
			results[idx] = cast.ToString(v)
		}
	}

	return strings.Join(results, "_")
}
