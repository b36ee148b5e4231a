package schema

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Namer derives table, key and migration names from model names
type Namer interface {
	TableName(model string) string
	ForeignKey(model string) string
	JoinTableName(left, right string) string
	MigrationTypeName(identifier string) string
}

// NamingStrategy tables, keys naming strategy
type NamingStrategy struct {
	TablePrefix   string
	SingularTable bool
}

// DefaultNamer the naming strategy used by models without an explicit table
var DefaultNamer Namer = NamingStrategy{}

// TableName convert a model name to its table name, `BlogPost` becomes `blog_posts`
func (ns NamingStrategy) TableName(model string) string {
	if ns.SingularTable {
		return ns.TablePrefix + ToDBName(model)
	}
	return ns.TablePrefix + inflection.Plural(ToDBName(model))
}

// ForeignKey the column referencing model from another table, `User` becomes `user_id`
func (ns NamingStrategy) ForeignKey(model string) string {
	return inflection.Singular(ToDBName(model)) + "_id"
}

// JoinTableName the pivot table of two models, singular names in alphabetical
// order, `Post` and `Tag` become `post_tag`
func (ns NamingStrategy) JoinTableName(left, right string) string {
	names := []string{inflection.Singular(ToDBName(left)), inflection.Singular(ToDBName(right))}
	sort.Strings(names)
	return ns.TablePrefix + names[0] + "_" + names[1]
}

var migrationPrefixes = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}_\d{2}_\d{2}_\d{6}_`),
	regexp.MustCompile(`^\d{8}_\d{6}_`),
	regexp.MustCompile(`^\d+_`),
}

// MigrationTypeName the type name a migration registered as identifier must
// carry, `2025_11_12_211750_create_users_table` becomes `CreateUsersTableMigration`
func (ns NamingStrategy) MigrationTypeName(identifier string) string {
	name := identifier
	for _, prefix := range migrationPrefixes {
		if loc := prefix.FindStringIndex(name); loc != nil {
			name = name[loc[1]:]
			break
		}
	}

	title := cases.Title(language.Und)
	var buf strings.Builder
	for _, part := range strings.Split(name, "_") {
		buf.WriteString(title.String(part))
	}
	buf.WriteString("Migration")
	return buf.String()
}

// TableName convert model name with the default namer
func TableName(model string) string { return DefaultNamer.TableName(model) }

// ForeignKey foreign key of model with the default namer
func ForeignKey(model string) string { return DefaultNamer.ForeignKey(model) }

// JoinTableName pivot table of two models with the default namer
func JoinTableName(left, right string) string { return DefaultNamer.JoinTableName(left, right) }

// MigrationTypeName migration type name with the default namer
func MigrationTypeName(identifier string) string { return DefaultNamer.MigrationTypeName(identifier) }

var (
	smap sync.Map
	// https://github.com/golang/lint/blob/master/lint.go#L770
	commonInitialisms         = []string{"API", "ASCII", "CPU", "CSS", "DNS", "EOF", "GUID", "HTML", "HTTP", "HTTPS", "ID", "IP", "JSON", "LHS", "QPS", "RAM", "RHS", "RPC", "SLA", "SMTP", "SSH", "TLS", "TTL", "UID", "UI", "UUID", "URI", "URL", "UTF8", "VM", "XML", "XSRF", "XSS"}
	commonInitialismsReplacer *strings.Replacer
)

func init() {
	title := cases.Title(language.Und)
	var replacements []string
	for _, initialism := range commonInitialisms {
		replacements = append(replacements, initialism, title.String(initialism))
	}
	commonInitialismsReplacer = strings.NewReplacer(replacements...)
}

// ToDBName convert a Go style name to snake case, `EmployeeID` becomes `employee_id`
func ToDBName(name string) string {
	if name == "" {
		return ""
	} else if v, ok := smap.Load(name); ok {
		return fmt.Sprint(v)
	}

	var (
		value                          = commonInitialismsReplacer.Replace(name)
		buf                            strings.Builder
		lastCase, nextCase, nextNumber bool // upper case == true
		curCase                        = value[0] <= 'Z' && value[0] >= 'A'
	)

	for i, v := range value[:len(value)-1] {
		nextCase = value[i+1] <= 'Z' && value[i+1] >= 'A'
		nextNumber = value[i+1] >= '0' && value[i+1] <= '9'

		if curCase {
			if lastCase && (nextCase || nextNumber) {
				buf.WriteRune(v + 32)
			} else {
				if i > 0 && value[i-1] != '_' && value[i+1] != '_' {
					buf.WriteByte('_')
				}
				buf.WriteRune(v + 32)
			}
		} else {
			buf.WriteRune(v)
		}

		lastCase = curCase
		curCase = nextCase
	}

	if curCase {
		if !lastCase && len(value) > 1 {
			buf.WriteByte('_')
		}
		buf.WriteByte(value[len(value)-1] + 32)
	} else {
		buf.WriteByte(value[len(value)-1])
	}

	result := buf.String()
	smap.Store(name, result)
	return result
}
