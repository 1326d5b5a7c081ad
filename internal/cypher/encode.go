// Package cypher composes Cypher fragments: value literals, graph patterns,
// boolean predicates and keyword clauses. Everything here is pure string
// building; nothing parses or validates the emitted language.
//
// Strings prefixed with RawPrefix ("$") are emitted verbatim without the
// prefix, which is how callers reference in-query identifiers or
// expressions instead of literal values:
//
//	cypher.NewPredicate(nil).Where("a.name", "zorx")    // a.name = 'zorx'
//	cypher.NewPredicate(nil).Where("a.name", "$b.name") // a.name = b.name
package cypher

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// RawPrefix marks a string as an already valid expression or identifier.
const RawPrefix = "$"

// TimeFormat is the layout used for time.Time literals and timestamps.
const TimeFormat = "2006-01-02 15:04:05"

// Owner is the entity context a composer is scoped to. Unqualified fields
// are qualified with the owner's variable.
type Owner interface {
	Variable() string
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Raw marks expr as a verbatim expression.
func Raw(expr string) string {
	return RawPrefix + expr
}

// EncodeField resolves a field reference against owner.
//
//   - "" with an owner yields the owner variable
//   - "$expr" yields expr
//   - the owner variable itself, or a field qualified with it, is returned as is
//   - anything else becomes owner.field
func EncodeField(field string, owner Owner) string {
	if field == "" && owner != nil {
		return owner.Variable()
	}

	if strings.HasPrefix(field, RawPrefix) {
		return field[len(RawPrefix):]
	}

	if owner == nil {
		return field
	}

	variable := owner.Variable()
	if field == variable || strings.HasPrefix(field, variable+".") {
		return field
	}

	return variable + "." + field
}

// EncodeValue renders v as a Cypher literal.
func EncodeValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		if strings.HasPrefix(val, RawPrefix) {
			return val[len(RawPrefix):]
		}
		return quote(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		return formatFloat(val)
	case float32:
		return formatFloat(float64(val))
	case time.Time:
		return quote(val.Format(TimeFormat))
	case fmt.Stringer:
		return quote(val.String())
	case []any:
		parts := make([]string, len(val))
		for i, e := range val {
			parts[i] = EncodeValue(e)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case map[string]any:
		return encodeMap(val)
	}

	return encodeReflect(reflect.ValueOf(v))
}

// encodeReflect covers typed slices, arrays, maps and named scalar kinds.
func encodeReflect(rv reflect.Value) string {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "null"
		}
		return EncodeValue(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return "[]"
		}
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = EncodeValue(rv.Index(i).Interface())
		}
		return "[" + strings.Join(parts, ",") + "]"
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return encodeMap(m)
	case reflect.String:
		return EncodeValue(rv.String())
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return formatFloat(rv.Float())
	}

	return quote(fmt.Sprint(rv.Interface()))
}

// encodeMap renders { k: v, k2: v2 } with keys sorted.
func encodeMap(m map[string]any) string {
	if len(m) == 0 {
		return "{}"
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = encodeKey(k) + ": " + EncodeValue(m[k])
	}

	return "{ " + strings.Join(parts, ", ") + " }"
}

func encodeKey(k string) string {
	if identifierRe.MatchString(k) {
		return k
	}
	return "`" + strings.ReplaceAll(k, "`", "``") + "`"
}

// quote wraps s in single quotes, escaping backslashes first and then quotes.
func quote(s string) string {
	if strings.ContainsAny(s, `'\`) {
		s = strings.ReplaceAll(s, `\`, `\\`)
		s = strings.ReplaceAll(s, `'`, `\'`)
	}
	return "'" + s + "'"
}

func formatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
