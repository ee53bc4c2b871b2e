package querybuilder

import (
	"errors"
	"reflect"
	"strings"
)

// InsertModel renders INSERT INTO table for the db-tagged exported fields of
// model. suffix is appended verbatim, typically an ON CONFLICT clause.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return "", nil, errNoTable
	}
	fields, err := taggedFields(model)
	if err != nil {
		return "", nil, err
	}

	var s statement
	s.sql.WriteString("INSERT INTO ")
	s.sql.WriteString(table)
	s.sql.WriteString(" (")
	for i, f := range fields {
		if i > 0 {
			s.sql.WriteString(", ")
		}
		s.sql.WriteString(f.column)
	}
	s.sql.WriteString(") VALUES (")
	for i, f := range fields {
		if i > 0 {
			s.sql.WriteString(", ")
		}
		s.write("?", f.value)
	}
	s.sql.WriteString(")")
	if suffix = strings.TrimSpace(suffix); suffix != "" {
		s.sql.WriteString(" ")
		s.sql.WriteString(suffix)
	}
	return s.sql.String(), s.args, nil
}

// Columns returns the db column names of model in declaration order, or nil
// when model is not a struct with db tags.
func Columns(model any) []string {
	fields, err := taggedFields(model)
	if err != nil {
		return nil
	}
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.column
	}
	return cols
}

type field struct {
	column string
	value  any
}

func taggedFields(model any) ([]field, error) {
	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, errors.New("querybuilder: nil model")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, errors.New("querybuilder: model is not a struct")
	}

	var out []field
	for _, sf := range reflect.VisibleFields(v.Type()) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		name, _, _ := strings.Cut(sf.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if name == "" || name == "-" {
			continue
		}
		out = append(out, field{column: name, value: v.FieldByIndex(sf.Index).Interface()})
	}
	if len(out) == 0 {
		return nil, errors.New("querybuilder: model has no db columns")
	}
	return out, nil
}
