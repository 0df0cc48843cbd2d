package querybuilder

import (
	"errors"
	"reflect"
	"strings"
)

// InsertModel builds an INSERT from the db-tagged exported fields of model.
// Fields tagged `db:"name,readonly"` are database-managed and skipped.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	fields, err := dbFields(model)
	if err != nil {
		return "", nil, err
	}
	cols := make([]string, len(fields))
	vals := make([]any, len(fields))
	for i, f := range fields {
		cols[i], vals[i] = f.column, f.value
	}
	return InsertInto(table).Columns(cols...).Values(vals...).Suffix(suffix).ToSQL()
}

// Columns lists the writable db columns of model in field order.
func Columns(model any) ([]string, error) {
	fields, err := dbFields(model)
	if err != nil {
		return nil, err
	}
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.column
	}
	return cols, nil
}

type dbField struct {
	column string
	value  any
}

func dbFields(model any) ([]dbField, error) {
	v := reflect.Indirect(reflect.ValueOf(model))
	if !v.IsValid() || v.Kind() != reflect.Struct {
		return nil, errors.New("querybuilder: model must be a non-nil struct")
	}

	var out []dbField
	for _, f := range reflect.VisibleFields(v.Type()) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("db"), ",")
		if name == "" || name == "-" || opts == "readonly" {
			continue
		}
		out = append(out, dbField{column: name, value: v.FieldByIndex(f.Index).Interface()})
	}
	if len(out) == 0 {
		return nil, errors.New("querybuilder: model has no db columns")
	}
	return out, nil
}
