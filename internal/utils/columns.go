package utils

import (
	"fmt"
	"reflect"
)

// ColumnTag is the struct tag carrying a field's database column name.
const ColumnTag = "db"

type column struct {
	name  string
	index int
}

func structValue(input any) reflect.Value {
	v := reflect.ValueOf(input)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		panic("input must be a pointer to a struct or a struct")
	}
	return v
}

// columns lists the exported, tagged fields of t in declaration order.
// Fields tagged "-" or without a tag are skipped.
func columns(t reflect.Type) []column {
	out := make([]column, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Tag.Get(ColumnTag)
		if name == "" || name == "-" {
			continue
		}
		out = append(out, column{name: name, index: i})
	}
	return out
}

// StructTagValues returns the column names of a struct, for SELECT lists.
func StructTagValues(input any) []string {
	cols := columns(structValue(input).Type())
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	return names
}

// StructToMap maps column names to field values, for INSERT/UPDATE SetMap.
func StructToMap(input any) map[string]any {
	v := structValue(input)
	cols := columns(v.Type())
	out := make(map[string]any, len(cols))
	for _, c := range cols {
		out[c.name] = v.Field(c.index).Interface()
	}
	return out
}

func ErrorWrapOrNil(err error, msg string) error {
	if err == nil {
		return nil
	}

	if msg == "" {
		return err
	}

	return fmt.Errorf("%s: %w", msg, err)
}
