package view

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrUnknownPlaceholder is returned in strict mode for a ${field} the
// model does not provide.
var ErrUnknownPlaceholder = errors.New("unknown placeholder")

// Substitute replaces ${field} placeholders in s with values from model.
// Fields come from a map with string keys, or from the exported fields of
// a struct (or pointer to struct); a `menu:"alias"` tag renames a field
// and `menu:"-"` hides it. Unknown placeholders stay literal unless
// strict is set.
func Substitute(s string, model any, strict bool) (string, error) {
	if !strings.Contains(s, "${") {
		return s, nil
	}
	fields := Fields(model)

	var b strings.Builder
	rest := s
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[start+2:], '}')
		if end < 0 {
			b.WriteString(rest)
			break
		}
		name := rest[start+2 : start+2+end]
		b.WriteString(rest[:start])
		if val, ok := fields[name]; ok {
			b.WriteString(val)
		} else if strict {
			return "", fmt.Errorf("%w: ${%s}", ErrUnknownPlaceholder, name)
		} else {
			b.WriteString(rest[start : start+3+end])
		}
		rest = rest[start+3+end:]
	}
	return b.String(), nil
}

// Fields flattens model into placeholder values.
func Fields(model any) map[string]string {
	out := make(map[string]string)
	if model == nil {
		return out
	}
	rv := reflect.ValueOf(model)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return out
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return out
		}
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = fmt.Sprint(iter.Value().Interface())
		}
	case reflect.Struct:
		rt := rv.Type()
		for i := range rt.NumField() {
			f := rt.Field(i)
			if !f.IsExported() {
				continue
			}
			name := f.Name
			if tag, ok := f.Tag.Lookup("menu"); ok {
				if tag == "-" {
					continue
				}
				if tag != "" {
					name = tag
				}
			}
			out[name] = fmt.Sprint(rv.Field(i).Interface())
		}
	}
	return out
}
