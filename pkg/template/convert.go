package template

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// FromAny converts Go data into a Value tree. The result never shares
// slices or maps with the input, so rendering cannot observe or cause
// mutation of caller-owned data.
//
// Supported inputs are nil, Value, bools, all integer and float kinds,
// strings, json.Number, time.Time (as RFC 3339 text), slices and arrays,
// maps (keys are formatted with fmt when they are not strings, which covers
// map[any]any from YAML decoders), pointers and structs (exported fields,
// honoring json tags).
// Anything else becomes Undefined.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float64:
		return Float(t)
	case time.Time:
		return String(t.Format(time.RFC3339))
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i)
		}
		if f, err := t.Float64(); err == nil {
			return Float(f)
		}
		return String(t.String())
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromAny(item)
		}
		return Seq(items)
	case []string:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = String(item)
		}
		return Seq(items)
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, item := range t {
			m[k] = FromAny(item)
		}
		return Map(m)
	case map[string]Value:
		m := make(map[string]Value, len(t))
		for k, item := range t {
			m[k] = item
		}
		return Map(m)
	}
	return fromReflect(reflect.ValueOf(v))
}

func fromReflect(rv reflect.Value) Value {
	if !rv.IsValid() {
		return Null()
	}

	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float())
	case reflect.String:
		return String(rv.String())
	case reflect.Slice:
		if rv.IsNil() {
			return Seq(nil)
		}
		fallthrough
	case reflect.Array:
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = fromReflect(rv.Index(i))
		}
		return Seq(items)
	case reflect.Map:
		m := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key()
			var key string
			if k.Kind() == reflect.String {
				key = k.String()
			} else {
				key = fmt.Sprintf("%v", k.Interface())
			}
			m[key] = fromReflect(iter.Value())
		}
		return Map(m)
	case reflect.Struct:
		return fromStruct(rv)
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		elem := rv.Elem()
		if elem.CanInterface() {
			return FromAny(elem.Interface())
		}
		return fromReflect(elem)
	default:
		return Undefined()
	}
}

func fromStruct(rv reflect.Value) Value {
	t := rv.Type()
	m := make(map[string]Value, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" {
				continue
			}
			if parts[0] != "" {
				name = parts[0]
			}
		}
		fv := rv.Field(i)
		if fv.CanInterface() {
			m[name] = FromAny(fv.Interface())
		} else {
			m[name] = fromReflect(fv)
		}
	}
	return Map(m)
}
