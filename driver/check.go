package driver

import (
	"fmt"
	"reflect"
)

// checkValue walks v and returns an error for any value that has a kind in
// reject, or that refers back to one of its own parents. Encoders that would
// recurse forever on cyclic data or print memory addresses call this first.
// With exportedOnly, unexported struct fields are not visited.
func checkValue(v any, exportedOnly bool, reject ...reflect.Kind) error {
	c := checker{
		exportedOnly: exportedOnly,
		reject:       make(map[reflect.Kind]bool, len(reject)),
		active:       make(map[visit]bool),
	}
	for _, k := range reject {
		c.reject[k] = true
	}
	return c.walk(reflect.ValueOf(v), "value")
}

// visit identifies a reference value on the current path
type visit struct {
	ptr uintptr
	typ reflect.Type
}

type checker struct {
	exportedOnly bool
	reject       map[reflect.Kind]bool
	active       map[visit]bool
}

func (c *checker) walk(v reflect.Value, path string) error {
	if !v.IsValid() {
		return nil
	}
	if c.reject[v.Kind()] && !isNil(v) {
		return fmt.Errorf("%s: unsupported kind %s", path, v.Kind())
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return nil
		}
		if v.Kind() == reflect.Slice && v.Len() == 0 {
			return nil
		}
		key := visit{ptr: v.Pointer(), typ: v.Type()}
		if c.active[key] {
			return fmt.Errorf("%s: cyclic reference to %s", path, v.Type())
		}
		c.active[key] = true
		defer delete(c.active, key)
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return c.walk(v.Elem(), path)
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			if c.exportedOnly && !t.Field(i).IsExported() {
				continue
			}
			if err := c.walk(v.Field(i), path+"."+t.Field(i).Name); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := c.walk(v.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			p := fmt.Sprintf("%s[%v]", path, iter.Key())
			if err := c.walk(iter.Key(), p); err != nil {
				return err
			}
			if err := c.walk(iter.Value(), p); err != nil {
				return err
			}
		}
	}
	return nil
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map,
		reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}
