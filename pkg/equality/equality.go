// Package equality provides structural equality checks over plain data:
// maps, slices, scalars, and reference leaves such as node pointers.
//
// It differs from reflect.DeepEqual in one important way: pointers, funcs,
// and other reference kinds always compare by identity, never by pointed-to
// contents. Two distinct nodes with identical fields are not equal, which is
// exactly the comparison the configuration layer needs.
package equality

import "reflect"

// Deep reports whether a and b are structurally equal. Maps, slices, and
// structs are compared entry by entry, recursively; scalars compare by
// value; pointers and funcs compare by identity.
func Deep(a, b any) bool {
	return deepValue(reflect.ValueOf(a), reflect.ValueOf(b))
}

// Shallow reports whether a and b have equal top-level entries. Map and
// slice entries are compared as leaves (scalar value or reference
// identity), without descending: two maps whose entries are equal-but-
// distinct inner maps are not shallowly equal.
func Shallow(a, b any) bool {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if !av.IsValid() || !bv.IsValid() {
		return av.IsValid() == bv.IsValid()
	}
	if av.Type() != bv.Type() {
		return false
	}
	switch av.Kind() {
	case reflect.Map:
		if av.IsNil() != bv.IsNil() || av.Len() != bv.Len() {
			return false
		}
		iter := av.MapRange()
		for iter.Next() {
			other := bv.MapIndex(iter.Key())
			if !other.IsValid() || !leafValue(indirect(iter.Value()), indirect(other)) {
				return false
			}
		}
		return true
	case reflect.Slice:
		if av.IsNil() != bv.IsNil() || av.Len() != bv.Len() {
			return false
		}
		for i := 0; i < av.Len(); i++ {
			if !leafValue(indirect(av.Index(i)), indirect(bv.Index(i))) {
				return false
			}
		}
		return true
	}
	return leafValue(av, bv)
}

// SameReference reports whether a and b share underlying storage:
// identical pointers, or maps, slices, and funcs backed by the same data.
// Scalars are never the same reference.
func SameReference(a, b any) bool {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if !av.IsValid() || !bv.IsValid() {
		return false
	}
	if av.Type() != bv.Type() {
		return false
	}
	switch av.Kind() {
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer, reflect.Map, reflect.Func:
		if av.IsNil() || bv.IsNil() {
			return false
		}
		return av.Pointer() == bv.Pointer()
	case reflect.Slice:
		if av.IsNil() || bv.IsNil() {
			return false
		}
		return av.Pointer() == bv.Pointer() && av.Len() == bv.Len()
	}
	return false
}

func deepValue(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}
	switch a.Kind() {
	case reflect.Interface:
		return deepValue(a.Elem(), b.Elem())
	case reflect.Map:
		if a.IsNil() != b.IsNil() || a.Len() != b.Len() {
			return false
		}
		iter := a.MapRange()
		for iter.Next() {
			other := b.MapIndex(iter.Key())
			if !other.IsValid() || !deepValue(iter.Value(), other) {
				return false
			}
		}
		return true
	case reflect.Slice, reflect.Array:
		if a.Kind() == reflect.Slice && (a.IsNil() != b.IsNil()) {
			return false
		}
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !deepValue(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !deepValue(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	}
	return leafValue(a, b)
}

// leafValue compares a single non-container value: scalars by value,
// reference kinds by identity.
func leafValue(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}
	switch a.Kind() {
	case reflect.Bool:
		return a.Bool() == b.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() == b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() == b.Uint()
	case reflect.Float32, reflect.Float64:
		return a.Float() == b.Float()
	case reflect.Complex64, reflect.Complex128:
		return a.Complex() == b.Complex()
	case reflect.String:
		return a.String() == b.String()
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer, reflect.Map, reflect.Slice, reflect.Func:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return a.Pointer() == b.Pointer()
	case reflect.Interface:
		return leafValue(a.Elem(), b.Elem())
	case reflect.Struct:
		return deepValue(a, b)
	}
	return false
}

func indirect(v reflect.Value) reflect.Value {
	if v.Kind() == reflect.Interface && !v.IsNil() {
		return v.Elem()
	}
	return v
}
