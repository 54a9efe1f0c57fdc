package internal

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrNilKey   = errors.New("key cannot be nil")
	ErrEmptyKey = errors.New("key cannot be empty")
	ErrNilValue = errors.New("value cannot be nil")

	ErrUnequalKey = errors.New("key is not equal to itself")
)

// ValidateKey rejects keys that count as absent: nil, nil references and empty
// strings. It also rejects keys that would panic as a map key and keys that a
// map lookup can never find again, such as NaN.
func ValidateKey(key any) error {
	if IsNil(key) {
		return ErrNilKey
	}
	v := reflect.ValueOf(key)
	if v.Kind() == reflect.String && v.Len() == 0 {
		return ErrEmptyKey
	}
	if !v.Comparable() {
		return fmt.Errorf("invalid key type: %T is not comparable", key)
	}
	if !v.Equal(v) {
		return ErrUnequalKey
	}
	return nil
}

// ValidateValue rejects nil values. Zero values such as 0 or "" are allowed.
func ValidateValue(value any) error {
	if IsNil(value) {
		return ErrNilValue
	}
	return nil
}

// IsNil reports whether v is a nil interface or a nil pointer, map, slice,
// channel or func stored in an interface.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}
