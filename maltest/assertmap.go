// Copyright © 2018 The ELPS authors

package maltest

import (
	"testing"

	"github.com/luthersystems/mal/lisp"
	"github.com/stretchr/testify/assert"
)

// AssertMap runs tests to ensure that m satisfies constraints required for
// maps.  The following properties are tested by AssertMap:
//
//		No two keys of m are Equal
//
//		m.MapKeys() and m.MapVals() have m.Len() elements
//
//		Repeated calls to m.MapKeys() return equal lists
//
//		Calling m.MapGet() with the i-th key returns the i-th value
//
// AssertMap does not test the order of keys beyond requiring it be fixed.
func AssertMap(t *testing.T, m *lisp.LVal) bool {
	t.Helper()
	if !assert.Equal(t, lisp.LMap, m.Type, "not a map: %v", m) {
		return false
	}
	keys := m.MapKeys()
	vals := m.MapVals()
	if !assert.Len(t, keys, m.Len()) || !assert.Len(t, vals, m.Len()) {
		return false
	}
	for i := range keys {
		for j := i + 1; j < len(keys); j++ {
			if !assert.False(t, lisp.Equal(keys[i], keys[j]), "duplicate keys at %d and %d: %v", i, j, keys[i]) {
				return false
			}
		}
	}
	for n := 0; n < 3; n++ {
		again := m.MapKeys()
		if !assert.True(t, lisp.Equal(lisp.List(keys...), lisp.List(again...)), "MapKeys got: %v expected: %v", again, keys) {
			return false
		}
	}
	for i, key := range keys {
		v, ok := m.MapGet(key)
		if !assert.True(t, ok, "key %d was not found in map: %v", i, key) {
			return false
		}
		if !assert.True(t, lisp.Equal(vals[i], v), "value for key %v not consistent at index %d -- expected: %v got: %v", key, i, vals[i], v) {
			return false
		}
	}
	return true
}
