// Package testing provides assertion helpers for tests of packages that
// produce bencode value trees and their renderings.
package testing

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/torrentkit/bencode/encoding/bencode"
)

// T provides the testing interface for capturing failures with testing assert
// utilities.
type T interface {
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Helper()
}

// ValueEqual compares two decoded bencode values. Empty and nil byte strings
// and lists are treated as equal; dictionaries must hold the same entries in
// the same order. Returns an error describing the difference if the values
// are not equal.
func ValueEqual(expect, actual bencode.Value) error {
	if diff := cmp.Diff(expect, actual, cmpopts.EquateEmpty()); len(diff) != 0 {
		return fmt.Errorf("value mismatch (-expect +actual):\n%s", diff)
	}
	return nil
}

// AssertValueEqual compares two decoded bencode values. Emits a testing
// error, and returns false if the values are not equal.
func AssertValueEqual(t T, expect, actual bencode.Value) bool {
	t.Helper()

	if err := ValueEqual(expect, actual); err != nil {
		t.Errorf("expect values to be equal, %v", err)
		return false
	}

	return true
}

// JSONEqual compares two JSON documents and identifies if the documents contain
// the same values. Returns an error if the two documents are not equal.
func JSONEqual(expectBytes, actualBytes []byte) error {
	var expect interface{}
	if err := json.Unmarshal(expectBytes, &expect); err != nil {
		return fmt.Errorf("failed to unmarshal expected bytes, %v", err)
	}

	var actual interface{}
	if err := json.Unmarshal(actualBytes, &actual); err != nil {
		return fmt.Errorf("failed to unmarshal actual bytes, %v", err)
	}

	if diff := cmp.Diff(expect, actual); len(diff) != 0 {
		return fmt.Errorf("JSON mismatch (-expect +actual):\n%s", diff)
	}

	return nil
}

// AssertJSONEqual compares two JSON documents and identifies if the documents
// contain the same values. Emits a testing error, and returns false if the
// documents are not equal.
func AssertJSONEqual(t T, expect, actual []byte) bool {
	t.Helper()

	if err := JSONEqual(expect, actual); err != nil {
		t.Errorf("expect JSON documents to be equal, %v", err)
		return false
	}

	return true
}
