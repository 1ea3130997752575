package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// AssertEqual fails t with a structural diff when want and got differ,
// for in-memory values that are awkward to round-trip through JSON (an
// environment, a constraint tree with unexported fields).
func AssertEqual(t *testing.T, want, got interface{}, opts ...cmp.Option) {
	t.Helper()
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

// IgnoreUnexported builds a cmp.Option that ignores unexported fields on
// each of the given types, for comparing structs that embed bookkeeping
// (naming counters, oracle handles) a test does not care about.
func IgnoreUnexported(types ...interface{}) cmp.Option {
	return cmpopts.IgnoreUnexported(types...)
}
