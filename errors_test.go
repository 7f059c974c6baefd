package scenegroup_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/giantswarm/scenegroup"
)

var publicErrors = []struct {
	name string
	err  error
}{
	{"ErrAggregateFailure", scenegroup.ErrAggregateFailure},
	{"ErrBusy", scenegroup.ErrBusy},
	{"ErrCancelled", scenegroup.ErrCancelled},
	{"ErrInvalidArgument", scenegroup.ErrInvalidArgument},
	{"ErrNoActiveScene", scenegroup.ErrNoActiveScene},
	{"ErrNoAddressableStore", scenegroup.ErrNoAddressableStore},
	{"ErrNotLoaded", scenegroup.ErrNotLoaded},
	{"ErrOutOfRange", scenegroup.ErrOutOfRange},
	{"ErrOutOfRangeIndex", scenegroup.ErrOutOfRangeIndex},
}

// TestPublicErrorConstants verifies that every exported error constant has a
// message and matches itself directly and when wrapped.
func TestPublicErrorConstants(t *testing.T) {
	t.Parallel()

	for _, tc := range publicErrors {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if tc.err.Error() == "" {
				t.Errorf("%s.Error() returned empty string", tc.name)
			}
			if !errors.Is(tc.err, tc.err) {
				t.Errorf("errors.Is(%s, %s) = false, want true", tc.name, tc.name)
			}
			if wrapped := fmt.Errorf("wrapping: %w", tc.err); !errors.Is(wrapped, tc.err) {
				t.Errorf("errors.Is(wrapped %s) = false, want true", tc.name)
			}
		})
	}
}

// TestPublicErrorConstantsAreDistinct verifies that no two exported error
// constants match each other.
func TestPublicErrorConstantsAreDistinct(t *testing.T) {
	t.Parallel()

	for i, a := range publicErrors {
		for _, b := range publicErrors[i+1:] {
			if errors.Is(a.err, b.err) || errors.Is(b.err, a.err) {
				t.Errorf("%s and %s match each other: constants must be distinct", a.name, b.name)
			}
		}
	}
}
