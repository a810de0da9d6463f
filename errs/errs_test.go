package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetailedErrorsUnwrapToSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		contains []string
	}{
		{
			name:     "unknown field",
			err:      &UnknownFieldError{Field: "telemetry.x"},
			sentinel: ErrUnknownField,
			contains: []string{"telemetry.x"},
		},
		{
			name:     "ambiguous field",
			err:      &AmbiguousFieldError{Name: "x", Sources: []string{"model", "telemetry"}},
			sentinel: ErrAmbiguousField,
			contains: []string{"model", "telemetry"},
		},
		{
			name:     "missing dependencies",
			err:      &MissingDependenciesError{Field: "model.y", Missing: []string{"telemetry.missing1", "telemetry.missing2"}},
			sentinel: ErrMissingDependencies,
			contains: []string{"telemetry.missing1", "telemetry.missing2"},
		},
		{
			name:     "time alignment",
			err:      &TimeAlignmentError{Reference: "telemetry.a", Mismatched: []string{"model.b"}},
			sentinel: ErrTimeAlignmentMismatch,
			contains: []string{"telemetry.a", "model.b"},
		},
		{
			name:     "destination exists",
			err:      &DestinationExistsError{Path: "/tmp/out.csv"},
			sentinel: ErrDestinationExists,
			contains: []string{"/tmp/out.csv"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.err, tt.sentinel)

			wrapped := fmt.Errorf("context: %w", tt.err)
			require.ErrorIs(t, wrapped, tt.sentinel)

			for _, s := range tt.contains {
				require.Contains(t, tt.err.Error(), s)
			}
		})
	}
}

func TestAmbiguousFieldErrorAs(t *testing.T) {
	err := fmt.Errorf("resolve: %w", &AmbiguousFieldError{Name: "x", Sources: []string{"model", "telemetry"}})

	var ambiguous *AmbiguousFieldError
	require.True(t, errors.As(err, &ambiguous))
	require.Equal(t, []string{"model", "telemetry"}, ambiguous.Sources)
}
