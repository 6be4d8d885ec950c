package module_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/modkit/pkg/module"
)

func TestParseMatchMode(t *testing.T) {
	tests := []struct {
		in      string
		want    module.MatchMode
		wantErr bool
	}{
		{"assignable", module.MatchAssignable, false},
		{"hierarchy", module.MatchAssignable, false},
		{"EXACT", module.MatchExact, false},
		{" direct ", module.MatchExact, false},
		{"", "", true},
		{"fuzzy", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := module.ParseMatchMode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, module.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, got.Validate())
		})
	}
}

func TestParseRemoveMode(t *testing.T) {
	tests := []struct {
		in      string
		want    module.RemoveMode
		wantErr bool
	}{
		{"all", module.RemoveAll, false},
		{"absolute", module.RemoveAll, false},
		{"First", module.RemoveFirst, false},
		{"last", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := module.ParseRemoveMode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, module.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCleanupPolicy(t *testing.T) {
	got, err := module.ParseCleanupPolicy("legacy")
	require.NoError(t, err)
	assert.Equal(t, module.CleanupLegacy, got)

	got, err = module.ParseCleanupPolicy("closure")
	require.NoError(t, err)
	assert.Equal(t, module.CleanupClosure, got)

	_, err = module.ParseCleanupPolicy("partial")
	assert.ErrorIs(t, err, module.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "closure, legacy")
}

func TestModes_ZeroValueIsInvalid(t *testing.T) {
	var m module.MatchMode
	var r module.RemoveMode
	var p module.CleanupPolicy
	assert.Error(t, m.Validate())
	assert.Error(t, r.Validate())
	assert.Error(t, p.Validate())
}
