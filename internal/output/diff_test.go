package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderChanges(t *testing.T) {
	t.Run("no changes", func(t *testing.T) {
		assert.Equal(t, "No changes detected.", RenderChanges(nil, nil, nil))
	})

	t.Run("added", func(t *testing.T) {
		result := RenderChanges([]string{"Armor"}, nil, nil)
		assert.Contains(t, result, "Added:")
		assert.Contains(t, result, "+ ")
		assert.Contains(t, result, "Armor")
		assert.NotContains(t, result, "Removed:")
		assert.Contains(t, result, "Summary: 1 added")
	})

	t.Run("removed", func(t *testing.T) {
		result := RenderChanges(nil, []string{"Shield"}, nil)
		assert.Contains(t, result, "Removed:")
		assert.Contains(t, result, "Shield")
		assert.Contains(t, result, "1 removed")
	})

	t.Run("modified with detail", func(t *testing.T) {
		result := RenderChanges(nil, nil, []ModifiedItem{
			{Name: "Health", Detail: []string{"interfaces: [Combat] -> []"}},
		})
		assert.Contains(t, result, "Modified:")
		assert.Contains(t, result, "Health")
		assert.Contains(t, result, "interfaces: [Combat] -> []")
		assert.Contains(t, result, "1 modified")
	})
}

func TestChangeSummary(t *testing.T) {
	tests := []struct {
		added, removed, modified int
		want                     string
	}{
		{0, 0, 0, "No changes"},
		{1, 0, 0, "1 added"},
		{0, 2, 0, "2 removed"},
		{1, 2, 3, "1 added, 2 removed, 3 modified"},
		{0, 1, 12, "1 removed, 12 modified"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ChangeSummary(tt.added, tt.removed, tt.modified))
		})
	}
}
