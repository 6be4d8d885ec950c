package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type encodeSample struct {
	Name  string   `json:"name" yaml:"name"`
	Bases []string `json:"bases" yaml:"bases"`
}

func TestEncode(t *testing.T) {
	v := encodeSample{Name: "Leaf", Bases: []string{"Derived", "Base"}}

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, FormatYAML, v))
		assert.Equal(t, "name: Leaf\nbases:\n  - Derived\n  - Base\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, FormatJSON, v))
		assert.JSONEq(t, `{"name":"Leaf","bases":["Derived","Base"]}`, buf.String())
	})

	t.Run("table is rejected", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, Encode(&buf, FormatTable, v))
	})
}
