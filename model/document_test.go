package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocumentValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"unique ids", `[{"id":"a","type":"vstack","children":[{"id":"b","type":"text"}]}]`, ""},
		{"missing id", `[{"id":"a","type":"vstack","children":[{"type":"text"}]}]`, "has no id"},
		{"duplicate under container", `[{"id":"a","type":"vstack","children":[{"id":"a","type":"text"}]}]`, "a is duplicate"},
		{"duplicate under legacy type", `[{"id":"x","type":"text"},{"id":"btn","type":"button","children":[{"id":"x","type":"text"}]}]`, "x is duplicate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc Document
			require.NoError(t, json.Unmarshal([]byte(tt.doc), &doc))
			err := doc.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestElementTypeIsLeaf(t *testing.T) {
	require.True(t, ELEMENT_TEXT.IsLeaf())
	require.True(t, ELEMENT_DIVIDER.IsLeaf())
	require.False(t, ELEMENT_VSTACK.IsLeaf())
	require.False(t, ElementType("button").IsLeaf())
}
