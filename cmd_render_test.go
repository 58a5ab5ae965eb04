package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunRender(t *testing.T) {
	doc := writeFile(t, "doc.json", `[
		{"id":"hello","type":"text","props":{"text":"Hello {name}"}},
		{"id":"go","type":"text","props":{"text":"Go"},"action":{"type":"navigate","destination":"next"}}
	]`)
	vars := writeFile(t, "vars.json", `{"name":"Ada"}`)

	var out bytes.Buffer
	require.NoError(t, runRender(&out, &renderOptions{docFile: doc, varsFile: vars, taps: []string{"go"}, format: "json"}))
	var res map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	views := res["views"].([]any)
	require.Equal(t, "Hello Ada", views[0].(map[string]any)["text"])
	require.Equal(t, "next", res["intents"].([]any)[0].(map[string]any)["destination"])

	out.Reset()
	require.NoError(t, runRender(&out, &renderOptions{docFile: doc, hidden: []string{"go"}, format: "html"}))
	require.Contains(t, out.String(), "Hello ")
	require.NotContains(t, out.String(), `data-id="go"`)

	require.Error(t, runRender(&out, &renderOptions{docFile: doc, format: "pdf"}))
	require.Error(t, runRender(&out, &renderOptions{docFile: doc, taps: []string{"missing"}, format: "json"}))
}
