package testutil

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Placeholder replaces redacted values in golden output.
const Placeholder = "<any string>"

var update = flag.Bool("update", false, "rewrite golden files in testdata")

// AssertGoldenJSON compares got, encoded as JSON, with testdata/<name>.golden.json.
// Top-level keys listed in redact must hold a non-empty string and are
// replaced by Placeholder before comparing. Run with -update to rewrite.
func AssertGoldenJSON(t *testing.T, name string, got any, redact ...string) {
	t.Helper()

	raw, err := json.Marshal(got)
	require.NoError(t, err)

	if len(redact) > 0 {
		var fields map[string]any
		require.NoError(t, json.Unmarshal(raw, &fields), "redaction needs a JSON object")
		for _, key := range redact {
			s, ok := fields[key].(string)
			require.True(t, ok && s != "", "field %q should be a non-empty string", key)
			fields[key] = Placeholder
		}
		raw, err = json.Marshal(fields)
		require.NoError(t, err)
	}

	path := filepath.Join("testdata", name+".golden.json")
	if *update {
		var pretty any
		require.NoError(t, json.Unmarshal(raw, &pretty))
		out, err := json.MarshalIndent(pretty, "", "  ")
		require.NoError(t, err)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, append(out, '\n'), 0o644))
	}

	want, err := os.ReadFile(path)
	require.NoError(t, err, "golden file missing, run with -update")
	assert.JSONEq(t, string(want), string(raw))
}

// AssertGoldenText compares got with testdata/<name>.golden byte for byte.
func AssertGoldenText(t *testing.T, name, got string) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")
	if *update {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(got), 0o644))
	}

	want, err := os.ReadFile(path)
	require.NoError(t, err, "golden file missing, run with -update")
	assert.Equal(t, string(want), got)
}
