package provision

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "yaml", want: FormatYAML},
		{in: "YML", want: FormatYAML},
		{in: "json", want: FormatJSON},
		{in: "toml", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("request.JSON"))
	assert.Equal(t, FormatYAML, FormatFromPath("request.yml"))
	assert.Equal(t, FormatYAML, FormatFromPath("request"))
}

func TestEncodeJSONShape(t *testing.T) {
	req := BuildRequest(Principal{UserName: "movieapp", Password: "s3cret", Database: "movies"})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, req, FormatJSON))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, map[string]any{
		"user": "movieapp",
		"pwd":  "s3cret",
		"roles": []any{
			map[string]any{"role": "readWrite", "db": "movies"},
		},
	}, doc)
}

func TestEncodeYAMLShape(t *testing.T) {
	req := BuildRequest(Principal{UserName: "movieapp", Password: "s3cret", Database: "movies"}).Redacted()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, req, FormatYAML))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "movieapp", doc["user"])
	assert.Equal(t, "********", doc["pwd"])
	assert.NotContains(t, buf.String(), "s3cret")
}

func TestEncodeUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Encode(&buf, Request{}, Format("xml")))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	req := BuildRequest(Principal{UserName: "movieapp", Password: "s3cret", Database: "movies"})

	require.NoError(t, WriteFile(path, req, ""))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Request
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, req, got)
}

func TestWriteFileExplicitFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.yaml")
	req := BuildRequest(Principal{UserName: "movieapp", Password: "s3cret", Database: "movies"})

	require.NoError(t, WriteFile(path, req, FormatJSON))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Request
	require.NoError(t, json.Unmarshal(data, &got), "explicit format wins over the extension")
	assert.Equal(t, req, got)
}
