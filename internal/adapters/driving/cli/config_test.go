package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCmd_SetTypesValues(t *testing.T) {
	store := newMemStore(nil)
	setup(t, store, nil)

	tests := []struct {
		args []string
		key  string
		want any
		out  string
	}{
		{[]string{"user", "alice@example.com"}, "user", "alice@example.com", "user = alice@example.com\n"},
		{[]string{"rate.burst", "3"}, "rate.burst", int64(3), "rate.burst = 3\n"},
		{[]string{"rate.requests_per_second", "2.5"}, "rate.requests_per_second", 2.5, "rate.requests_per_second = 2.5\n"},
		{[]string{"scopes", "a, b,,c"}, "scopes", []string{"a", "b", "c"}, "scopes = a,b,c\n"},
		{
			[]string{"export_mime_map.application/vnd.google-apps.document", "text/plain"},
			"export_mime_map.application/vnd.google-apps.document", "text/plain",
			"export_mime_map.application/vnd.google-apps.document = text/plain\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			out, err := execute(append([]string{"config", "set"}, tt.args...)...)

			require.NoError(t, err)
			assert.Equal(t, tt.out, out)
			assert.Equal(t, tt.want, store.data[tt.key])
		})
	}
}

func TestConfigCmd_Get(t *testing.T) {
	setup(t, newMemStore(map[string]any{
		"user":   "bob@example.com",
		"scopes": []any{"x", "y"},
	}), nil)

	out, err := execute("config", "get", "user")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com\n", out)

	out, err = execute("config", "get", "scopes")
	require.NoError(t, err)
	assert.Equal(t, "x,y\n", out)

	_, err = execute("config", "get", "missing")
	assert.EqualError(t, err, `config key "missing" is not set`)
}

func TestConfigCmd_List(t *testing.T) {
	setup(t, newMemStore(map[string]any{
		"user":       "bob@example.com",
		"rate.burst": int64(2),
	}), nil)

	out, err := execute("config", "list")

	require.NoError(t, err)
	assert.Equal(t, "rate.burst = 2\nuser = bob@example.com\n", out)
}

func TestConfigCmd_ListEmpty(t *testing.T) {
	setup(t, newMemStore(nil), nil)

	out, err := execute("config", "list")

	require.NoError(t, err)
	assert.Equal(t, "No configuration set.\n", out)
}

func TestConfigCmd_Unset(t *testing.T) {
	store := newMemStore(map[string]any{"user": "bob@example.com"})
	setup(t, store, nil)

	out, err := execute("config", "unset", "user")

	require.NoError(t, err)
	assert.Equal(t, "user unset\n", out)
	assert.Empty(t, store.data)
}

func TestConfigCmd_Path(t *testing.T) {
	w := setup(t, newMemStore(nil), nil)

	out, err := execute("config", "path", "--config-dir", "/custom")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/drive-etl/config.toml\n", out)
	assert.Equal(t, "/custom", w.dir)
}

func TestConfigCmd_NoStore(t *testing.T) {
	setup(t, nil, nil)

	_, err := execute("config", "list")

	assert.EqualError(t, err, "config store not configured")
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, int64(10), parseValue("drive.page_size", "10"))
	assert.Equal(t, 0.5, parseValue("rate.requests_per_second", "0.5"))
	assert.Equal(t, true, parseValue("flag", "true"))
	assert.Equal(t, "text/plain", parseValue("export_mime_map.a/b", "text/plain"))
	assert.Equal(t, "12", parseValue("export_mime_map.a/b", "12"))
	assert.Equal(t, []string{"one"}, parseValue("scopes", "one"))
}
