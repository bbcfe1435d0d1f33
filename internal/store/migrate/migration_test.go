package migrate

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedded(t *testing.T) {
	migrations, err := Embedded()
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, int64(1), migrations[0].Version)
	assert.Equal(t, "create_catalog", migrations[0].Name)
	assert.Contains(t, migrations[0].Up, "CREATE TABLE parameters")
	assert.Contains(t, migrations[0].Up, "ON DELETE CASCADE")
	assert.NotEmpty(t, migrations[0].Down)

	assert.Equal(t, "seed_parameter_types", migrations[1].Name)
	for _, tag := range []string{"string", "number", "integer", "boolean", "object", "array", "file"} {
		assert.Contains(t, migrations[1].Up, "('"+tag+"')")
	}
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"0010_add_tags.up.sql":   {Data: []byte("ALTER TABLE components ADD COLUMN tags TEXT;")},
		"0002_second.up.sql":     {Data: []byte("SELECT 2;")},
		"0002_second.down.sql":   {Data: []byte("SELECT -2;")},
		"README.md":              {Data: []byte("ignored")},
		"0010_add_tags.down.sql": {Data: []byte("ALTER TABLE components DROP COLUMN tags;")},
	}

	migrations, err := Load(fsys)
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, int64(2), migrations[0].Version)
	assert.Equal(t, "SELECT -2;", migrations[0].Down)
	assert.Equal(t, int64(10), migrations[1].Version)
	assert.Equal(t, "add_tags", migrations[1].Name)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
		want string
	}{
		{
			name: "no direction",
			fsys: fstest.MapFS{"0001_init.sql": {Data: []byte("SELECT 1;")}},
			want: "expected .up.sql or .down.sql",
		},
		{
			name: "bad version",
			fsys: fstest.MapFS{"one_init.up.sql": {Data: []byte("SELECT 1;")}},
			want: "invalid version",
		},
		{
			name: "down only",
			fsys: fstest.MapFS{"0001_init.down.sql": {Data: []byte("SELECT 1;")}},
			want: "has no up SQL",
		},
		{
			name: "conflicting names",
			fsys: fstest.MapFS{
				"0001_init.up.sql": {Data: []byte("SELECT 1;")},
				"0001_other.up.sql": {Data: []byte("SELECT 1;")},
			},
			want: "has two names",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.fsys)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
