package probe

import (
	"context"
	"testing"

	"github.com/huangsam/stylemetrics/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		present  bool
		want     *schema.Tree
	}{
		{
			name: "missing manifest",
			want: schema.NewTree(schema.E("composer_json", "not_found")),
		},
		{
			name:     "full manifest",
			present:  true,
			manifest: `{"name":"acme/app","type":"library","require":{"php":"^8.2","ext-json":"*"}}`,
			want: schema.NewTree(
				schema.E("name", "acme/app"),
				schema.E("php_version", "^8.2"),
				schema.E("type", "library"),
			),
		},
		{
			name:     "sparse manifest",
			present:  true,
			manifest: `{"name":"acme/app"}`,
			want: schema.NewTree(
				schema.E("name", "acme/app"),
				schema.E("php_version", "unknown"),
				schema.E("type", "unknown"),
			),
		},
		{
			name:     "invalid json",
			present:  true,
			manifest: `{not json`,
			want: schema.NewTree(
				schema.E("name", "unknown"),
				schema.E("php_version", "unknown"),
				schema.E("type", "unknown"),
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			if tt.present {
				writeFile(t, root, ManifestFile, tt.manifest)
			}
			got, err := Project(context.Background(), NewReader(), root)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
