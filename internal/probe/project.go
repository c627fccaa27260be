package probe

import (
	"context"
	"encoding/json"
	"path/filepath"

	"github.com/huangsam/stylemetrics/schema"
)

// ManifestFile is the package manifest read for project metadata.
const ManifestFile = "composer.json"

// manifest holds the keys read from the package manifest.
type manifest struct {
	Name    string            `json:"name"`
	Type    string            `json:"type"`
	Require map[string]string `json:"require"`
}

// Project reads name, language version constraint and type from the
// manifest. A missing manifest yields {composer_json: "not_found"}; an
// unparsable one yields "unknown" for every key.
func Project(ctx context.Context, reader Reader, root string) (*schema.Tree, error) {
	path := filepath.Join(root, ManifestFile)
	ok, err := reader.Exists(ctx, path)
	if err == nil && ok {
		var content []byte
		content, err = reader.Read(ctx, path)
		if err == nil {
			return projectTree(content), nil
		}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	return schema.NewTree(schema.E("composer_json", schema.ManifestMissing)), nil
}

func projectTree(content []byte) *schema.Tree {
	var m manifest
	_ = json.Unmarshal(content, &m) // partial decodes keep whatever parsed

	return schema.NewTree(
		schema.E("name", orUnknown(m.Name)),
		schema.E("php_version", orUnknown(m.Require["php"])),
		schema.E("type", orUnknown(m.Type)),
	)
}

func orUnknown(s string) string {
	if s == "" {
		return schema.UnknownValue
	}
	return s
}
