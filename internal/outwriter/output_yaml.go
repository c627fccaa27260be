package outwriter

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/huangsam/stylemetrics/internal/contract"
	"github.com/huangsam/stylemetrics/schema"
	"github.com/minio/highwayhash"
	"go.yaml.in/yaml/v3"
)

// fingerprintKey is the fixed HighwayHash key. Changing it changes every
// fingerprint ever stored.
var fingerprintKey = []byte("stylemetrics-report-fingerprint!")

// MarshalYAML renders the tree as a YAML document: two-space indentation,
// keys in insertion order, strings double-quoted, numbers and booleans bare.
func MarshalYAML(tree *schema.Tree) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{treeNode(tree)}}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

func treeNode(tree *schema.Tree) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range tree.Entries() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key}
		node.Content = append(node.Content, key, valueNode(e.Value))
	}
	return node
}

func valueNode(v any) *yaml.Node {
	switch val := v.(type) {
	case *schema.Tree:
		return treeNode(val)
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(val)}
	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(val)}
	case schema.Percent, float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: schema.FormatScalar(val)}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: schema.FormatScalar(val), Style: yaml.DoubleQuotedStyle}
	}
}

// Fingerprint hashes the YAML rendering of the tree. Equal trees always
// share a fingerprint.
func Fingerprint(tree *schema.Tree) (string, error) {
	content, err := MarshalYAML(tree)
	if err != nil {
		return "", err
	}
	h, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return "", fmt.Errorf("failed to init fingerprint hash: %w", err)
	}
	_, _ = h.Write(content)
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

// writeReportFile writes the YAML report to path.
func writeReportFile(path string, tree *schema.Tree) error {
	content, err := MarshalYAML(tree)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return err
	}
	contract.LogInfo("💾 Wrote report to %s", path)
	return nil
}
