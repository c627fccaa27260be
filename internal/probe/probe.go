// Package probe locates well-known tool configuration files and extracts
// named fields from them.
package probe

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"

	"github.com/huangsam/stylemetrics/schema"
	"github.com/viant/afs"
)

// FieldKind selects how a field is extracted from file content.
type FieldKind int

// Supported field kinds.
const (
	Capture  FieldKind = iota // first capture group of Pattern, or Default
	Presence                  // whether Substring occurs
	Tally                     // number of non-overlapping Substring occurrences
)

// Field is one named value extracted from a config file.
type Field struct {
	Name      string
	Kind      FieldKind
	Pattern   *regexp.Regexp
	Substring string
	Default   string
}

// Probe describes a configuration file with ordered candidate names.
type Probe struct {
	ID          string
	Description string
	Candidates  []string
	Fields      []Field
	Conclude    func(fields *schema.Tree) string // optional
}

// Reader is the file access a probe needs.
type Reader interface {
	Exists(ctx context.Context, path string) (bool, error)
	Read(ctx context.Context, path string) ([]byte, error)
}

// afsReader reads files through the abstract file storage service.
type afsReader struct {
	fs afs.Service
}

// NewReader returns a Reader backed by viant/afs.
func NewReader() Reader {
	return &afsReader{fs: afs.New()}
}

func (r *afsReader) Exists(ctx context.Context, path string) (bool, error) {
	return r.fs.Exists(ctx, path)
}

func (r *afsReader) Read(ctx context.Context, path string) ([]byte, error) {
	return r.fs.DownloadWithURL(ctx, path)
}

// Run resolves the first existing candidate under root and extracts every
// declared field. When no candidate can be read the result is exactly
// {found: false}.
func (p Probe) Run(ctx context.Context, reader Reader, root string) (*schema.Tree, error) {
	for _, name := range p.Candidates {
		path := filepath.Join(root, name)
		ok, err := reader.Exists(ctx, path)
		if err != nil || !ok {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			continue
		}
		content, err := reader.Read(ctx, path)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			continue
		}
		return p.Extract(filepath.Base(path), content), nil
	}
	return schema.NewTree(schema.E(schema.KeyFound, false)), nil
}

// Extract builds the found result for already-loaded content.
func (p Probe) Extract(file string, content []byte) *schema.Tree {
	tree := schema.NewTree(
		schema.E(schema.KeyFound, true),
		schema.E(schema.KeyFile, file),
	)
	for _, f := range p.Fields {
		tree = tree.With(f.Name, f.value(content))
	}
	if p.Conclude != nil {
		tree = tree.With(schema.KeyConclusion, p.Conclude(tree))
	}
	return tree
}

func (f Field) value(content []byte) any {
	switch f.Kind {
	case Presence:
		return bytes.Contains(content, []byte(f.Substring))
	case Tally:
		return bytes.Count(content, []byte(f.Substring))
	default:
		if f.Pattern != nil {
			if m := f.Pattern.FindSubmatch(content); len(m) > 1 {
				return string(m[1])
			}
		}
		return f.Default
	}
}

// Info describes the probe for listings.
func (p Probe) Info() schema.RuleInfo {
	return schema.RuleInfo{
		Kind:        "probe",
		ID:          p.ID,
		Mode:        "first-candidate",
		Description: p.Description,
		Patterns:    append([]string(nil), p.Candidates...),
	}
}
