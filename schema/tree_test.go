package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeWithIsImmutable(t *testing.T) {
	base := NewTree(E("a", 1))
	extended := base.With("b", "two")

	assert.Equal(t, []string{"a"}, base.Keys())
	assert.Equal(t, []string{"a", "b"}, extended.Keys())

	replaced := extended.With("a", 10)
	assert.Equal(t, []string{"a", "b"}, replaced.Keys(), "replacing keeps position")
	v, _ := replaced.Int("a")
	assert.Equal(t, 10, v)
	v, _ = extended.Int("a")
	assert.Equal(t, 1, v)
}

func TestTreeNilReceiver(t *testing.T) {
	var tr *Tree
	assert.Equal(t, 0, tr.Len())
	assert.False(t, tr.Has("x"))
	assert.Nil(t, tr.Keys())

	grown := tr.With("x", true)
	assert.Equal(t, 1, grown.Len())
}

func TestTreeAccessors(t *testing.T) {
	tr := NewTree(
		E("count", 3),
		E("label", "mixed"),
		E("nested", NewTree(E("ok", true))),
	)

	tests := []struct {
		name string
		run  func() bool
	}{
		{"int present", func() bool { v, ok := tr.Int("count"); return ok && v == 3 }},
		{"int wrong type", func() bool { _, ok := tr.Int("label"); return !ok }},
		{"text present", func() bool { v, ok := tr.Text("label"); return ok && v == "mixed" }},
		{"sub present", func() bool { s, ok := tr.Sub("nested"); return ok && s.Has("ok") }},
		{"sub wrong type", func() bool { _, ok := tr.Sub("count"); return !ok }},
		{"missing", func() bool { _, ok := tr.Get("nope"); return !ok }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.run())
		})
	}
}

func TestTreeMarshalJSONKeepsOrder(t *testing.T) {
	tr := NewTree(
		E("zeta", 1),
		E("alpha", NewTree(E("pct", NewPercent(25)), E("flag", false))),
		E("mid", "x"),
	)

	data, err := json.Marshal(tr)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":{"pct":25.00,"flag":false},"mid":"x"}`, string(data))
}

func TestNewPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{100, "100.00"},
		{25, "25.00"},
		{100.0 / 3, "33.33"},
		{200.0 / 3, "66.67"},
		{0, "0.00"},
		{12.345, "12.35"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPercent(tt.in).String())
		})
	}
}

func TestFlatten(t *testing.T) {
	tr := NewTree(
		E("files", NewTree(E("php_files", 4))),
		E("strict_types", NewTree(E("coverage_percent", NewPercent(25)), E("conclusion", PartiallyAdopted))),
		E("phpstan", NewTree(E("found", false))),
	)

	got := Flatten(tr)
	want := []FlatValue{
		{Path: "files.php_files", Kind: KindInt, Value: "4"},
		{Path: "strict_types.coverage_percent", Kind: KindPercent, Value: "25.00"},
		{Path: "strict_types.conclusion", Kind: KindString, Value: PartiallyAdopted},
		{Path: "phpstan.found", Kind: KindBool, Value: "false"},
	}
	assert.Equal(t, want, got)
}

func TestSourceTreePaths(t *testing.T) {
	st := SourceTree{RootPath: "/repo", SourceSubdir: "src", TestSubdir: "tests"}
	assert.Equal(t, "/repo/src", st.SourcePath())
	assert.Equal(t, "/repo/tests", st.TestPath())
}
