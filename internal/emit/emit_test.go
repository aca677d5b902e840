package emit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declgen/declgen/infer"
)

func TestStubPath(t *testing.T) {
	assert.Equal(t, "user.ts", StubPath("user.json"))
	assert.Equal(t, "api/orders.ts", StubPath("api/orders.yaml"))
	assert.Equal(t, "a/b/c.ts", StubPath("a/b/c.yml"))
}

func TestRelImport(t *testing.T) {
	assert.Equal(t, "./declarations", RelImport("user.ts"))
	assert.Equal(t, "../declarations", RelImport("api/orders.ts"))
	assert.Equal(t, "../../declarations", RelImport("a/b/c.ts"))
}

func TestHeader(t *testing.T) {
	now := time.Date(2026, 8, 23, 14, 5, 0, 0, time.UTC)
	assert.Equal(t, "// Code generated by declgen at 2026-08-23 14:05:00 UTC. DO NOT EDIT.\n", Header(now))
}

func TestStubContent_ReferenceRoot(t *testing.T) {
	c := infer.NewConverter(infer.DefaultOptions())
	root := c.Convert(parse(t, `{"a": 1}`), "user.json")
	r := infer.NewRenderer(c.Cache(), []infer.Type{root})

	got := StubContent("user.json", root, r)
	assert.Equal(t, "export { T0 } from \"./declarations\";\n", got)
}

func TestStubContent_PrimitiveRoot(t *testing.T) {
	c := infer.NewConverter(infer.DefaultOptions())
	root := c.Convert(parse(t, `42`), "n.json")
	r := infer.NewRenderer(c.Cache(), []infer.Type{root})

	got := StubContent("n.json", root, r)
	assert.Equal(t, "export type Document = number;\n", got)
}

func TestStubContent_ArrayRootImportsRefs(t *testing.T) {
	c := infer.NewConverter(infer.DefaultOptions())
	root := c.Convert(parse(t, `[{"a": 1}]`), "api/list.json")
	r := infer.NewRenderer(c.Cache(), []infer.Type{root})

	got := StubContent("api/list.json", root, r)
	assert.Equal(t, "import { T0 } from \"../declarations\";\n\nexport type Document = T0[];\n", got)
}

func TestWriteDeclarations(t *testing.T) {
	dir := t.TempDir()
	e := New(dir)

	require.NoError(t, e.WriteDeclarations("export type T0 = number;\n"))

	data, err := os.ReadFile(filepath.Join(dir, DeclarationsFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "// Code generated by declgen at ")
	assert.Contains(t, string(data), "export type T0 = number;")
}

func TestWriteStub_CreatesNestedDirs(t *testing.T) {
	dir := t.TempDir()
	e := New(dir)

	c := infer.NewConverter(infer.DefaultOptions())
	root := c.Convert(parse(t, `{"a": 1}`), "api/v1/user.json")
	r := infer.NewRenderer(c.Cache(), []infer.Type{root})

	require.NoError(t, e.WriteStub("api/v1/user.json", root, r))

	data, err := os.ReadFile(filepath.Join(dir, "api", "v1", "user.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "export { T0 } from \"../../declarations\";")
}

func parse(t *testing.T, src string) infer.Value {
	t.Helper()
	v, err := infer.ParseJSON([]byte(src))
	require.NoError(t, err)
	return v
}
