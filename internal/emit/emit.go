// Package emit writes the generated declaration file and per-document stubs.
package emit

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	timefmt "github.com/itchyny/timefmt-go"

	"github.com/declgen/declgen/infer"
)

// DeclarationsFile is the name of the shared declarations file inside the
// output directory.
const DeclarationsFile = "declarations.ts"

// Emitter writes output files under one output directory. All stubs of a run
// share a single timestamp.
type Emitter struct {
	outDir string
	now    time.Time
}

// New creates an Emitter rooted at outDir.
func New(outDir string) *Emitter {
	return &Emitter{outDir: outDir, now: time.Now()}
}

// Header returns the generated-file header line.
func Header(now time.Time) string {
	return fmt.Sprintf("// Code generated by declgen at %s UTC. DO NOT EDIT.\n",
		timefmt.Format(now.UTC(), "%Y-%m-%d %H:%M:%S"))
}

// WriteDeclarations writes the shared declarations file.
func (e *Emitter) WriteDeclarations(body string) error {
	return e.writeFile(DeclarationsFile, Header(e.now)+"\n"+body)
}

// WriteStub writes the re-export stub for one document.
func (e *Emitter) WriteStub(docRel string, root infer.Type, r *infer.Renderer) error {
	return e.writeFile(StubPath(docRel), Header(e.now)+"\n"+StubContent(docRel, root, r))
}

// WriteSchemaExport writes the optional OpenAPI export document.
func (e *Emitter) WriteSchemaExport(data []byte) error {
	return e.writeFile("declarations.openapi.yaml", string(data))
}

func (e *Emitter) writeFile(rel, content string) error {
	full := filepath.Join(e.outDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	return nil
}

// StubPath maps a document's relative path to its stub path: the extension is
// replaced by .ts, directories mirror the input tree.
func StubPath(docRel string) string {
	rel := filepath.ToSlash(docRel)
	ext := path.Ext(rel)
	return strings.TrimSuffix(rel, ext) + ".ts"
}

// RelImport computes the import specifier from a stub to the shared
// declarations file (extension stripped, ./ prefix ensured).
func RelImport(stubRel string) string {
	dir := path.Dir(filepath.ToSlash(stubRel))
	if dir == "." {
		return "./declarations"
	}
	depth := strings.Count(dir, "/") + 1
	return strings.Repeat("../", depth) + "declarations"
}

// StubContent renders the stub body. A root that is itself a hoisted shape
// re-exports its alias; any other root gets a local Document alias with the
// referenced names imported.
func StubContent(docRel string, root infer.Type, r *infer.Renderer) string {
	spec := RelImport(StubPath(docRel))

	if root.Kind == infer.TypeReference {
		return fmt.Sprintf("export { %s } from %q;\n", root.Ref.AliasName(), spec)
	}

	refs := infer.CollectRefs(root)
	if len(refs) == 0 {
		return fmt.Sprintf("export type Document = %s;\n", r.TypeExpr(root))
	}

	names := make([]string, 0, len(refs))
	for _, id := range refs {
		names = append(names, id.AliasName())
	}
	return fmt.Sprintf("import { %s } from %q;\n\nexport type Document = %s;\n",
		strings.Join(names, ", "), spec, r.TypeExpr(root))
}
