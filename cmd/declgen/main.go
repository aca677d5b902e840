// Command declgen infers deduplicated type declarations from a directory of
// sample JSON (or YAML) documents and writes a shared declarations file plus
// one re-export stub per document.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/declgen/declgen/infer"
	"github.com/declgen/declgen/internal/config"
	"github.com/declgen/declgen/internal/emit"
	"github.com/declgen/declgen/internal/filter"
	"github.com/declgen/declgen/internal/logging"
	"github.com/declgen/declgen/internal/report"
)

const usage = `Usage: declgen INPUT-DIR OUTPUT-DIR

Infers structural type declarations from the *.json, *.yaml and *.yml sample
documents under INPUT-DIR. Structurally identical shapes across all documents
share one declaration. Writes declarations.ts plus one re-export stub per
document into OUTPUT-DIR, mirroring the input tree.

Options:
  -h, --help    show this help and exit

Environment:
  DECLGEN_FILTER          jq expression applied to each document before inference
  DECLGEN_WORKERS         parse parallelism (default 8)
  DECLGEN_SCHEMA_EXPORT   also write declarations.openapi.yaml (default off)
  DECLGEN_COLOR           auto|always|never for the warning report (default auto)
  LOG_LEVEL, LOG_FILE     logging (see also LOG_MAX_SIZE_MB, LOG_MAX_BACKUPS,
                          LOG_MAX_AGE_DAYS, LOG_COMPRESS)
`

func main() {
	args := os.Args[1:]
	for _, a := range args {
		if a == "-h" || a == "--help" {
			fmt.Print(usage)
			os.Exit(0)
		}
	}
	if len(args) != 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cfg := config.Load()
	cleanup, err := logging.Setup(logging.Config{
		Level:      cfg.LogLevel,
		FilePath:   cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "declgen: failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := run(context.Background(), cfg, args[0], args[1]); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

// document is one parsed input. The jq pre-filter may yield several values
// for a single file; their types unify into the document's root type.
type document struct {
	rel    string
	values []infer.Value
}

func run(ctx context.Context, cfg *config.Config, inDir, outDir string) error {
	files, err := collectInputs(inDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no input documents under %s", inDir)
	}

	var flt *filter.Filter
	if cfg.Filter != "" {
		if flt, err = filter.New(cfg.Filter); err != nil {
			return err
		}
		slog.Info("using jq pre-filter", "expr", cfg.Filter)
	}

	// Parsing is embarrassingly parallel; conversion below stays a single
	// serialized writer, which dedup correctness depends on.
	docs := make([]document, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i, rel := range files {
		g.Go(func() error {
			data, err := os.ReadFile(filepath.Join(inDir, filepath.FromSlash(rel)))
			if err != nil {
				return err
			}
			values, err := parseDocument(rel, data, flt)
			if err != nil {
				return err
			}
			docs[i] = document{rel: rel, values: values}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	conv := infer.NewConverter(infer.Options{Logger: slog.Default()})
	roots := make([]infer.Type, len(docs))
	for i, d := range docs {
		for k, v := range d.values {
			label := d.rel
			if len(d.values) > 1 {
				label = fmt.Sprintf("%s#%d", d.rel, k)
			}
			t := conv.Convert(v, label)
			if k == 0 {
				roots[i] = t
			} else {
				roots[i] = conv.Unify(roots[i], t, d.rel)
			}
		}
	}

	cache := conv.Cache()
	renderer := infer.NewRenderer(cache, roots)

	em := emit.New(outDir)
	if err := em.WriteDeclarations(renderer.RenderAll()); err != nil {
		return err
	}
	for i, d := range docs {
		if err := em.WriteStub(d.rel, roots[i], renderer); err != nil {
			return err
		}
	}

	if cfg.SchemaExport {
		data, warnings, err := infer.ExportOpenAPI(ctx, cache, renderer, slog.Default())
		if err != nil {
			return err
		}
		for _, w := range warnings {
			slog.Warn(w)
		}
		if err := em.WriteSchemaExport(data); err != nil {
			return err
		}
	}

	warnings := unresolvedWarnings(renderer, docs, roots)
	report.Print(os.Stderr, warnings, cfg.Color)

	slog.Info("done", "documents", len(docs), "declarations", cache.Len(), "warnings", len(warnings))
	return nil
}

// unresolvedWarnings collects every unresolved-array finding. Declaration-
// backed shapes report under their alias with full provenance; a document
// whose root never hoists (a bare [] or a nesting like [[]]) has no
// declaration to carry the finding, so it reports under its document path.
// ContainsUnknownArray does not follow references, which keeps the two lists
// disjoint.
func unresolvedWarnings(renderer *infer.Renderer, docs []document, roots []infer.Type) []report.Warning {
	var warnings []report.Warning
	for _, d := range renderer.UnresolvedArrays() {
		warnings = append(warnings, report.Warning{Name: d.ID.AliasName(), Contexts: d.Contexts})
	}
	for i, d := range docs {
		if infer.ContainsUnknownArray(roots[i]) {
			warnings = append(warnings, report.Warning{Name: d.rel, Contexts: []string{d.rel}})
		}
	}
	return warnings
}

// collectInputs lists input documents relative to inDir, slash-separated and
// sorted, so declaration ids are deterministic across runs.
func collectInputs(inDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(inDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".json", ".yaml", ".yml":
		default:
			return nil
		}
		rel, err := filepath.Rel(inDir, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", inDir, err)
	}
	sort.Strings(files)
	return files, nil
}

func parseDocument(rel string, data []byte, flt *filter.Filter) ([]infer.Value, error) {
	isYAML := strings.HasSuffix(rel, ".yaml") || strings.HasSuffix(rel, ".yml")

	if flt == nil {
		var v infer.Value
		var err error
		if isYAML {
			v, err = infer.ParseYAML(data)
		} else {
			v, err = infer.ParseJSON(data)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rel, err)
		}
		return []infer.Value{v}, nil
	}

	// The filter runs on the dynamic representation jq understands; key
	// order is lost here, so filtered field contexts are alphabetical.
	var input any
	var err error
	if isYAML {
		err = yaml.Unmarshal(data, &input)
	} else {
		err = json.Unmarshal(data, &input)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rel, err)
	}

	outs, err := flt.Apply(input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rel, err)
	}
	if len(outs) == 0 {
		return nil, fmt.Errorf("%s: jq filter yielded no values", rel)
	}

	values := make([]infer.Value, 0, len(outs))
	for _, out := range outs {
		v, err := infer.ValueFromAny(out)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rel, err)
		}
		values = append(values, v)
	}
	return values, nil
}
