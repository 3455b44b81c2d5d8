package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/local/pdfmeta/internal/metadata"
	"github.com/local/pdfmeta/internal/metrics"
	"github.com/local/pdfmeta/internal/render"
)

// Renderer rasterizes the leading pages of a PDF; an empty result means
// the file could not be rendered.
type Renderer interface {
	Pages(path string, maxPages int) []render.Page
}

// Extractor produces a metadata record for one file's page images.
type Extractor interface {
	Extract(ctx context.Context, pages []render.Page, filename string, maxPages int) metadata.Record
}

// Placer copies one source PDF into the output directory.
type Placer interface {
	Place(sourcePath string, rec metadata.Record, outputDir string) metadata.Placement
}

// ResultStore persists one record per processed file.
type ResultStore interface {
	Append(rec metadata.Record) error
}

type Dependencies struct {
	Renderer  Renderer
	Extractor Extractor
	Placer    Placer
	Results   ResultStore
	Pacer     *Pacer
}

// Orchestrator sequences per-file processing across a directory:
// render, extract, place, persist, with paced model calls.
type Orchestrator struct {
	deps Dependencies
}

func New(deps Dependencies) *Orchestrator {
	if deps.Pacer == nil {
		deps.Pacer = NewPacer(0)
	}
	return &Orchestrator{deps: deps}
}

// ProcessFile handles a single PDF: render to images, extract metadata,
// and, when outputDir is set and extraction succeeded, copy the file under
// its derived name. Always returns exactly one record.
func (o *Orchestrator) ProcessFile(ctx context.Context, pdfPath, outputDir string, maxPages int) metadata.Record {
	if pdfPath == "" {
		return metadata.ErrorRecord("Invalid PDF path provided", "unknown")
	}
	filename := filepath.Base(pdfPath)
	if maxPages < 1 {
		return metadata.ErrorRecord("max_pages must be at least 1", filename)
	}

	log.Info().Str("file", filename).Msg("processing pdf")

	pages := o.deps.Renderer.Pages(pdfPath, maxPages)
	if len(pages) == 0 {
		return metadata.ErrorRecord("Failed to convert PDF to images", filename)
	}

	rec := o.deps.Extractor.Extract(ctx, pages, filename, maxPages)

	if outputDir != "" && !rec.Failed() && o.deps.Placer != nil {
		pl := o.deps.Placer.Place(pdfPath, rec, outputDir)
		rec.CopyInfo = &pl
		if pl.Copied {
			rec.OutputFilename = pl.OutputFilename
			metrics.IncCopied()
		} else {
			log.Warn().Str("file", filename).Str("error", pl.Error).Msg("copy failed")
		}
	}

	return rec
}

// ProcessDirectory processes every PDF in sourceDir in discovery order.
// Validation failures short-circuit with an empty result; per-file
// failures never abort the batch. Each record is persisted as soon as its
// file finishes.
func (o *Orchestrator) ProcessDirectory(ctx context.Context, sourceDir, outputDir string, maxPages int) []metadata.Record {
	if sourceDir == "" {
		log.Error().Msg("invalid source directory")
		return nil
	}
	if maxPages < 1 {
		log.Error().Int("max_pages", maxPages).Msg("max_pages must be at least 1")
		return nil
	}
	info, err := os.Stat(sourceDir)
	if err != nil {
		log.Error().Str("dir", sourceDir).Err(err).Msg("source directory does not exist")
		return nil
	}
	if !info.IsDir() {
		log.Error().Str("dir", sourceDir).Msg("source path is not a directory")
		return nil
	}

	files, err := discoverPDFs(sourceDir)
	if err != nil {
		log.Error().Str("dir", sourceDir).Err(err).Msg("cannot read source directory")
		return nil
	}
	if len(files) == 0 {
		log.Info().Str("dir", sourceDir).Msg("no pdf files found")
		return []metadata.Record{}
	}

	runID := uuid.NewString()
	blog := log.With().Str("run_id", runID).Logger()
	blog.Info().
		Int("files", len(files)).
		Str("source", sourceDir).
		Str("output", outputDir).
		Int("max_pages", maxPages).
		Msg("batch started")

	records := make([]metadata.Record, 0, len(files))
	for i, name := range files {
		o.deps.Pacer.Wait()
		start := o.deps.Pacer.Now()

		rec := o.ProcessFile(ctx, filepath.Join(sourceDir, name), outputDir, maxPages)
		o.deps.Pacer.Charge(start, !rec.Failed())
		records = append(records, rec)
		metrics.IncProcessed(resultLabel(rec))

		if o.deps.Results != nil {
			if err := o.deps.Results.Append(rec); err != nil {
				blog.Warn().Str("file", rec.SourceFilename).Err(err).Msg("failed to persist result")
			}
		}

		blog.Info().
			Int("done", i+1).
			Int("total", len(files)).
			Str("file", rec.SourceFilename).
			Str("result", resultLabel(rec)).
			Msg("file processed")
	}

	blog.Info().Int("files", len(records)).Msg("batch finished")
	return records
}

// discoverPDFs lists regular *.pdf files (case-insensitive, non-recursive)
// in directory order. Files whose content is not actually PDF are still
// processed, they just fail at render time with a clear record.
func discoverPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if mtype, err := mimetype.DetectFile(path); err == nil && !mtype.Is("application/pdf") {
			log.Warn().Str("file", entry.Name()).Str("mime", mtype.String()).Msg("file extension says pdf but content does not")
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}

func resultLabel(rec metadata.Record) string {
	switch {
	case rec.Failed():
		return "error"
	case rec.ParseError != "":
		return "fallback"
	default:
		return "extracted"
	}
}
