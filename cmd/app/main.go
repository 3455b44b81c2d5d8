package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/local/pdfmeta/internal/ai"
	cfgpkg "github.com/local/pdfmeta/internal/config"
	"github.com/local/pdfmeta/internal/extract"
	logpkg "github.com/local/pdfmeta/internal/logger"
	"github.com/local/pdfmeta/internal/metrics"
	"github.com/local/pdfmeta/internal/naming"
	"github.com/local/pdfmeta/internal/orchestrator"
	"github.com/local/pdfmeta/internal/placement"
	"github.com/local/pdfmeta/internal/render"
	"github.com/local/pdfmeta/internal/results"
	"github.com/local/pdfmeta/internal/storage"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		maxPages    int
		noCopy      bool
		resultsPath string
	)

	cmd := &cobra.Command{
		Use:          "pdfmeta <source-dir> [output-dir]",
		Short:        "Extract bibliographic metadata from scanned PDFs and file them under canonical names",
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputDir := ""
			if len(args) > 1 {
				outputDir = args[1]
			}
			return run(args[0], outputDir, resultsPath, maxPages, noCopy)
		},
	}

	cmd.Flags().IntVarP(&maxPages, "max-pages", "p", 0, "pages to analyze per PDF (default from MAX_PAGES env, 2)")
	cmd.Flags().BoolVar(&noCopy, "no-copy", false, "extract metadata only, do not copy files")
	cmd.Flags().StringVar(&resultsPath, "results", "", "results JSON path (default <output-dir>/pdf_metadata_results.json)")
	return cmd
}

func run(sourceDir, outputDir, resultsPath string, maxPages int, noCopy bool) error {
	_ = godotenv.Load()
	cfg := cfgpkg.FromEnv()

	_ = logpkg.Init(logpkg.Options{
		Level:        cfg.Logging.Level,
		Pretty:       cfg.Logging.Pretty,
		File:         cfg.Logging.File,
		MaxSizeMB:    cfg.Logging.MaxSizeMB,
		MaxBackups:   cfg.Logging.MaxBackups,
		MaxAgeDays:   cfg.Logging.MaxAgeDays,
		Compress:     cfg.Logging.Compress,
		SendToAxiom:  cfg.Axiom.Send && cfg.Axiom.APIKey != "",
		AxiomAPIKey:  cfg.Axiom.APIKey,
		AxiomOrgID:   cfg.Axiom.OrgID,
		AxiomDataset: cfg.Axiom.Dataset,
		AxiomFlush:   cfg.Axiom.FlushInterval,
	})
	defer logpkg.Close()

	metrics.Init()
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			log.Info().Str("addr", cfg.MetricsAddr).Msg("metrics server listening")
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Error().Err(err).Msg("metrics server error")
			}
		}()
	}

	if maxPages == 0 {
		maxPages = cfg.Render.MaxPages
	}
	if maxPages < 1 {
		return errors.New("max-pages must be at least 1")
	}
	if maxPages > 10 {
		log.Warn().Int("max_pages", maxPages).Msg("analyzing more than 10 pages per pdf is slow and expensive")
	}

	var client ai.Client
	var model string
	switch cfg.AI.Engine {
	case "openai":
		if os.Getenv("OPENAI_API_KEY") == "" {
			return errors.New("OPENAI_API_KEY not set")
		}
		client = ai.NewOpenAIClient()
		model = cfg.AI.OpenAIModel
	case "gemini":
		if os.Getenv("GEMINI_API_KEY") == "" {
			return errors.New("GEMINI_API_KEY not set; create a .env file with GEMINI_API_KEY=your-api-key")
		}
		client = ai.NewGeminiClient()
		model = cfg.AI.GeminiModel
	default:
		return fmt.Errorf("unknown AI engine %q", cfg.AI.Engine)
	}

	sourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return err
	}
	if noCopy {
		outputDir = ""
	} else {
		if outputDir == "" {
			return errors.New("output directory required unless --no-copy is set")
		}
		if outputDir, err = filepath.Abs(outputDir); err != nil {
			return err
		}
	}

	if resultsPath == "" {
		if outputDir != "" {
			resultsPath = filepath.Join(outputDir, cfg.Batch.ResultsFile)
		} else {
			resultsPath = filepath.Join(sourceDir, cfg.Batch.ResultsFile)
		}
	}

	namer := naming.NewBuilder(cfg.Batch.MaxFilenameLength)
	store := results.New(resultsPath)
	orch := orchestrator.New(orchestrator.Dependencies{
		Renderer:  render.New(cfg.Render.DPI, cfg.Render.JPEGQuality, cfg.Render.ColorMode),
		Extractor: extract.New(client, model, cfg.Extract, cfg.AI.RequestTimeout),
		Placer:    placement.New(namer),
		Results:   store,
		Pacer:     orchestrator.NewPacer(cfg.Batch.CallInterval),
	})

	ctx := context.Background()
	records := orch.ProcessDirectory(ctx, sourceDir, outputDir, maxPages)
	if records == nil {
		return errors.New("no PDF files processed")
	}

	extracted, copied := 0, 0
	for _, rec := range records {
		if !rec.Failed() {
			extracted++
		}
		if rec.CopyInfo != nil && rec.CopyInfo.Copied {
			copied++
		}
	}
	log.Info().
		Int("processed", len(records)).
		Int("extracted", extracted).
		Int("copied", copied).
		Str("results", resultsPath).
		Msg("extraction complete")

	if cfg.Archive.Bucket != "" && len(records) > 0 {
		archiver, err := storage.NewArchiver(ctx, cfg.Archive.Bucket, cfg.Archive.Prefix)
		if err != nil {
			log.Error().Err(err).Msg("archive disabled")
		} else if url, err := archiver.UploadResults(ctx, resultsPath); err != nil {
			log.Error().Err(err).Msg("failed to archive results")
		} else {
			log.Info().Str("url", url).Msg("results archived")
		}
	}

	return nil
}
