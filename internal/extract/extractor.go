package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/local/pdfmeta/internal/ai"
	"github.com/local/pdfmeta/internal/config"
	"github.com/local/pdfmeta/internal/metadata"
	"github.com/local/pdfmeta/internal/metrics"
	"github.com/local/pdfmeta/internal/render"
)

const extractionPrompt = `Analyze this academic paper/document and extract the following information in JSON format:

{
    "title": "Full title of the paper/article",
    "author": "Author name(s) - include all authors if multiple",
    "year": "Year of publication",
    "source_filename": "The filename this data was extracted from"
}

Instructions:
- Look for the title, usually prominently displayed at the top
- Find author information, which might be below the title or in a byline
- Look for publication year, which might be in various formats (©2015, 2015, etc.)
- If multiple authors, include all of them
- If you cannot find specific information, use "Not found" for that field
- Return only valid JSON, no additional text

Analyze carefully and extract the most accurate information possible.`

// Extractor turns rendered page images into a metadata Record through one
// vision model, retrying rate-limited and transient failures with
// exponential backoff.
type Extractor struct {
	client ai.Client
	model  string

	maxAttempts    int
	rateLimitDelay time.Duration
	transientDelay time.Duration
	transientCap   time.Duration
	timeout        time.Duration

	sleep func(time.Duration)
}

func New(client ai.Client, model string, cfg config.ExtractConfig, timeout time.Duration) *Extractor {
	e := &Extractor{
		client:         client,
		model:          model,
		maxAttempts:    cfg.MaxAttempts,
		rateLimitDelay: cfg.RateLimitDelay,
		transientDelay: cfg.TransientDelay,
		transientCap:   cfg.TransientCap,
		timeout:        timeout,
		sleep:          time.Sleep,
	}
	if e.maxAttempts <= 0 {
		e.maxAttempts = 3
	}
	if e.rateLimitDelay <= 0 {
		e.rateLimitDelay = 60 * time.Second
	}
	if e.transientDelay <= 0 {
		e.transientDelay = 5 * time.Second
	}
	if e.transientCap <= 0 {
		e.transientCap = 60 * time.Second
	}
	if e.timeout <= 0 {
		e.timeout = 120 * time.Second
	}
	return e
}

// Extract submits up to maxPages page images plus the extraction
// instruction and normalizes whatever comes back into a Record. It never
// returns an error: failures surface as error-branch or fallback records.
func (e *Extractor) Extract(ctx context.Context, pages []render.Page, filename string, maxPages int) metadata.Record {
	if len(pages) == 0 {
		return metadata.ErrorRecord("No images to process", filename)
	}
	if maxPages > 0 && len(pages) > maxPages {
		pages = pages[:maxPages]
	}

	req := ai.Request{Model: e.model, Prompt: extractionPrompt}
	for _, p := range pages {
		req.Images = append(req.Images, ai.Image{MIME: p.MIME, Base64: p.Base64()})
	}

	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		cctx, cancel := context.WithTimeout(ctx, e.timeout)
		start := time.Now()
		resp, err := e.client.Do(cctx, req)
		cancel()

		if err == nil {
			metrics.ObserveProvider(e.client.Name(), e.model, "success", time.Since(start))
			return parseResponse(resp.Text, filename)
		}
		metrics.ObserveProvider(e.client.Name(), e.model, "error", time.Since(start))

		class := classify(err)
		if class == classFatal {
			return metadata.ErrorRecord(fmt.Sprintf("API call failed: %v", err), filename)
		}

		var delay time.Duration
		switch class {
		case classRateLimit:
			delay = e.rateLimitDelay * (1 << attempt)
		case classTransient:
			delay = e.transientDelay * (1 << attempt)
			if delay > e.transientCap {
				delay = e.transientCap
			}
		}

		if attempt == e.maxAttempts-1 {
			return metadata.ErrorRecord(
				fmt.Sprintf("%s exceeded after %d attempts: %v", class.label(), e.maxAttempts, err), filename)
		}

		log.Warn().
			Str("file", filename).
			Str("class", class.metricLabel()).
			Int("attempt", attempt+1).
			Int("max_attempts", e.maxAttempts).
			Dur("delay", delay).
			Err(err).
			Msg("model call failed, backing off")
		metrics.IncRetry(class.metricLabel())
		e.sleep(delay)
	}

	return metadata.ErrorRecord(fmt.Sprintf("Failed after %d attempts", e.maxAttempts), filename)
}
