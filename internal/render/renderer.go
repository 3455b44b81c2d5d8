package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/draw"
	"image/jpeg"
	"os"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rs/zerolog/log"
)

// ColorMode defines the color mode for rendering
type ColorMode string

const (
	ColorRGB  ColorMode = "rgb"
	ColorGray ColorMode = "gray"
)

const largeFileBytes = 100 * 1024 * 1024

// Page is one rendered PDF page ready for model submission.
type Page struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// Base64 returns the page bytes encoded for transport.
func (p Page) Base64() string { return base64.StdEncoding.EncodeToString(p.Data) }

// Renderer rasterizes the leading pages of a PDF to JPEG.
type Renderer struct {
	DPI     int
	Quality int
	Mode    ColorMode
}

func New(dpi, quality int, mode string) *Renderer {
	r := &Renderer{DPI: dpi, Quality: quality, Mode: ColorMode(mode)}
	if r.DPI <= 0 {
		r.DPI = 200
	}
	if r.Quality <= 0 {
		r.Quality = 85
	}
	if r.Mode != ColorGray {
		r.Mode = ColorRGB
	}
	return r
}

// Pages renders up to maxPages leading pages of the PDF at path. It never
// returns an error: every failure mode (missing, empty, encrypted,
// corrupt, unreadable) is logged and yields an empty result, which callers
// treat as a per-file render failure.
func (r *Renderer) Pages(path string, maxPages int) []Page {
	info, err := os.Stat(path)
	if err != nil {
		log.Warn().Str("pdf", path).Err(err).Msg("pdf does not exist or is not accessible")
		return nil
	}
	if info.Size() == 0 {
		log.Warn().Str("pdf", path).Msg("pdf file is empty")
		return nil
	}
	if info.Size() > largeFileBytes {
		log.Warn().Str("pdf", path).Int64("size_mb", info.Size()/(1024*1024)).Msg("large pdf, rendering may be slow")
	}

	// pdfcpu pre-check catches encrypted and structurally broken files with
	// a clearer message than a mid-render failure.
	total, err := api.PageCountFile(path)
	if err != nil {
		msg := strings.ToLower(err.Error())
		switch {
		case strings.Contains(msg, "password") || strings.Contains(msg, "encrypt"):
			log.Warn().Str("pdf", path).Msg("pdf is password protected or encrypted")
		case strings.Contains(msg, "corrupt") || strings.Contains(msg, "damaged"):
			log.Warn().Str("pdf", path).Msg("pdf appears to be corrupted")
		default:
			log.Warn().Str("pdf", path).Err(err).Msg("pdf validation failed")
		}
		return nil
	}
	if maxPages > total {
		maxPages = total
	}
	if maxPages <= 0 {
		return nil
	}

	doc, err := fitz.New(path)
	if err != nil {
		log.Warn().Str("pdf", path).Err(err).Msg("failed to open pdf for rendering")
		return nil
	}
	defer doc.Close()

	pages := make([]Page, 0, maxPages)
	for i := 0; i < maxPages; i++ {
		img, err := doc.ImageDPI(i, float64(r.DPI))
		if err != nil {
			log.Warn().Str("pdf", path).Int("page", i+1).Err(err).Msg("failed to render page")
			return nil
		}

		bounds := img.Bounds()
		var finalImg image.Image = img
		if r.Mode == ColorGray {
			grayImg := image.NewGray(bounds)
			draw.Draw(grayImg, bounds, img, image.Point{}, draw.Src)
			finalImg = grayImg
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, finalImg, &jpeg.Options{Quality: r.Quality}); err != nil {
			log.Warn().Str("pdf", path).Int("page", i+1).Err(err).Msg("failed to encode page as JPEG")
			return nil
		}

		pages = append(pages, Page{
			Data:   buf.Bytes(),
			MIME:   "image/jpeg",
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
		})

		log.Debug().
			Str("pdf", path).
			Int("page", i+1).
			Int("jpeg_size", buf.Len()).
			Int("dpi", r.DPI).
			Str("color", string(r.Mode)).
			Msg("rendered page")
	}

	return pages
}
