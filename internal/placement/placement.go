package placement

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/local/pdfmeta/internal/metadata"
	"github.com/local/pdfmeta/internal/naming"
)

// Placer copies source PDFs into an output directory under their derived
// names, guaranteeing existing files are never overwritten.
type Placer struct {
	namer *naming.Builder
}

func New(namer *naming.Builder) *Placer {
	return &Placer{namer: namer}
}

// Place copies sourcePath into outputDir under the record's derived name,
// appending " (N)" counters until the name is free. I/O failures are
// reported inside the result, never raised.
func (p *Placer) Place(sourcePath string, rec metadata.Record, outputDir string) metadata.Placement {
	srcName := filepath.Base(sourcePath)
	fail := func(err error) metadata.Placement {
		return metadata.Placement{Copied: false, SourceFilename: srcName, Error: err.Error()}
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fail(fmt.Errorf("create output directory: %w", err))
	}

	name := p.namer.Filename(rec)
	stem := strings.TrimSuffix(name, ".pdf")
	outPath := filepath.Join(outputDir, name)
	// Each candidate is strictly distinct, so this terminates.
	for counter := 1; exists(outPath); counter++ {
		outPath = filepath.Join(outputDir, fmt.Sprintf("%s (%d).pdf", stem, counter))
	}

	absOut, err := filepath.Abs(outPath)
	if err != nil {
		return fail(err)
	}
	absDir, err := filepath.Abs(outputDir)
	if err != nil {
		return fail(err)
	}
	rel, err := filepath.Rel(absDir, absOut)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return fail(fmt.Errorf("output path %s is outside target directory %s", absOut, absDir))
	}

	if err := copyFile(sourcePath, outPath); err != nil {
		return fail(err)
	}

	log.Info().Str("source", srcName).Str("output", filepath.Base(outPath)).Msg("copied pdf")
	return metadata.Placement{
		Copied:         true,
		SourceFilename: srcName,
		OutputFilename: filepath.Base(outPath),
		SourcePath:     sourcePath,
		OutputPath:     outPath,
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// copyFile copies content preserving mode and modification time.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, time.Now(), info.ModTime())
}
