// Package document converts resume files into plain text.
package document

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spigell/blacktable/internal/failure"

	"github.com/gen2brain/go-fitz"
	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

var supported = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
}

// Extensions lists the accepted file extensions.
func Extensions() []string {
	return []string{".pdf", ".doc", ".docx", ".txt"}
}

// Supported reports whether path has an accepted extension.
func Supported(path string) bool {
	return supported[strings.ToLower(filepath.Ext(path))]
}

type extractor func(path string) (string, error)

// Converter extracts text from documents on disk or from uploads.
type Converter struct {
	logger  *zap.Logger
	tempDir string

	pdfText  extractor
	fitzText extractor
}

func NewConverter(logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		logger:   logger,
		pdfText:  readPDF,
		fitzText: readFitz,
	}
}

// ConvertFile returns the text of the document at path. The extension is checked
// before the file is touched.
func (c *Converter) ConvertFile(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !supported[ext] {
		return "", failure.New(failure.UnsupportedFormat, "unsupported file format %q for %s", ext, filepath.Base(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", failure.Wrap(failure.FileNotFound, err, "%s", path)
		}
		return "", failure.Wrap(failure.ConversionFailed, err, "stat %s", path)
	}
	if info.IsDir() {
		return "", failure.New(failure.FileNotFound, "%s is a directory", path)
	}

	var text string
	switch ext {
	case ".txt":
		var data []byte
		data, err = os.ReadFile(path)
		text = strings.ToValidUTF8(string(data), "")
	case ".pdf":
		text, err = c.pdfText(path)
		if err != nil || strings.TrimSpace(text) == "" {
			c.logger.Debug("pdf text layer unavailable, falling back to mupdf", zap.String("file", path), zap.Error(err))
			text, err = c.fitzText(path)
		}
	default:
		text, err = c.fitzText(path)
	}
	if err != nil {
		return "", failure.Wrap(failure.ConversionFailed, err, "convert %s", filepath.Base(path))
	}

	text = Normalize(text)
	if text == "" {
		return "", failure.New(failure.ConversionFailed, "no text content found in %s", filepath.Base(path))
	}

	c.logger.Debug("document converted", zap.String("file", filepath.Base(path)), zap.Int("length", len(text)))

	return text, nil
}

// Convert spools r into a temporary file named after a random id and converts it.
func (c *Converter) Convert(name string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if !supported[ext] {
		return "", failure.New(failure.UnsupportedFormat, "unsupported file format %q for %s", ext, filepath.Base(name))
	}

	dir := c.tempDir
	if dir == "" {
		dir = os.TempDir()
	}

	path := filepath.Join(dir, uuid.NewString()+ext)
	f, err := os.Create(path)
	if err != nil {
		return "", failure.Wrap(failure.ConversionFailed, err, "spool %s", name)
	}
	defer os.Remove(path)

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", failure.Wrap(failure.ConversionFailed, err, "spool %s", name)
	}
	if err := f.Close(); err != nil {
		return "", failure.Wrap(failure.ConversionFailed, err, "spool %s", name)
	}

	return c.ConvertFile(path)
}

// Normalize trims trailing whitespace on every line and collapses runs of blank lines.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r\f\v")
		if strings.TrimSpace(line) == "" {
			if blank {
				continue
			}
			blank = true
			out = append(out, "")
			continue
		}
		blank = false
		out = append(out, line)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}

func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}

	return b.String(), nil
}

func readFitz(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("open document: %w", err)
	}
	defer doc.Close()

	var b strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", n+1, err)
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}

	return b.String(), nil
}
