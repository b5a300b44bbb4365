package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"io"
	"path"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".gif":  true,
}

// Reader unpacks decoded images out of an uploaded ZIP archive, in archive
// entry order. Directory entries, macOS metadata, hidden files and entries
// of unknown type are skipped; PDF entries are rasterized page by page into
// the image stream.
type Reader struct {
	logger *zap.Logger
}

func NewReader(logger *zap.Logger) *Reader {
	return &Reader{logger: logger}
}

// Extract returns the decoded images of the archive. Entries that fail to
// decode are skipped with a warning; a corrupt archive is an error.
func (r *Reader) Extract(data []byte) ([]image.Image, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip archive: %w", err)
	}

	var images []image.Image
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || skipEntry(f.Name) {
			continue
		}

		ext := strings.ToLower(path.Ext(f.Name))
		if !imageExtensions[ext] && ext != ".pdf" {
			continue
		}

		content, err := readEntry(f)
		if err != nil {
			r.logger.Warn("Failed to read archive entry", zap.String("entry", f.Name), zap.Error(err))
			continue
		}

		if ext == ".pdf" {
			pages, err := r.renderPDF(content)
			if err != nil {
				r.logger.Warn("Failed to rasterize PDF entry", zap.String("entry", f.Name), zap.Error(err))
				continue
			}
			images = append(images, pages...)
			continue
		}

		img, _, err := image.Decode(bytes.NewReader(content))
		if err != nil {
			r.logger.Warn("Failed to decode image entry", zap.String("entry", f.Name), zap.Error(err))
			continue
		}
		images = append(images, img)
	}

	r.logger.Info("Archive decoded", zap.Int("images", len(images)))
	return images, nil
}

func (r *Reader) renderPDF(content []byte) ([]image.Image, error) {
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	var pages []image.Image
	for i := 0; i < doc.NumPage(); i++ {
		page, err := doc.Image(i)
		if err != nil {
			r.logger.Warn("Failed to render PDF page", zap.Int("page", i+1), zap.Error(err))
			continue
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func skipEntry(name string) bool {
	if strings.HasPrefix(name, "__MACOSX/") {
		return true
	}
	return strings.HasPrefix(path.Base(name), ".")
}
