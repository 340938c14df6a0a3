package assets

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrExtension is returned when a file does not carry the expected extension.
var ErrExtension = errors.New("unsupported file extension")

// RawModel is opaque geometry as read from disk.
type RawModel struct {
	Name string
	Data []byte
}

// Importer reads asset files. Implementations must be safe for concurrent use.
type Importer interface {
	ImportModel(path string) (*RawModel, error)
	ImportImage(path string) (image.Image, error)
}

// FileImporter reads models as raw bytes and decodes images with the
// registered image codecs.
type FileImporter struct {
	ModelExt string
}

func NewFileImporter(modelExt string) *FileImporter {
	return &FileImporter{ModelExt: modelExt}
}

func (f *FileImporter) ImportModel(path string) (*RawModel, error) {
	if ext := filepath.Ext(path); !strings.EqualFold(ext, f.ModelExt) {
		return nil, fmt.Errorf("model %s: %w %q, expected %q", path, ErrExtension, ext, f.ModelExt)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &RawModel{Name: name, Data: data}, nil
}

func (f *FileImporter) ImportImage(path string) (image.Image, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	defer fh.Close()
	img, _, err := image.Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}
