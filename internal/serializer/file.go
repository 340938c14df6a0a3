package serializer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jamgo/engine/internal/scene"
)

// ErrExtension is returned for scene files with the wrong extension.
var ErrExtension = errors.New("invalid scene file extension")

func (z *Serializer) checkExt(path string) error {
	if ext := filepath.Ext(path); !strings.EqualFold(ext, z.ext) {
		return fmt.Errorf("%s: %w %q, expected %q", path, ErrExtension, ext, z.ext)
	}
	return nil
}

// ScenePath is the default file of a named scene inside dir.
func (z *Serializer) ScenePath(dir, name string) string {
	return filepath.Join(dir, name+z.ext)
}

func (z *Serializer) LoadDocument(path string) (*Document, error) {
	if err := z.checkExt(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func (z *Serializer) SaveDocument(doc *Document, path string) error {
	if err := z.checkExt(path); err != nil {
		return err
	}
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create scene dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write scene %s: %w", path, err)
	}
	return nil
}

// SaveScene serializes sc to path.
func (z *Serializer) SaveScene(sc *scene.Scene, path string) error {
	doc, err := z.Serialize(sc)
	if err != nil {
		return err
	}
	if err := z.SaveDocument(doc, path); err != nil {
		return err
	}
	z.log.Info("scene saved", zap.String("scene", sc.Name()), zap.String("path", path))
	return nil
}

// LoadScene deserializes path into sc. A missing file is not an error: new
// scenes have none yet, and loaded reports false.
func (z *Serializer) LoadScene(ctx context.Context, sc *scene.Scene, path string) (loaded bool, err error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		z.log.Debug("scene file does not exist", zap.String("scene", sc.Name()), zap.String("path", path))
		return false, nil
	}
	doc, err := z.LoadDocument(path)
	if err != nil {
		return false, err
	}
	if err := z.Deserialize(ctx, doc, sc); err != nil {
		return false, err
	}
	z.log.Info("scene loaded", zap.String("scene", sc.Name()), zap.String("path", path))
	return true, nil
}
