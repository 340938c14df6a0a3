package config

import "path/filepath"

// Resolved content directories.
func (p PathsConfig) ScenesDir() string   { return p.join(p.Scenes) }
func (p PathsConfig) AssetsDir() string   { return p.join(p.Assets) }
func (p PathsConfig) ScriptsDir() string  { return p.join(p.Scripts) }
func (p PathsConfig) ModelsDir() string   { return filepath.Join(p.AssetsDir(), p.Models) }
func (p PathsConfig) TexturesDir() string { return filepath.Join(p.AssetsDir(), p.Textures) }

// Dirs lists every directory the engine expects to exist.
func (p PathsConfig) Dirs() []string {
	return []string{p.Contents, p.ScenesDir(), p.AssetsDir(), p.ModelsDir(), p.TexturesDir(), p.ScriptsDir()}
}

func (p PathsConfig) join(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(p.Contents, dir)
}
