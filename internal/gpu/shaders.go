package gpu

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/jamgo/engine/internal/core/contract"
)

type shaderManifestFile struct {
	Programs []ProgramDesc `yaml:"programs"`
}

// LoadShaderManifest loads program descriptions from a YAML file.
func LoadShaderManifest(path string) ([]ProgramDesc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read shader manifest: %w", err)
	}
	return ParseShaderManifest(data)
}

func ParseShaderManifest(data []byte) ([]ProgramDesc, error) {
	var f shaderManifestFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse shader manifest: %w", err)
	}
	seen := make(map[string]bool, len(f.Programs))
	for i, p := range f.Programs {
		if p.Name == "" {
			return nil, fmt.Errorf("shader manifest: program %d has no name", i)
		}
		if p.Pixel == "" {
			return nil, fmt.Errorf("shader manifest: program %q has no pixel stage", p.Name)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("shader manifest: duplicate program %q", p.Name)
		}
		seen[p.Name] = true
	}
	return f.Programs, nil
}

// ShaderCollection holds the compiled programs of a device by name.
type ShaderCollection struct {
	programs map[string]Program
}

func NewShaderCollection() *ShaderCollection {
	return &ShaderCollection{programs: make(map[string]Program)}
}

// Compile creates every program in descs on dev. Programs that fail are
// skipped; all failures are returned joined.
func (c *ShaderCollection) Compile(dev Device, descs []ProgramDesc) error {
	var errs []error
	for _, d := range descs {
		p, err := dev.CreateProgram(d)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		c.programs[d.Name] = p
	}
	return errors.Join(errs...)
}

func (c *ShaderCollection) Get(name string) (Program, bool) {
	p, ok := c.programs[name]
	return p, ok
}

// Lookup returns the named program or an error naming it.
func (c *ShaderCollection) Lookup(name string) (Program, error) {
	p, ok := c.programs[name]
	if !ok {
		return nil, fmt.Errorf("shader program %q is not compiled", name)
	}
	return p, nil
}

// Must returns the named program and panics when it is missing.
func (c *ShaderCollection) Must(name string) Program {
	p, ok := c.programs[name]
	contract.Assert(ok, "shader program %q is not compiled", name)
	return p
}

func (c *ShaderCollection) Len() int { return len(c.programs) }

func (c *ShaderCollection) Names() []string {
	names := make([]string, 0, len(c.programs))
	for n := range c.programs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
