package grammar

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Pack is a grammar version described in a YAML or TOML file.
type Pack struct {
	// Path is the file the pack was loaded from (informational)
	Path string `yaml:"-" toml:"-"`

	// Version is the version identifier to register
	Version string `yaml:"version" toml:"version"`

	// Extends names a registered version whose vocabulary is inherited
	Extends string `yaml:"extends" toml:"extends"`

	Keywords  []string `yaml:"keywords" toml:"keywords"`
	Functions []string `yaml:"functions" toml:"functions"`
	DataTypes []string `yaml:"data_types" toml:"data_types"`
	Operators []string `yaml:"operators" toml:"operators"`

	// Remove drops inherited vocabulary
	Remove PackRemovals `yaml:"remove" toml:"remove"`

	// Patterns overrides lexical patterns with regular expressions
	Patterns PackPatterns `yaml:"patterns" toml:"patterns"`

	// StringQuotes overrides the characters that open a string literal
	StringQuotes string `yaml:"string_quotes" toml:"string_quotes"`
}

// PackRemovals lists inherited vocabulary to drop.
type PackRemovals struct {
	Keywords  []string `yaml:"keywords" toml:"keywords"`
	Functions []string `yaml:"functions" toml:"functions"`
	DataTypes []string `yaml:"data_types" toml:"data_types"`
}

// PackPatterns holds regular expressions for lexical patterns. Empty
// entries keep the inherited or built-in pattern.
type PackPatterns struct {
	Number     string `yaml:"number" toml:"number"`
	DateTime   string `yaml:"datetime" toml:"datetime"`
	Identifier string `yaml:"identifier" toml:"identifier"`
}

// packExtensions are the file extensions LoadPackDir picks up.
var packExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".toml": true,
}

// LoadPack reads a grammar pack from a YAML (.yaml, .yml) or TOML (.toml) file.
func LoadPack(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &PackError{FilePath: path, Message: "cannot read file", Cause: err}
	}
	return ParsePack(data, path)
}

// ParsePack decodes a grammar pack. The format is chosen by the extension of
// path; anything other than .toml is decoded as YAML.
func ParsePack(data []byte, path string) (*Pack, error) {
	var p Pack

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &p); err != nil {
			return nil, &PackError{FilePath: path, Message: "invalid TOML", Cause: err}
		}
	} else {
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, &PackError{FilePath: path, Message: "invalid YAML", Cause: err}
		}
	}

	p.Path = path
	if strings.TrimSpace(p.Version) == "" {
		return nil, &PackError{FilePath: path, Message: "missing required field 'version'"}
	}
	return &p, nil
}

// LoadPackDir loads every pack in dir (non-recursive) in file-name order.
// A missing directory yields no packs.
func LoadPackDir(dir string) ([]*Pack, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read grammar directory %q: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if packExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	packs := make([]*Pack, 0, len(names))
	for _, name := range names {
		p, err := LoadPack(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		packs = append(packs, p)
	}
	return packs, nil
}

// Definition builds the pack into a Definition, resolving Extends against reg.
func (p *Pack) Definition(reg *Registry) (*Definition, error) {
	b := NewBuilder(p.Version)

	if p.Extends != "" {
		base, err := reg.Get(p.Extends)
		if err != nil {
			return nil, &PackError{FilePath: p.Path, Message: "cannot resolve 'extends'", Cause: err}
		}
		b.Extend(base)
	}

	if p.StringQuotes != "" {
		b.WithStringQuotes(p.StringQuotes)
	}

	b.Keywords(p.Keywords...).
		Functions(p.Functions...).
		DataTypes(p.DataTypes...).
		Operators(p.Operators...).
		WithoutKeywords(p.Remove.Keywords...).
		WithoutFunctions(p.Remove.Functions...).
		WithoutDataTypes(p.Remove.DataTypes...)

	overrides := []struct {
		kind PatternKind
		expr string
	}{
		{PatternNumber, p.Patterns.Number},
		{PatternDateTime, p.Patterns.DateTime},
		{PatternIdentifier, p.Patterns.Identifier},
	}
	for _, o := range overrides {
		if o.expr == "" {
			continue
		}
		re, err := NewRegexpPattern(o.expr)
		if err != nil {
			return nil, &PackError{FilePath: p.Path, Message: fmt.Sprintf("patterns.%s", o.kind), Cause: err}
		}
		b.WithPattern(o.kind, re)
	}

	def, err := b.Build()
	if err != nil {
		return nil, &PackError{FilePath: p.Path, Message: "invalid definition", Cause: err}
	}
	return def, nil
}
