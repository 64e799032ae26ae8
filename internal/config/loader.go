package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceBuiltin SourceKind = "builtin"
	SourceFile    SourceKind = "file"
)

type Source struct {
	Kind   SourceKind
	Name   string // for builtin/default
	File   string
	Line   int
	Column int
}

func (s Source) String() string {
	switch s.Kind {
	case SourceFile:
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
	case SourceBuiltin:
		return "builtin " + s.Name
	default:
		return "default"
	}
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // YAML-path -> last writer source (file only)
	Files   []string          // all loaded files, in load order
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "retroshell", "config.yaml"), nil
}

// Load reads the merged configuration from the standard location.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources loads config and returns file-level sources for introspection.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path and its includes. A missing file yields the
// defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	raw := RawConfig{}
	sources := map[string]Source{}
	var files []string

	exists, err := pathExists(path)
	if err != nil {
		return nil, err
	}
	if exists {
		l := &includeLoader{seen: make(map[string]struct{})}
		merged, mergedSources, loaded, err := l.load(path, nil)
		if err != nil {
			return nil, err
		}
		raw = merged
		sources = mergedSources
		files = loaded
	}

	cfg, err := BuildEffectiveConfig(raw)
	if err != nil {
		return nil, attachSourceContext(err, sources)
	}
	if err := cfg.Validate(); err != nil {
		return nil, attachSourceContext(err, sources)
	}

	return &LoadResult{
		Config:  cfg,
		Sources: sources,
		Files:   files,
	}, nil
}

// configFile is one parsed YAML document.
type configFile struct {
	path     string
	raw      RawConfig
	sources  map[string]Source
	includes []includeRef
}

type includeRef struct {
	Value  string
	Source Source
}

type includeLoader struct {
	seen map[string]struct{}
}

// load merges the includes of path in order and then path itself, so the
// including file wins.
func (l *includeLoader) load(path string, stack []string) (RawConfig, map[string]Source, []string, error) {
	canon, err := canonicalPath(path)
	if err != nil {
		return RawConfig{}, nil, nil, err
	}
	for _, existing := range stack {
		if existing == canon {
			return RawConfig{}, nil, nil, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(stack, " -> "), canon)
		}
	}
	if _, ok := l.seen[canon]; ok {
		return RawConfig{}, map[string]Source{}, nil, nil
	}
	l.seen[canon] = struct{}{}

	file, err := readConfigFile(canon)
	if err != nil {
		return RawConfig{}, nil, nil, err
	}

	merged := RawConfig{}
	sources := map[string]Source{}
	var files []string

	for _, ref := range file.includes {
		paths, err := expandInclude(canon, ref.Value)
		if err != nil {
			return RawConfig{}, nil, nil, fmt.Errorf("%s: include %q: %w", ref.Source, ref.Value, err)
		}
		for _, incPath := range paths {
			incRaw, incSources, incFiles, err := l.load(incPath, append(stack, canon))
			if err != nil {
				return RawConfig{}, nil, nil, err
			}
			merged = merged.merge(incRaw)
			for p, src := range incSources {
				sources[p] = src
			}
			files = append(files, incFiles...)
		}
	}

	merged = merged.merge(file.raw)
	for p, src := range file.sources {
		sources[p] = src
	}
	files = append(files, canon)
	return merged, sources, files, nil
}

func readConfigFile(path string) (configFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return configFile{}, fmt.Errorf("%s: failed to read: %w", path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return configFile{}, fmt.Errorf("%s: failed to parse yaml: %w", path, err)
	}

	var raw RawConfig
	if err := decodeStrictYAML(data, &raw); err != nil {
		return configFile{}, fmt.Errorf("%s: %w", path, err)
	}

	root := documentRoot(&doc)
	sources := make(map[string]Source)
	collectSources(root, path, "", sources)

	return configFile{
		path:     path,
		raw:      raw,
		sources:  sources,
		includes: collectIncludeRefs(root, path),
	}, nil
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs, nil
	}
	return real, nil
}

func expandInclude(baseFile string, include string) ([]string, error) {
	path, err := resolvePathRelativeToFile(baseFile, include)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".yaml", ".yml":
			files = append(files, filepath.Join(path, ent.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func resolvePathRelativeToFile(baseFile string, include string) (string, error) {
	if include == "" {
		return "", fmt.Errorf("path is empty")
	}
	if include == "~" || strings.HasPrefix(include, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		include = filepath.Join(home, strings.TrimPrefix(include, "~"))
	}
	if filepath.IsAbs(include) {
		return include, nil
	}
	return filepath.Join(filepath.Dir(baseFile), include), nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc != nil && doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}
	return doc
}

// collectSources records the position of every mapping value under its
// dotted key path, e.g. "apps.notepad.width".
func collectSources(node *yaml.Node, file string, prefix string, out map[string]Source) {
	if node == nil {
		return
	}
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			val := node.Content[i+1]
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}
			out[path] = Source{Kind: SourceFile, File: file, Line: val.Line, Column: val.Column}
			collectSources(val, file, path, out)
		}
	case yaml.SequenceNode:
		if prefix != "" {
			out[prefix] = Source{Kind: SourceFile, File: file, Line: node.Line, Column: node.Column}
		}
	}
}

func collectIncludeRefs(root *yaml.Node, file string) []includeRef {
	if root == nil || root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "include" {
			continue
		}
		val := root.Content[i+1]
		var items []*yaml.Node
		switch val.Kind {
		case yaml.ScalarNode:
			items = []*yaml.Node{val}
		case yaml.SequenceNode:
			items = val.Content
		}
		refs := make([]includeRef, 0, len(items))
		for _, item := range items {
			if item.Kind != yaml.ScalarNode {
				continue
			}
			refs = append(refs, includeRef{
				Value:  item.Value,
				Source: Source{Kind: SourceFile, File: file, Line: item.Line, Column: item.Column},
			})
		}
		return refs
	}
	return nil
}

func attachSourceContext(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return verr
}
