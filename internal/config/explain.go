package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Any key of the effective config is addressable, for example:
//
//	log_level
//	desktop.width
//	spawn_region.max_x
//	apps.notepad.title
//	taskbar.show_minimized
//	arrange.gap
//	settings.mouse.doubleClickSpeed
//	logging.enabled
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}

	// Otherwise infer from category.
	if parts := strings.Split(path, "."); parts[0] == "apps" && len(parts) >= 2 {
		if _, ok := BuiltinApps()[parts[1]]; ok {
			return value, Source{Kind: SourceBuiltin, Name: "apps." + parts[1]}, nil
		}
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

// lookupValue walks the YAML form of cfg so every serialized key can be
// explained without a hand-maintained path table.
func lookupValue(cfg *Config, path string) (any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	var cur any = tree
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		next, ok := m[part]
		if !ok {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		cur = next
	}
	return cur, nil
}
