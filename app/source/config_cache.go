package source

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ConfigCache loads and caches source descriptors from a directory of
// per-publisher YAML files. The file name (without extension) is the
// source identifier.
type ConfigCache struct {
	sourcesDir string
	cache      map[string]*Descriptor
	order      []string
	mu         sync.RWMutex
}

func NewConfigCache(sourcesDir string) *ConfigCache {
	return &ConfigCache{
		sourcesDir: sourcesDir,
		cache:      make(map[string]*Descriptor),
	}
}

func (cc *ConfigCache) Run() error {
	if _, err := os.Stat(cc.sourcesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cc.sourcesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".yml")

		desc, err := cc.loadFile(file, name)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		cc.mu.Lock()
		if _, ok := cc.cache[name]; !ok {
			cc.order = append(cc.order, name)
		}
		cc.cache[name] = desc
		cc.mu.Unlock()

		slog.Debug("Source configuration loaded", "source", name, "enabled", desc.Enabled, "feed_url", desc.FeedURL)
	}

	return nil
}

func (cc *ConfigCache) loadFile(path, name string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var desc Descriptor
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if desc.Name == "" {
		desc.Name = name
	}

	if err := validate(&desc); err != nil {
		return nil, fmt.Errorf("invalid source config %s: %w", path, err)
	}

	desc.Homepage = strings.TrimRight(desc.Homepage, "/")
	if !strings.HasPrefix(desc.Homepage, "http") {
		desc.Homepage = "https://" + desc.Homepage
	}

	return &desc, nil
}

func validate(desc *Descriptor) error {
	if desc.Homepage == "" {
		return fmt.Errorf("homepage is required")
	}
	if desc.Settings.MaxCandidates < 0 {
		return fmt.Errorf("max candidates must be non-negative")
	}
	return nil
}

// GetSources returns all descriptors in priority order (ascending priority,
// then load order).
func (cc *ConfigCache) GetSources() []*Descriptor {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	sources := make([]*Descriptor, 0, len(cc.order))
	for _, name := range cc.order {
		sources = append(sources, cc.cache[name])
	}
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Priority < sources[j].Priority
	})
	return sources
}

// GetEnabledSources returns enabled descriptors in priority order.
func (cc *ConfigCache) GetEnabledSources() []*Descriptor {
	var enabled []*Descriptor
	for _, desc := range cc.GetSources() {
		if desc.Enabled {
			enabled = append(enabled, desc)
		}
	}
	return enabled
}

func (cc *ConfigCache) GetSource(name string) (*Descriptor, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	desc, ok := cc.cache[name]
	if !ok {
		return nil, fmt.Errorf("source config with name '%s' not found", name)
	}
	return desc, nil
}

func (cc *ConfigCache) GetSourceCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}
