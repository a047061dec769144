// MIT License
//
// Copyright (c) 2024-2026 Gokka Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package deployment

import (
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/gokka/gokka/address"
	"github.com/gokka/gokka/errors"
)

const (
	// Root is the configuration path the deployment section lives under.
	Root = "gokka.actor.deployment"

	routerKey         = "router"
	nrOfInstancesKey  = "nr-of-instances"
	routeesKey        = "routees"
	pathsKey          = "paths"
	dispatcherKey     = "dispatcher"
	poolDispatcherKey = "pool-dispatcher"
)

// Config is an immutable snapshot of the deployment configuration: the set
// of parsed entries plus the matcher built over them. It is taken once at
// system start and is safe for concurrent use.
type Config struct {
	entries []*Entry
	matcher *Matcher
}

// Empty returns a deployment configuration with no entries.
func Empty() *Config {
	return &Config{matcher: NewMatcher(nil)}
}

// New builds a deployment configuration from already-parsed entries. Every
// entry is shape-validated and duplicate patterns are rejected.
func New(entries []*Entry) (*Config, error) {
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return nil, err
		}
		if !seen.Add(entry.Pattern.String()) {
			return nil, fmt.Errorf("%w: %q", errors.ErrDuplicateDeploymentPattern, entry.Pattern)
		}
	}
	return &Config{
		entries: entries,
		matcher: NewMatcher(entries),
	}, nil
}

// FromKoanf parses the deployment section out of the given configuration
// tree. Paths under Root name deployment entries; any shape violation fails
// the load so that creation calls never see a malformed snapshot.
func FromKoanf(k *koanf.Koanf) (*Config, error) {
	if !k.Exists(Root) {
		return Empty(), nil
	}
	section := k.Cut(Root).Raw()

	// iterate patterns in lexical order for deterministic error reporting
	patterns := make([]string, 0, len(section))
	for pattern := range section {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)

	entries := make([]*Entry, 0, len(patterns))
	for _, pattern := range patterns {
		node, ok := section[pattern].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: entry %q is not a settings block", errors.ErrConfigurationMalformed, pattern)
		}
		entry, err := parseEntry(pattern, node)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return New(entries)
}

// FromYAML parses the deployment section out of a YAML document.
func FromYAML(data []byte) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrConfigurationMalformed, err)
	}
	return FromKoanf(k)
}

// FromFile parses the deployment section out of a YAML file.
func FromFile(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrConfigurationMalformed, err)
	}
	return FromKoanf(k)
}

// Entries returns the parsed deployment entries.
func (x *Config) Entries() []*Entry {
	return x.entries
}

// Match returns the single best-matching entry for the given actor path.
func (x *Config) Match(path address.Path) (*Entry, bool) {
	return x.matcher.Match(path)
}

func parseEntry(pattern string, node map[string]any) (*Entry, error) {
	parsed, err := ParsePattern(pattern)
	if err != nil {
		return nil, err
	}

	rawKind, ok := node[routerKey].(string)
	if !ok {
		return nil, fmt.Errorf("%w: entry %q has no router key", errors.ErrConfigurationMalformed, pattern)
	}
	kind, err := ParseKind(rawKind)
	if err != nil {
		return nil, err
	}

	entry := &Entry{Pattern: parsed, Kind: kind}

	if raw, ok := node[nrOfInstancesKey]; ok {
		instances, err := toInt(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %q: %v", errors.ErrConfigurationMalformed, pattern, err)
		}
		entry.NrOfInstances = instances
	}

	if raw, ok := node[routeesKey]; ok {
		paths, err := parseRouteePaths(pattern, raw)
		if err != nil {
			return nil, err
		}
		entry.RouteePaths = paths
	}

	if raw, ok := node[dispatcherKey]; ok {
		ref, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: entry %q: dispatcher must be a reference string", errors.ErrConfigurationMalformed, pattern)
		}
		entry.Dispatcher = ref
	}

	if raw, ok := node[poolDispatcherKey]; ok {
		switch value := raw.(type) {
		case string:
			// a substitution expression referencing another settings block
			entry.Dispatcher = value
		case map[string]any:
			// an inline settings block, addressed by its own koanf path
			entry.Dispatcher = Root + "." + pattern + "." + poolDispatcherKey
		default:
			return nil, fmt.Errorf("%w: entry %q: pool-dispatcher must be a settings block or a substitution", errors.ErrConfigurationMalformed, pattern)
		}
		entry.UsePoolDispatcher = true
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}
	return entry, nil
}

func parseRouteePaths(pattern string, raw any) ([]address.Path, error) {
	node, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: entry %q: routees must be a settings block", errors.ErrConfigurationMalformed, pattern)
	}
	list, ok := node[pathsKey].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: entry %q: routees.paths must be a list", errors.ErrConfigurationMalformed, pattern)
	}
	paths := make([]address.Path, 0, len(list))
	for _, item := range list {
		str, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: entry %q: routee path %v is not a string", errors.ErrConfigurationMalformed, pattern, item)
		}
		path, err := address.Parse(str)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func toInt(raw any) (int, error) {
	switch value := raw.(type) {
	case int:
		return value, nil
	case int64:
		return int(value), nil
	case float64:
		return int(value), nil
	default:
		return 0, fmt.Errorf("%v is not an integer", raw)
	}
}
