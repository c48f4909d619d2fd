package endpoint

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrDuplicatePath         = errors.New("path already classified")
	ErrMultiPathNotSupported = errors.New("multiple paths per declaration not supported")
	ErrEmptyPathValue        = errors.New("empty path value")
	ErrRegistryFrozen        = errors.New("registry already built")
)

// Registry collects route tier declarations while the router is being
// set up. Every route states its tier explicitly at registration time
// and the registry only has to enforce disjointness.
type Registry struct {
	basePath string
	state    *registryState
}

// registryState is shared between a registry and every Group view
// derived from it, so freezing the parent freezes the groups too.
type registryState struct {
	tiers  map[string]Tier // resolved path -> tier
	frozen bool
}

func NewRegistry() *Registry {
	return &Registry{state: &registryState{tiers: make(map[string]Tier)}}
}

// Group returns a registry view with a base path prepended to every
// declaration, mirroring router groups.
func (r *Registry) Group(basePath string) *Registry {
	return &Registry{
		basePath: r.basePath + strings.TrimSuffix(basePath, "/"),
		state:    r.state,
	}
}

// Declare classifies the given path under a tier. Exactly one path per
// declaration; a path already present in any tier is a fatal
// configuration conflict.
func (r *Registry) Declare(tier Tier, paths ...string) error {
	if r.state.frozen {
		return fmt.Errorf("endpoint: %w", ErrRegistryFrozen)
	}
	if len(paths) > 1 {
		return fmt.Errorf("endpoint: %v: %w", paths, ErrMultiPathNotSupported)
	}
	if len(paths) == 0 {
		return fmt.Errorf("endpoint: %w", ErrEmptyPathValue)
	}

	resolved, err := resolvePath(r.basePath, paths[0])
	if err != nil {
		return err
	}

	if _, exists := r.state.tiers[resolved]; exists {
		return fmt.Errorf("endpoint: %q: %w", resolved, ErrDuplicatePath)
	}
	r.state.tiers[resolved] = tier
	return nil
}

// Build freezes the declarations into an immutable lookup table. Any
// further Declare on this registry or a Group view of it fails with
// ErrRegistryFrozen.
func (r *Registry) Build() *Table {
	t := &Table{
		exact: make(map[string]Tier, len(r.state.tiers)),
	}
	for path, tier := range r.state.tiers {
		if prefix, ok := strings.CutSuffix(path, wildcardSuffix); ok {
			t.wildcards = append(t.wildcards, wildcardEntry{prefix: prefix, tier: tier})
		} else {
			t.exact[path] = tier
		}
	}

	// longest prefix first, so a nested wildcard always matches its
	// most specific declaration regardless of declaration order
	sort.Slice(t.wildcards, func(i, j int) bool {
		if len(t.wildcards[i].prefix) != len(t.wildcards[j].prefix) {
			return len(t.wildcards[i].prefix) > len(t.wildcards[j].prefix)
		}
		return t.wildcards[i].prefix < t.wildcards[j].prefix
	})

	r.state.frozen = true
	r.state.tiers = nil
	return t
}
