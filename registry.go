package tpsreport

import (
	"sort"
	"strings"
)

// Registry maps chain identifiers to their profiles.
// A Registry is immutable once built and safe for concurrent use.
type Registry struct {
	profiles map[string]ChainProfile
	ids      []string
}

// ProfileOverride replaces fields of a known chain profile.
// Zero-valued fields keep the existing value.
type ProfileOverride struct {
	NetworkLabel   string
	TheoreticalTPS int64
}

// NewRegistry builds a registry from the given profiles.
func NewRegistry(profiles ...ChainProfile) (*Registry, error) {
	if len(profiles) == 0 {
		return nil, wrapConfig("registry needs at least one chain profile")
	}

	r := &Registry{
		profiles: make(map[string]ChainProfile, len(profiles)),
		ids:      make([]string, 0, len(profiles)),
	}
	for _, p := range profiles {
		if p.ID == "" {
			return nil, wrapConfig("chain profile without id")
		}
		if p.NetworkLabel == "" {
			return nil, wrapConfigf("chain %q has no network label", p.ID)
		}
		if p.TheoreticalTPS <= 0 {
			return nil, wrapConfigf("chain %q has non-positive theoretical tps %d", p.ID, p.TheoreticalTPS)
		}
		if _, dup := r.profiles[p.ID]; dup {
			return nil, wrapConfigf("duplicate chain profile %q", p.ID)
		}
		r.profiles[p.ID] = p
		r.ids = append(r.ids, p.ID)
	}
	sort.Strings(r.ids)

	return r, nil
}

// DefaultRegistry returns a new registry holding the supported networks.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		ChainProfile{ID: "ava", NetworkLabel: "avalanchego/1.11.8", TheoreticalTPS: 4500},
		ChainProfile{ID: "eth", NetworkLabel: "geth/1.14.6", TheoreticalTPS: 50},
		ChainProfile{ID: "klay", NetworkLabel: "klaytn/0.9.2", TheoreticalTPS: 4000},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve returns the profile for id.
func (r *Registry) Resolve(id string) (ChainProfile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return ChainProfile{}, wrapUnknownChainf("%q (supported: %s)", id, strings.Join(r.ids, "/"))
	}
	return p, nil
}

// IDs returns the known chain identifiers in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.ids))
	copy(ids, r.ids)
	return ids
}

// Profiles returns all profiles ordered by id.
func (r *Registry) Profiles() []ChainProfile {
	out := make([]ChainProfile, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.profiles[id])
	}
	return out
}

// WithOverrides returns a new registry with the given profiles replaced.
// Overriding an id the registry does not know is an ErrUnknownChain.
func (r *Registry) WithOverrides(overrides map[string]ProfileOverride) (*Registry, error) {
	profiles := r.Profiles()
	for id := range overrides {
		if _, ok := r.profiles[id]; !ok {
			return nil, wrapUnknownChainf("cannot override %q (supported: %s)", id, strings.Join(r.ids, "/"))
		}
	}
	for i, p := range profiles {
		o, ok := overrides[p.ID]
		if !ok {
			continue
		}
		if o.NetworkLabel != "" {
			profiles[i].NetworkLabel = o.NetworkLabel
		}
		if o.TheoreticalTPS != 0 {
			profiles[i].TheoreticalTPS = o.TheoreticalTPS
		}
	}
	return NewRegistry(profiles...)
}
