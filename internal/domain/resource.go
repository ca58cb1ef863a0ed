package domain

import (
	"fmt"
	"path/filepath"
)

// Well-known manifest entry identifiers
const (
	ResourceImages      = "images"
	ResourceGroundTruth = "ground_truth"
	ResourceMetadata    = "metadata"
)

// ResourceDescriptor describes one remote file and where it lives locally
type ResourceDescriptor struct {
	ID           string
	URL          string
	Dest         string
	ExpectedSize string // human-readable label, e.g. "9.1 GB"
}

// Name returns the base name of the destination file
func (r ResourceDescriptor) Name() string {
	return filepath.Base(r.Dest)
}

// Validate checks that all required fields are set
func (r ResourceDescriptor) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: resource id is required", ErrInvalidManifest)
	}
	if r.URL == "" {
		return fmt.Errorf("%w: resource %s: url is required", ErrInvalidManifest, r.ID)
	}
	if r.Dest == "" {
		return fmt.Errorf("%w: resource %s: destination is required", ErrInvalidManifest, r.ID)
	}
	return nil
}

// Manifest is an immutable, ordered table of resources.
// It is built once at startup and passed to the services that need it.
type Manifest struct {
	entries []ResourceDescriptor
	byID    map[string]int
}

// NewManifest builds a manifest from the given entries.
// IDs must be unique and every entry must validate.
func NewManifest(entries ...ResourceDescriptor) (*Manifest, error) {
	m := &Manifest{
		entries: make([]ResourceDescriptor, 0, len(entries)),
		byID:    make(map[string]int, len(entries)),
	}

	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if _, dup := m.byID[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate resource id %q", ErrInvalidManifest, e.ID)
		}
		m.byID[e.ID] = len(m.entries)
		m.entries = append(m.entries, e)
	}

	return m, nil
}

// Get returns the entry with the given ID
func (m *Manifest) Get(id string) (ResourceDescriptor, bool) {
	idx, ok := m.byID[id]
	if !ok {
		return ResourceDescriptor{}, false
	}
	return m.entries[idx], true
}

// Lookup returns the entry with the given ID or ErrResourceNotFound
func (m *Manifest) Lookup(id string) (ResourceDescriptor, error) {
	r, ok := m.Get(id)
	if !ok {
		return ResourceDescriptor{}, fmt.Errorf("%w: %s", ErrResourceNotFound, id)
	}
	return r, nil
}

// Require returns an error if any of the given IDs is missing
func (m *Manifest) Require(ids ...string) error {
	for _, id := range ids {
		if _, err := m.Lookup(id); err != nil {
			return err
		}
	}
	return nil
}

// Entries returns a copy of all entries in declaration order
func (m *Manifest) Entries() []ResourceDescriptor {
	out := make([]ResourceDescriptor, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len returns the number of entries
func (m *Manifest) Len() int {
	return len(m.entries)
}
