package servitor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"
)

// ErrNotFound is returned when a named servitor has no record.
var ErrNotFound = errors.New("servitor not found")

// Store keeps servitors as one JSON file each under <dir>/servitors, with
// a metadata.json index and sigil images under <dir>/sigils.
type Store struct {
	dir string
}

type metaEntry struct {
	Filename     string  `json:"filename"`
	Status       Status  `json:"status"`
	ChargeLevel  float64 `json:"charge_level"`
	CreationDate string  `json:"creation_date"`
}

// NewStore opens a store rooted at dir, creating the layout if needed.
func NewStore(dir string) (*Store, error) {
	for _, sub := range []string{"servitors", "sigils"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	s := &Store{dir: dir}
	if _, err := os.Stat(s.metadataPath()); os.IsNotExist(err) {
		if err := s.saveMetadata(map[string]metaEntry{}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SigilDir returns the directory sigil images are written to.
func (s *Store) SigilDir() string { return filepath.Join(s.dir, "sigils") }

func (s *Store) metadataPath() string { return filepath.Join(s.dir, "metadata.json") }

// recordName sanitizes a servitor name into a JSON filename: spaces become
// underscores, anything outside letters, digits, dash, and underscore is
// dropped.
func recordName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r == ' ':
			b.WriteRune('_')
		case r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}
	return b.String() + ".json"
}

func (s *Store) loadMetadata() (map[string]metaEntry, error) {
	data, err := os.ReadFile(s.metadataPath())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]metaEntry{}, nil
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	meta := map[string]metaEntry{}
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return meta, nil
}

func (s *Store) saveMetadata(meta map[string]metaEntry) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(s.metadataPath(), data, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// Save writes the servitor record and updates the index.
func (s *Store) Save(sv *Servitor) error {
	data, err := json.MarshalIndent(sv, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal servitor %s: %w", sv.Name, err)
	}
	name := recordName(sv.Name)
	if err := os.WriteFile(filepath.Join(s.dir, "servitors", name), data, 0o644); err != nil {
		return fmt.Errorf("write servitor %s: %w", sv.Name, err)
	}
	meta, err := s.loadMetadata()
	if err != nil {
		return err
	}
	meta[sv.Name] = metaEntry{
		Filename:     name,
		Status:       sv.Status,
		ChargeLevel:  sv.ChargeLevel,
		CreationDate: sv.CreationDate.Format(time.RFC3339),
	}
	return s.saveMetadata(meta)
}

// Load reads a servitor by name, applying the energy decay accrued since
// its last charge and persisting the decayed level.
func (s *Store) Load(name string) (*Servitor, error) {
	meta, err := s.loadMetadata()
	if err != nil {
		return nil, err
	}
	entry, ok := meta[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, "servitors", entry.Filename))
	if err != nil {
		return nil, fmt.Errorf("read servitor %s: %w", name, err)
	}
	sv := &Servitor{}
	if err := json.Unmarshal(data, sv); err != nil {
		return nil, fmt.Errorf("parse servitor %s: %w", name, err)
	}
	if ApplyDecay(sv, DefaultDecayRate) {
		if err := s.Save(sv); err != nil {
			return nil, err
		}
	}
	return sv, nil
}

// List returns stored servitor names sorted, optionally filtered by
// status. An empty filter matches everything.
func (s *Store) List(filter Status) ([]string, error) {
	meta, err := s.loadMetadata()
	if err != nil {
		return nil, err
	}
	var names []string
	for name, entry := range meta {
		if filter != "" && entry.Status != filter {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// All loads every stored servitor.
func (s *Store) All() ([]*Servitor, error) {
	names, err := s.List("")
	if err != nil {
		return nil, err
	}
	servitors := make([]*Servitor, 0, len(names))
	for _, name := range names {
		sv, err := s.Load(name)
		if err != nil {
			return nil, err
		}
		servitors = append(servitors, sv)
	}
	return servitors, nil
}

// Delete removes a servitor record and its index entry.
func (s *Store) Delete(name string) error {
	meta, err := s.loadMetadata()
	if err != nil {
		return err
	}
	entry, ok := meta[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err := os.Remove(filepath.Join(s.dir, "servitors", entry.Filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete servitor %s: %w", name, err)
	}
	delete(meta, name)
	return s.saveMetadata(meta)
}

// Archive marks the servitor dismissed and saves it.
func (s *Store) Archive(sv *Servitor) error {
	sv.Status = StatusDismissed
	return s.Save(sv)
}
