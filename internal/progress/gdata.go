package progress

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	recordObject    = "progress"
	recordProperty  = "record"
	suspendProperty = "suspended"
)

// GdataStore keeps the record in the per-user application data directory.
// A store without a manager runs in degraded mode: loads return the zero
// record and saves are dropped.
type GdataStore struct {
	manager *gdata.Manager
}

// OpenGdata opens the data directory for appName.
func OpenGdata(appName string) (*GdataStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("progress: open data dir: %w", err)
	}
	return &GdataStore{manager: m}, nil
}

// NewGdataStore wraps an existing manager. A nil manager selects degraded mode.
func NewGdataStore(m *gdata.Manager) *GdataStore {
	return &GdataStore{manager: m}
}

// Degraded reports whether the store has no backing data directory.
func (s *GdataStore) Degraded() bool {
	return s.manager == nil
}

// Load reads the record. A missing record is the zero record.
func (s *GdataStore) Load() (Record, error) {
	if s.manager == nil || !s.manager.ObjectPropExists(recordObject, recordProperty) {
		return Record{}, nil
	}

	data, err := s.manager.LoadObjectProp(recordObject, recordProperty)
	if err != nil {
		return Record{}, fmt.Errorf("progress: load record: %w", err)
	}

	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("progress: decode record: %w", err)
	}
	return rec, nil
}

// Save writes the record.
func (s *GdataStore) Save(rec Record) error {
	if s.manager == nil {
		return nil
	}

	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("progress: encode record: %w", err)
	}
	if err := s.manager.SaveObjectProp(recordObject, recordProperty, data); err != nil {
		return fmt.Errorf("progress: save record: %w", err)
	}
	return nil
}

// SaveSuspended stores an opaque suspended-session payload next to the
// record. An empty payload clears it.
func (s *GdataStore) SaveSuspended(data []byte) error {
	if s.manager == nil {
		return nil
	}
	if err := s.manager.SaveObjectProp(recordObject, suspendProperty, data); err != nil {
		return fmt.Errorf("progress: save suspended session: %w", err)
	}
	return nil
}

// LoadSuspended returns the suspended-session payload, or nil if none.
func (s *GdataStore) LoadSuspended() ([]byte, error) {
	if s.manager == nil || !s.manager.ObjectPropExists(recordObject, suspendProperty) {
		return nil, nil
	}
	data, err := s.manager.LoadObjectProp(recordObject, suspendProperty)
	if err != nil {
		return nil, fmt.Errorf("progress: load suspended session: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}
