package model

// EntryStatus classifies the outcome of looking up and parsing one archive
// entry.
type EntryStatus string

const (
	// StatusMissing means the entry was not present in the archive.
	StatusMissing EntryStatus = "missing"
	// StatusPresent means the entry existed; parsing outcome not yet known.
	StatusPresent EntryStatus = "present"
	// StatusPartial means the entry existed but yielded no usable data
	// (empty or malformed table, unreadable nested archive).
	StatusPartial EntryStatus = "partial"
	// StatusFull means the entry was parsed completely.
	StatusFull EntryStatus = "full"
	// StatusPlaceholder means the entry was an access-denied stub rather
	// than a real export.
	StatusPlaceholder EntryStatus = "placeholder"
)

// ManifestEntry is the per-file ingestion record.
type ManifestEntry struct {
	Status EntryStatus `json:"status"`
	Rows   *int        `json:"rows,omitempty"`
	Size   *int        `json:"size,omitempty"`
	Note   string      `json:"note,omitempty"`
}

// Manifest maps archive-entry filenames to their ingestion records. Every
// filename the engine looks up appears exactly once.
type Manifest map[string]*ManifestEntry

// NewManifest returns an empty manifest.
func NewManifest() Manifest { return make(Manifest) }

// Record writes the entry for name, replacing any prior record.
func (m Manifest) Record(name string, status EntryStatus) *ManifestEntry {
	e := &ManifestEntry{Status: status}
	m[name] = e
	return e
}

// Missing records name as absent from the archive.
func (m Manifest) Missing(name string) { m.Record(name, StatusMissing) }

// Present records name as found, with its byte length.
func (m Manifest) Present(name string, size int) *ManifestEntry {
	e := m.Record(name, StatusPresent)
	e.Size = &size
	return e
}

// SetRows amends the record for name with a parsed row count.
func (m Manifest) SetRows(name string, rows int) {
	if e, ok := m[name]; ok {
		e.Rows = &rows
	}
}

// SetStatus amends the status for name.
func (m Manifest) SetStatus(name string, status EntryStatus) {
	if e, ok := m[name]; ok {
		e.Status = status
	}
}

// SetNote amends the diagnostic note for name.
func (m Manifest) SetNote(name, note string) {
	if e, ok := m[name]; ok {
		e.Note = note
	}
}
