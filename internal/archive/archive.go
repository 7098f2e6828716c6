// Package archive resolves named entries inside an in-memory ZIP container.
package archive

import (
	"archive/zip"
	"bytes"
	"io"

	"github.com/rotisserie/eris"
)

// ErrBadSignature is returned by Open when the buffer does not start with
// the ZIP magic bytes. Callers should dump the raw bytes for diagnosis
// before surfacing this to an operator.
var ErrBadSignature = eris.New("archive: buffer does not start with ZIP signature")

// ErrNotFound is returned by Lookup for entries absent from the archive.
var ErrNotFound = eris.New("archive: entry not found")

// Archive is a read-only view over the entries of one ZIP buffer.
type Archive struct {
	entries map[string]*zip.File
}

// Open parses data as a ZIP container. It fails with ErrBadSignature before
// attempting any decompression when the leading two bytes are not "PK".
func Open(data []byte) (*Archive, error) {
	if len(data) < 2 || data[0] != 0x50 || data[1] != 0x4B {
		return nil, ErrBadSignature
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, eris.Wrap(err, "archive: open")
	}
	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		entries[f.Name] = f
	}
	return &Archive{entries: entries}, nil
}

// Has reports whether the named entry exists.
func (a *Archive) Has(name string) bool {
	_, ok := a.entries[name]
	return ok
}

// Lookup returns the decompressed bytes of the named entry, or ErrNotFound.
func (a *Archive) Lookup(name string) ([]byte, error) {
	f, ok := a.entries[name]
	if !ok {
		return nil, ErrNotFound
	}
	rc, err := f.Open()
	if err != nil {
		return nil, eris.Wrapf(err, "archive: open entry %q", name)
	}
	defer rc.Close() //nolint:errcheck

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, eris.Wrapf(err, "archive: read entry %q", name)
	}
	return data, nil
}

// OpenNested resolves the named entry as a ZIP archive of its own. A corrupt
// nested archive yields an error the caller can record as a partial entry
// rather than aborting the run.
func (a *Archive) OpenNested(name string) (*Archive, error) {
	data, err := a.Lookup(name)
	if err != nil {
		return nil, err
	}
	nested, err := Open(data)
	if err != nil {
		return nil, eris.Wrapf(err, "archive: nested entry %q", name)
	}
	return nested, nil
}
