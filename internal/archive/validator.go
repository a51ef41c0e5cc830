// Package archive checks uploaded ZIP files for the entries every submission
// must carry: <name>/A.txt and <name>/B.txt, where <name> is the uploaded
// file name without its extension.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const Extension = ".zip"

var (
	ErrMalformed    = errors.New("malformed upload")
	ErrNotZip       = fmt.Errorf("%w: only ZIP files are allowed", ErrMalformed)
	ErrCorrupt      = fmt.Errorf("%w: file is not a valid ZIP archive", ErrMalformed)
	ErrMissingEntry = fmt.Errorf("%w: ZIP must contain A.txt and B.txt", ErrMalformed)
)

var requiredNames = []string{"A.txt", "B.txt"}

// HasZipExtension is checked before any parsing happens.
func HasZipExtension(filename string) bool {
	return strings.HasSuffix(filename, Extension)
}

// RequiredEntries lists the entry paths archiveName must contain.
func RequiredEntries(archiveName string) []string {
	prefix := stripExtension(archiveName)
	entries := make([]string, 0, len(requiredNames))
	for _, name := range requiredNames {
		entries = append(entries, prefix+"/"+name)
	}
	return entries
}

// Validate reports ErrMissingEntry unless every required entry is in entries.
// Extra entries are fine.
func Validate(archiveName string, entries []string) error {
	present := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		present[e] = struct{}{}
	}

	var missing []string
	for _, want := range RequiredEntries(archiveName) {
		if _, ok := present[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w (missing %s)", ErrMissingEntry, strings.Join(missing, ", "))
	}
	return nil
}

// Entries lists the names stored in a ZIP container.
func Entries(data []byte) ([]string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names, nil
}

// Inspect parses data as a ZIP archive named archiveName and validates it.
func Inspect(archiveName string, data []byte) error {
	if !HasZipExtension(archiveName) {
		return ErrNotZip
	}
	entries, err := Entries(data)
	if err != nil {
		return err
	}
	return Validate(archiveName, entries)
}

// stripExtension drops the final extension the way a leading-dot name keeps
// its whole base (".zip" stays ".zip").
func stripExtension(name string) string {
	ext := filepath.Ext(name)
	base := filepath.Base(name)
	if ext == "" || ext == base {
		return name
	}
	return strings.TrimSuffix(name, ext)
}
