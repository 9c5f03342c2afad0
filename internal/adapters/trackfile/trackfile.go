// Package trackfile reads tracking documents from disk. A video's id is the
// stem of its file name, so match-01.json ingests as video "match-01".
package trackfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/j0rgedev/football-analysis/internal/domain/model"
)

// Ext is the extension of tracking documents.
const Ext = ".json"

// ErrDecode reports a tracking document that is not valid JSON or has the
// wrong shape.
var ErrDecode = errors.New("decode tracking document")

// Read decodes and validates the tracking document at path.
func Read(path string) (model.TrackingInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.TrackingInput{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	in, err := Decode(f)
	if err != nil {
		return model.TrackingInput{}, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

// Decode reads one tracking document from r and validates its tracks.
func Decode(r io.Reader) (model.TrackingInput, error) {
	var in model.TrackingInput
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return model.TrackingInput{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := in.Tracks.Validate(); err != nil {
		return model.TrackingInput{}, err
	}
	return in, nil
}

// VideoID returns the file stem of path.
func VideoID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsTrackFile reports whether path names a tracking document.
func IsTrackFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Ext) && VideoID(path) != ""
}

// List returns the tracking documents in dir sorted by name, and the names
// of the regular files it skipped.
func List(dir string) (files, skipped []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("list %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if IsTrackFile(path) {
			files = append(files, path)
		} else {
			skipped = append(skipped, path)
		}
	}
	sort.Strings(files)
	return files, skipped, nil
}
