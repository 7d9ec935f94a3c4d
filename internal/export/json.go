// Package export writes aggregation reports as JSON documents.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go-ad-stats/internal/model"
)

// Output describes one written report file.
type Output struct {
	Path   string `json:"path"`
	Kind   string `json:"kind"`
	Groups int    `json:"groups"`
}

// WriteReports writes the three report documents next to basename:
// <basename>_overall.json, <basename>_by_page.json and
// <basename>_by_page_ad.json. Files are written to a temporary name and
// renamed into place, so a failed run leaves no partial document behind.
func WriteReports(basename string, overall model.GroupSummary, byPage, byPageAd model.Report) ([]Output, error) {
	if dir := filepath.Dir(basename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}

	docs := []struct {
		kind   string
		path   string
		value  interface{}
		groups int
	}{
		{"overall", basename + "_overall.json", overall, 1},
		{"by_page", basename + "_by_page.json", byPage, len(byPage)},
		{"by_page_ad", basename + "_by_page_ad.json", byPageAd, len(byPageAd)},
	}

	var outputs []Output
	for _, doc := range docs {
		if err := writeJSON(doc.path, doc.value); err != nil {
			return nil, err
		}
		outputs = append(outputs, Output{Path: doc.path, Kind: doc.kind, Groups: doc.groups})
	}
	return outputs, nil
}

func writeJSON(path string, v interface{}) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}
