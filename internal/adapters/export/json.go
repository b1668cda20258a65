// Package export renders itinerary export views as downloadable documents.
package export

import (
	"encoding/json"
	"io"

	"github.com/samirrijal/expedition-planner/internal/core/domain"
)

// WriteJSON writes v as JSON indented with four spaces.
func WriteJSON(w io.Writer, v domain.ExportView) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(v)
}

// ReadJSON parses a document produced by WriteJSON.
func ReadJSON(r io.Reader) (domain.ExportView, error) {
	var v domain.ExportView
	dec := json.NewDecoder(r)
	if err := dec.Decode(&v); err != nil {
		return domain.ExportView{}, err
	}
	return v, nil
}
