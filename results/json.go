package results

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hupe1980/agentpair/evaluation"
)

// JSONWriter writes SessionResults as indented JSON including the trace.
type JSONWriter struct{}

// NewJSONWriter creates a JSONWriter.
func NewJSONWriter() *JSONWriter { return &JSONWriter{} }

type scoreDocument struct {
	evaluation.Score
	Total  int    `json:"total"`
	Grade  string `json:"grade"`
	Passed bool   `json:"passed"`
}

type document struct {
	*SessionResults
	Score *scoreDocument `json:"score,omitempty"`
}

// Marshal encodes results. The score carries its derived total, grade and
// pass flag for consumers that do not recompute them.
func (w *JSONWriter) Marshal(r *SessionResults) ([]byte, error) {
	doc := document{SessionResults: r}
	if r.Score != nil {
		doc.Score = &scoreDocument{
			Score:  *r.Score,
			Total:  r.Score.Total(),
			Grade:  r.Score.Grade(),
			Passed: r.Score.Passed(),
		}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Write encodes results and writes them to path.
func (w *JSONWriter) Write(r *SessionResults, path string) error {
	data, err := w.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write results json: %w", err)
	}
	return nil
}

// ReadJSON loads results previously written by JSONWriter. Derived score
// fields are ignored and recomputed from the dimension ratings.
func ReadJSON(path string) (*SessionResults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	var r SessionResults
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode results %s: %w", path, err)
	}
	return &r, nil
}
