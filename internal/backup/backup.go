package backup

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"cleanquest/internal/model"
)

const schemaURL = "https://cleanquest.local/schemas/appstate.schema.json"

//go:embed appstate.schema.json
var schemaJSON string

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("backup schema load failed: %w", err)
	}
	s, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("backup schema compile failed: %w", err)
	}
	return s, nil
})

// Problem is one reason a document was rejected.
type Problem struct {
	Path    string
	Message string
}

// ValidationError lists every problem found in an import document.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		if p.Path == "" {
			parts = append(parts, p.Message)
			continue
		}
		parts = append(parts, p.Path+": "+p.Message)
	}
	return fmt.Sprintf("invalid backup (%d problem(s)): %s", len(e.Problems), strings.Join(parts, "; "))
}

// FileName is the export file name for the given day.
func FileName(now time.Time) string {
	return "cleanquest-backup-" + now.UTC().Format("2006-01-02") + ".json"
}

// Export writes s as indented JSON.
func Export(w io.Writer, s model.AppState) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("export encode: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("export write: %w", err)
	}
	return nil
}

// WriteFile exports s into dir and returns the file path and its size.
func WriteFile(dir string, s model.AppState, now time.Time) (string, int64, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("export dir: %w", err)
	}
	var buf bytes.Buffer
	if err := Export(&buf, s); err != nil {
		return "", 0, err
	}
	path := filepath.Join(dir, FileName(now))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", 0, fmt.Errorf("export write: %w", err)
	}
	return path, int64(buf.Len()), nil
}

// Parse validates data against the backup schema and decodes it. The error
// is a *ValidationError when the document itself is at fault.
func Parse(data []byte) (model.AppState, error) {
	schema, err := compiledSchema()
	if err != nil {
		return model.AppState{}, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return model.AppState{}, &ValidationError{Problems: []Problem{{Message: "malformed JSON: " + err.Error()}}}
	}

	if err := schema.Validate(doc); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return model.AppState{}, fmt.Errorf("backup validate: %w", err)
		}
		return model.AppState{}, &ValidationError{Problems: problems(ve)}
	}

	var s model.AppState
	if err := json.Unmarshal(data, &s); err != nil {
		return model.AppState{}, &ValidationError{Problems: []Problem{{Message: "decode: " + err.Error()}}}
	}
	return s, nil
}

// ReadFile reads and parses an export file.
func ReadFile(path string) (model.AppState, int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.AppState{}, 0, fmt.Errorf("import read: %w", err)
	}
	s, err := Parse(data)
	return s, int64(len(data)), err
}

// problems flattens the schema error tree into its leaves.
func problems(ve *jsonschema.ValidationError) []Problem {
	var out []Problem
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, Problem{Path: e.InstanceLocation, Message: e.Message})
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
