package bank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultLocation is where the bank is read from when nothing else is configured.
const DefaultLocation = "data/merged_questions.json"

// maxBankBytes caps how much of a remote bank is read.
const maxBankBytes = 32 << 20

// Format is the encoding of a bank document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// LoadError reports a failed bank load. Stage is one of "fetch", "parse",
// "schema", or "validate".
type LoadError struct {
	Location string
	Stage    string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load bank %s: %s: %v", e.Location, e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader reads a question bank from a local path or an http(s) URL.
type Loader struct {
	client *http.Client
}

// NewLoader creates a Loader whose HTTP fetches give up after timeout.
func NewLoader(timeout time.Duration) *Loader {
	return &Loader{client: &http.Client{Timeout: timeout}}
}

// Load fetches, parses, and validates the bank at location. It is the one
// blocking step of session startup and makes a single attempt.
func (l *Loader) Load(ctx context.Context, location string) (*Bank, error) {
	data, err := l.fetch(ctx, location)
	if err != nil {
		return nil, &LoadError{Location: location, Stage: "fetch", Err: err}
	}
	b, err := Parse(data, FormatFor(location))
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Location = location
		}
		return nil, err
	}
	return b, nil
}

// FormatFor picks a format from the location's extension. Anything that is
// not .yaml or .yml is treated as JSON.
func FormatFor(location string) Format {
	p := location
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes and validates a bank document.
func Parse(data []byte, format Format) (*Bank, error) {
	if format == FormatYAML {
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, &LoadError{Stage: "parse", Err: err}
		}
		data = converted
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Stage: "parse", Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := validateSchema(doc); err != nil {
		return nil, &LoadError{Stage: "schema", Err: err}
	}

	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, &LoadError{Stage: "parse", Err: err}
	}
	b, err := New(questions)
	if err != nil {
		return nil, &LoadError{Stage: "validate", Err: err}
	}
	return b, nil
}

func (l *Loader) fetch(ctx context.Context, location string) ([]byte, error) {
	if !isRemote(location) {
		return os.ReadFile(location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBankBytes))
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// yamlToJSON re-encodes a YAML document as JSON so both formats share the
// schema check and decoder.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return json.Marshal(stringKeys(doc))
}

// stringKeys converts YAML mappings with non-string keys (e.g. numeric
// option keys) into JSON-compatible maps.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = stringKeys(child)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, child := range t {
			m[fmt.Sprint(k)] = stringKeys(child)
		}
		return m
	case []any:
		for i, child := range t {
			t[i] = stringKeys(child)
		}
		return t
	default:
		return v
	}
}
