// Package loader reads the API description and the traffic log from disk.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/usestring/harcheck/pkg/apidesc"
)

// StartupError reports an input file that could not be read, parsed, or
// compiled. It is fatal: no entry is processed after one.
type StartupError struct {
	Op   string // "read", "parse" or "compile"
	Path string
	Err  error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// LoadDescription reads an API description. Files ending in .yaml or .yml
// are decoded as YAML, everything else as JSON. URL templates are compiled
// before returning.
func LoadDescription(path string) (*apidesc.Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StartupError{Op: "read", Path: path, Err: err}
	}

	var desc apidesc.Description
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &desc)
	default:
		err = json.Unmarshal(data, &desc)
	}
	if err != nil {
		return nil, &StartupError{Op: "parse", Path: path, Err: err}
	}

	if err := desc.Compile(); err != nil {
		return nil, &StartupError{Op: "compile", Path: path, Err: err}
	}
	return &desc, nil
}

// LoadLog reads a traffic log as a generic JSON tree.
func LoadLog(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StartupError{Op: "read", Path: path, Err: err}
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &StartupError{Op: "parse", Path: path, Err: err}
	}
	return doc, nil
}
