// Package seed provides the sample board every session starts with.
package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dori/taskboard/internal/model"
)

//go:embed board.yaml
var defaultBoard []byte

type file struct {
	Tasks []model.Task `yaml:"tasks"`
}

// Default returns the embedded sample tasks
func Default() []model.Task {
	tasks, err := Load(bytes.NewReader(defaultBoard))
	if err != nil {
		panic(fmt.Sprintf("seed: embedded board is invalid: %v", err))
	}
	return tasks
}

// Load decodes a seed document
func Load(r io.Reader) ([]model.Task, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding seed: %w", err)
	}

	for i, t := range f.Tasks {
		if t.ID == "" {
			return nil, fmt.Errorf("seed task %d: missing id", i)
		}
		if !t.Status.Valid() {
			return nil, fmt.Errorf("seed task %s: unknown status %q", t.ID, t.Status)
		}
		if t.Priority.Rank() == 0 {
			return nil, fmt.Errorf("seed task %s: unknown priority %q", t.ID, t.Priority)
		}
		if t.UpdatedAt.IsZero() {
			f.Tasks[i].UpdatedAt = t.CreatedAt
		}
	}
	return f.Tasks, nil
}

// LoadFile reads a seed document from path. An empty path returns Default.
func LoadFile(path string) ([]model.Task, error) {
	if path == "" {
		return Default(), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening seed file: %w", err)
	}
	defer fh.Close()
	return Load(fh)
}
