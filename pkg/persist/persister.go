package persist

import (
	"fmt"
	"os"
	"path/filepath"
)

// SaveState writes state to dir/basename plus the codec's extension.
func SaveState(dir, basename string, codec Codec, state any) error {
	path := filepath.Join(dir, basename+codec.Extension())

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	if err := codec.Encode(file, state); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	return nil
}

// LoadState reads state from dir/basename plus the codec's extension.
// state must be a pointer to the target value.
func LoadState(dir, basename string, codec Codec, state any) error {
	path := filepath.Join(dir, basename+codec.Extension())

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if err := codec.Decode(file, state); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	return nil
}

// Persister handles I/O for one state type using a Codec.
type Persister[T any] struct {
	basename string
	codec    Codec
}

// NewPersister binds a basename and codec to the state type T.
func NewPersister[T any](basename string, codec Codec) *Persister[T] {
	return &Persister[T]{basename: basename, codec: codec}
}

// Save writes the state produced by buildState into dir.
func (p *Persister[T]) Save(dir string, buildState func() *T) error {
	return SaveState(dir, p.basename, p.codec, buildState())
}

// Load reads state from dir and hands it to restoreState.
func (p *Persister[T]) Load(dir string, restoreState func(*T)) error {
	var state T

	err := LoadState(dir, p.basename, p.codec, &state)
	if err != nil {
		return err
	}

	restoreState(&state)

	return nil
}

// Path returns the file path Save and Load use under dir.
func (p *Persister[T]) Path(dir string) string {
	return filepath.Join(dir, p.basename+p.codec.Extension())
}
