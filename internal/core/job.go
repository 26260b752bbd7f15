package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Job describes one file-to-file conversion.
type Job struct {
	Variant     Variant
	ResultsPath string
	ExitsPath   string // Read only when the variant emits exits
	OutputPath  string
	Options     Options
}

// Run reads the inputs, converts them, and writes the script to OutputPath.
// The output file is replaced atomically, so a failed run never leaves a
// partial script behind.
func (j Job) Run(ctx context.Context) (*Result, error) {
	results, err := ReadFile(j.ResultsPath)
	if err != nil {
		return nil, err
	}

	var exits []RawRow
	if j.Variant.UsesExits() {
		if j.ExitsPath == "" {
			return nil, fmt.Errorf("variant %s requires an exits file", j.Variant.Name)
		}
		if exits, err = ReadFile(j.ExitsPath); err != nil {
			return nil, err
		}
	}

	in, err := LoadInput(results, exits)
	if err != nil {
		return nil, err
	}

	res, err := Convert(ctx, j.Variant, in, j.Options)
	if err != nil {
		return nil, err
	}

	if err := WriteFileAtomic(j.OutputPath, res.Script.Bytes()); err != nil {
		return nil, err
	}
	return res, nil
}

// WriteFileAtomic writes data to a temp file next to path and renames it
// into place.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod output: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}
