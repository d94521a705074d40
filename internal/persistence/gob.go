package persistence

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SaveGob encodes the given object using gob and saves it to the specified filePath.
// It creates necessary directories if they don't exist.
func SaveGob(filePath string, object interface{}) (err error) {
	// Ensure the directory exists
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	file, err := os.Create(filePath) // #nosec G304 -- filePath is controlled by application, not user input
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", filePath, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close file %s: %w", filePath, closeErr)
		}
	}()

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(object); err != nil {
		return fmt.Errorf("failed to gob encode to file %s: %w", filePath, err)
	}
	return nil
}

// DecodeError wraps a failure to decode an existing file, as opposed to failing to read it.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to gob decode from file %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// LoadGob decodes a gob-encoded file from filePath into the provided object pointer.
// The object must be a pointer to the type that was originally encoded.
// If the file does not exist, it returns os.ErrNotExist. A file that opens but
// does not decode yields a *DecodeError.
func LoadGob(filePath string, objectPointer interface{}) error {
	file, err := os.Open(filePath) // #nosec G304 -- filePath is controlled by application, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return os.ErrNotExist // Return specific error for non-existent file
		}
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer func() { _ = file.Close() }()

	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(objectPointer); err != nil {
		return &DecodeError{Path: filePath, Err: err}
	}
	return nil
}

// PublishDir writes a directory through a temporary sibling and renames it into
// place, so readers see either the previous directory or the complete new one.
// An existing directory at finalDir is replaced. On error nothing is left behind.
func PublishDir(finalDir string, write func(tmpDir string) error) error {
	parent := filepath.Dir(finalDir)
	if err := os.MkdirAll(parent, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", parent, err)
	}

	tmpDir, err := os.MkdirTemp(parent, "."+filepath.Base(finalDir)+".tmp-")
	if err != nil {
		return fmt.Errorf("failed to create staging directory in %s: %w", parent, err)
	}
	published := false
	defer func() {
		if !published {
			_ = os.RemoveAll(tmpDir)
		}
	}()

	if err := write(tmpDir); err != nil {
		return err
	}

	var backup string
	if _, err := os.Stat(finalDir); err == nil {
		backup = tmpDir + ".old"
		if err := os.Rename(finalDir, backup); err != nil {
			return fmt.Errorf("failed to move aside %s: %w", finalDir, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", finalDir, err)
	}

	if err := os.Rename(tmpDir, finalDir); err != nil {
		if backup != "" {
			_ = os.Rename(backup, finalDir)
		}
		return fmt.Errorf("failed to publish %s: %w", finalDir, err)
	}
	published = true

	if backup != "" {
		_ = os.RemoveAll(backup)
	}
	return nil
}
