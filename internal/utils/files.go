package utils

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EnsureParentDir ensures the directory holding path exists.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// SafeWriteFile writes data to a temp file and atomically renames it into place.
func SafeWriteFile(path string, data []byte) error {
	return WriteAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// WriteAtomic streams fill into path.tmp and renames it over path once fill
// and the flush succeed. On any failure the temp file is removed and path is
// left untouched.
func WriteAtomic(path string, fill func(w io.Writer) error) error {
	tmp, err := stage(path, fill)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// File is one output of WriteFilesAtomic.
type File struct {
	Path string
	Data []byte
}

// WriteFilesAtomic stages every file next to its target before renaming any
// of them, so a failure while writing leaves all targets untouched. Renames
// run in order; put the file other tools watch for last.
func WriteFilesAtomic(files ...File) error {
	tmps := make([]string, 0, len(files))
	cleanup := func() {
		for _, t := range tmps {
			_ = os.Remove(t)
		}
	}
	for _, f := range files {
		data := f.Data
		tmp, err := stage(f.Path, func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		})
		if err != nil {
			cleanup()
			return fmt.Errorf("%s: %w", f.Path, err)
		}
		tmps = append(tmps, tmp)
	}
	for i, f := range files {
		if err := os.Rename(tmps[i], f.Path); err != nil {
			tmps = tmps[i:]
			cleanup()
			return fmt.Errorf("atomic rename %s: %w", f.Path, err)
		}
	}
	return nil
}

// stage writes fill into path.tmp and returns the temp path.
func stage(path string, fill func(w io.Writer) error) (tmp string, err error) {
	if err := EnsureParentDir(path); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	tmp = path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()
	bw := bufio.NewWriter(f)
	if err = fill(bw); err != nil {
		return "", err
	}
	if err = bw.Flush(); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err = f.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return tmp, nil
}

// PrettyJSON marshals a value as indented JSON.
func PrettyJSON(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return b, nil
}
