package utils

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestSafeWriteFileCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.csv")
	if err := SafeWriteFile(path, []byte("x,y\n")); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "x,y\n" {
		t.Fatalf("content = %q", b)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file should be gone, stat err = %v", err)
	}
}

func TestWriteAtomicFailureKeepsOriginal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := os.WriteFile(path, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	err := WriteAtomic(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	b, _ := os.ReadFile(path)
	if string(b) != "original" {
		t.Fatalf("original overwritten: %q", b)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind, stat err = %v", err)
	}
}

func TestWriteAtomicNoFileOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.png")
	_ = WriteAtomic(path, func(io.Writer) error { return errors.New("render failed") })
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("output should not exist, stat err = %v", err)
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"rows": 2})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "{\n  \"rows\": 2\n}" {
		t.Fatalf("json = %q", b)
	}
}

func TestWriteFilesAtomicWritesAll(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "report.md")
	b := filepath.Join(dir, "plots", "image.png")
	if err := WriteFilesAtomic(File{Path: a, Data: []byte("# r")}, File{Path: b, Data: []byte("png")}); err != nil {
		t.Fatalf("WriteFilesAtomic: %v", err)
	}
	for path, want := range map[string]string{a: "# r", b: "png"} {
		got, err := os.ReadFile(path)
		if err != nil || string(got) != want {
			t.Fatalf("%s = %q, %v; want %q", path, got, err, want)
		}
		if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
			t.Fatalf("temp file for %s left behind", path)
		}
	}
}

func TestWriteFilesAtomicFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("file"), 0o644); err != nil {
		t.Fatal(err)
	}
	good := filepath.Join(dir, "image.png")
	bad := filepath.Join(blocker, "report.md")
	if err := WriteFilesAtomic(File{Path: good, Data: []byte("png")}, File{Path: bad, Data: []byte("# r")}); err == nil {
		t.Fatal("expected error for a path under a regular file")
	}
	if _, err := os.Stat(good); !os.IsNotExist(err) {
		t.Fatalf("first file should not be written, stat err = %v", err)
	}
	if _, err := os.Stat(good + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("staged file should be removed, stat err = %v", err)
	}
}
