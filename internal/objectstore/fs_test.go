package objectstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/masahif/songstage/internal/config"
)

func writeObject(t *testing.T, root, key, body string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func TestFileStore(t *testing.T) {
	root := t.TempDir()
	writeObject(t, root, "raw/adele_hello.json", `{"artist":{"name":"Adele"}}`)
	writeObject(t, root, "raw/nested/x.json", `{}`)
	writeObject(t, root, "raw/notes.txt", "ignored by callers, listed here")
	writeObject(t, root, "processed/adele_hello.json", `{}`)

	store, err := NewFileStore(root)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	t.Run("List", func(t *testing.T) {
		keys, err := store.List(ctx, "raw/")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		expected := []string{"raw/adele_hello.json", "raw/nested/x.json", "raw/notes.txt"}
		if !reflect.DeepEqual(keys, expected) {
			t.Errorf("List() = %v, want %v", keys, expected)
		}
	})

	t.Run("Get", func(t *testing.T) {
		body, err := store.Get(ctx, "raw/adele_hello.json")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(body) != `{"artist":{"name":"Adele"}}` {
			t.Errorf("Get() = %q", body)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := store.Get(ctx, "raw/missing.json")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("GetOutsideRoot", func(t *testing.T) {
		_, err := store.Get(ctx, "../secret.json")
		if !errors.Is(err, ErrInvalidKey) {
			t.Errorf("expected ErrInvalidKey, got %v", err)
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := store.List(cancelled, "raw/"); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestNewFileStoreErrors(t *testing.T) {
	if _, err := NewFileStore(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing root")
	}

	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := NewFileStore(file); err == nil {
		t.Error("expected error for non-directory root")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, config.StoreConfig{Provider: "FS", Root: t.TempDir()})
	if err != nil {
		t.Fatalf("Open(fs) failed: %v", err)
	}
	if _, ok := store.(*FileStore); !ok {
		t.Errorf("Open(fs) returned %T", store)
	}

	_, err = Open(ctx, config.StoreConfig{Provider: "ftp"})
	if !errors.Is(err, ErrUnsupportedProvider) {
		t.Errorf("expected ErrUnsupportedProvider, got %v", err)
	}
}
