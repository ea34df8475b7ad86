package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/viant/afs"
)

// FileStore persists credentials as a JSON document at URL. Every call goes
// to the underlying storage, so separate processes sharing URL observe each
// other's writes.
type FileStore struct {
	mu  sync.Mutex
	URL string
	fs  afs.Service
}

// NewFileStore creates a Store backed by the afs resource at URL.
func NewFileStore(URL string) Store {
	return &FileStore{URL: URL, fs: afs.New()}
}

func (f *FileStore) Get(ctx context.Context, name string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.load(ctx)
	if err != nil {
		return "", false, err
	}
	value, ok := entries[name]
	return value, ok, nil
}

func (f *FileStore) Set(ctx context.Context, name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.load(ctx)
	if err != nil {
		return err
	}
	entries[name] = value
	return f.save(ctx, entries)
}

func (f *FileStore) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ok, err := f.fs.Exists(ctx, f.URL)
	if err != nil {
		return fmt.Errorf("failed to check %v: %w", f.URL, err)
	}
	if !ok {
		return nil
	}
	if err = f.fs.Delete(ctx, f.URL); err != nil {
		return fmt.Errorf("failed to delete %v: %w", f.URL, err)
	}
	return nil
}

// ---- persistence ----

func (f *FileStore) load(ctx context.Context) (map[string]string, error) {
	entries := map[string]string{}
	ok, err := f.fs.Exists(ctx, f.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check %v: %w", f.URL, err)
	}
	if !ok {
		return entries, nil
	}
	data, err := f.fs.DownloadWithURL(ctx, f.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download %v: %w", f.URL, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return entries, nil
	}
	if err = json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode %v: %w", f.URL, err)
	}
	return entries, nil
}

func (f *FileStore) save(ctx context.Context, entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err = f.fs.Upload(ctx, f.URL, 0o600, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to upload %v: %w", f.URL, err)
	}
	return nil
}
