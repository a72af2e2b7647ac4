package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) record(path string) {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func startWatcher(t *testing.T, targets []string, rec *recorder, opts ...Option) *Watcher {
	t.Helper()
	opts = append(opts, WithDebounce(100*time.Millisecond))
	w := NewWatcher(targets, rec.record, opts...)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(w.Stop)
	return w
}

func TestWatcher_FileTarget(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "kmeans-data.txt")
	rec := &recorder{}
	startWatcher(t, []string{input}, rec)

	// Several quick writes collapse into one change.
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(input, []byte("1,2\n3,4\n"), 0600); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	// Siblings are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("5,6\n"), 0600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(500 * time.Millisecond)

	got := rec.snapshot()
	if len(got) != 1 {
		t.Fatalf("onChange calls = %v, want exactly one", got)
	}
	if got[0] != input {
		t.Errorf("onChange path = %q, want %q", got[0], input)
	}
}

func TestWatcher_DirectoryTargetFiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatcher(t, []string{dir}, rec, WithExtensions([]string{".csv"}))

	if err := os.WriteFile(filepath.Join(dir, "a.csv"), []byte("1,2\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(500 * time.Millisecond)

	got := rec.snapshot()
	if len(got) != 1 || filepath.Base(got[0]) != "a.csv" {
		t.Errorf("onChange calls = %v, want only a.csv", got)
	}
}

func TestWatcher_StopDropsPending(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "data.txt")
	rec := &recorder{}
	w := startWatcher(t, []string{input}, rec)
	if len(w.Targets()) != 1 || !filepath.IsAbs(w.Targets()[0]) {
		t.Errorf("Targets() = %v", w.Targets())
	}

	if err := os.WriteFile(input, []byte("1,2\n"), 0600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)
	w.Stop()
	w.Stop()
	time.Sleep(300 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("expected no callbacks after Stop, got %v", got)
	}
}

func TestWatcher_TriggerSerializesWithEvents(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "data.txt")
	if err := os.WriteFile(input, []byte("1,2\n"), 0600); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	var (
		mu      sync.Mutex
		active  int
		overlap bool
		paths   []string
	)
	onChange := func(path string) {
		mu.Lock()
		active++
		if active > 1 {
			overlap = true
		}
		paths = append(paths, path)
		mu.Unlock()
		time.Sleep(200 * time.Millisecond)
		mu.Lock()
		active--
		mu.Unlock()
	}
	w := NewWatcher([]string{input}, onChange, WithDebounce(20*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(w.Stop)

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(input, []byte("3,4\n"), 0600)
	}()
	w.Trigger("data.txt")
	time.Sleep(500 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if overlap {
		t.Error("Trigger ran concurrently with a debounced change")
	}
	if len(paths) != 2 {
		t.Fatalf("onChange calls = %v, want two", paths)
	}
	for _, p := range paths {
		if p != input {
			t.Errorf("onChange path = %q, want absolute %q", p, input)
		}
	}
}

func TestWatcher_MissingParentDir(t *testing.T) {
	w := NewWatcher([]string{filepath.Join(t.TempDir(), "nope", "data.txt")}, nil)
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Error("expected error when the parent directory is missing")
	}
}

func TestMatchExtension(t *testing.T) {
	tests := []struct {
		path       string
		extensions []string
		want       bool
	}{
		{"/a/b.txt", []string{".txt"}, true},
		{"/a/b.TXT", []string{".txt"}, true},
		{"/a/b.xlsx", []string{"xlsx"}, true},
		{"/a/b.md", []string{".txt"}, false},
		{"/a/b", nil, true},
		{"/a/b", []string{}, true},
	}
	for _, tt := range tests {
		got := matchExtension(tt.path, tt.extensions)
		if got != tt.want {
			t.Errorf("matchExtension(%q, %v) = %v, want %v", tt.path, tt.extensions, got, tt.want)
		}
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
