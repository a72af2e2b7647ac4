package fileid

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/kluster/internal/models"
)

func TestDigest(t *testing.T) {
	d1 := Digest([]byte("1,2\n3,4\n"))
	d2 := Digest([]byte("1,2\n3,4\n"))
	if d1 != d2 {
		t.Errorf("same content should give same digest: %q vs %q", d1, d2)
	}
	if !strings.HasPrefix(d1, prefix) {
		t.Errorf("digest should have prefix %q: got %q", prefix, d1)
	}
	if Digest([]byte("1,2\n")) == d1 {
		t.Error("different content should give different digests")
	}
}

func TestFileDigest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	if err := os.WriteFile(path, []byte("5 6\n"), 0600); err != nil {
		t.Fatal(err)
	}
	got, err := FileDigest(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != Digest([]byte("5 6\n")) {
		t.Errorf("FileDigest() = %q, want digest of content", got)
	}

	if _, err := FileDigest(filepath.Join(t.TempDir(), "missing.txt")); !errors.Is(err, models.ErrIO) {
		t.Errorf("missing file err = %v, want ErrIO", err)
	}
}

func TestTracker(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	write := func(content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}
	tr := NewTracker()
	write("1,1\n")

	steps := []struct {
		name    string
		content string
		path    string
		want    bool
	}{
		{"first sight", "1,1\n", path, true},
		{"same content rewritten", "1,1\n", path, false},
		{"uncleaned path is the same file", "1,1\n", filepath.Join(dir, ".", "data.txt"), false},
		{"content changed", "2,2\n", path, true},
	}
	for _, st := range steps {
		write(st.content)
		got, err := tr.Changed(st.path)
		if err != nil {
			t.Fatalf("%s: %v", st.name, err)
		}
		if got != st.want {
			t.Errorf("%s: Changed() = %v, want %v", st.name, got, st.want)
		}
	}

	tr.Forget(path)
	if got, _ := tr.Changed(path); !got {
		t.Error("Changed() after Forget should report a change")
	}
}

func TestTracker_RelativeAndAbsoluteAreSameFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.WriteFile("kmeans-data.txt", []byte("1,2\n3,4\n"), 0600); err != nil {
		t.Fatal(err)
	}
	abs, err := filepath.Abs("kmeans-data.txt")
	if err != nil {
		t.Fatal(err)
	}

	tr := NewTracker()
	if got, err := tr.Changed("kmeans-data.txt"); err != nil || !got {
		t.Fatalf("first Changed() = %v, %v, want true", got, err)
	}
	if got, err := tr.Changed(abs); err != nil || got {
		t.Errorf("Changed(abs) on unchanged file = %v, %v, want false", got, err)
	}

	tr.Forget(abs)
	if got, _ := tr.Changed("kmeans-data.txt"); !got {
		t.Error("Forget(abs) should also clear the relative path")
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
