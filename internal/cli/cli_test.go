package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/kluster/internal/models"
)

func sampleReport() *models.RunReport {
	return &models.RunReport{
		RunID:       "run-1",
		InputPath:   "kmeans-data.txt",
		OutputPath:  "kmeans-output.txt",
		NumPoints:   4,
		K:           2,
		Initial:     []models.Point{{X: 0, Y: 0}, {X: 10, Y: 0}},
		Centroids:   []models.Point{{X: 0, Y: 0.5}, {X: 10, Y: 0.5}},
		Assignments: []int{0, 0, 1, 1},
		Sizes:       []int{2, 2},
		Iterations:  2,
		State:       "converged",
		Inertia:     1,
		Duration:    time.Millisecond,
	}
}

func TestWriteRunReport(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteRunReport(&buf, sampleReport(), OutputText); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, want := range []string{
			"Read 4 data points from 'kmeans-data.txt'.",
			"Initial centroids:",
			"Centroid 1: (0, 0)",
			"Converged after 2 iterations.",
			"Results are in 'kmeans-output.txt'.",
			"Centroid 2: (10, 0.5)  [2 points]",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("text output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("text max iterations", func(t *testing.T) {
		r := sampleReport()
		r.State = "max_iterations_reached"
		r.Iterations = 100
		var buf bytes.Buffer
		_ = WriteRunReport(&buf, r, OutputText)
		if !strings.Contains(buf.String(), "Reached maximum iterations (100).") {
			t.Errorf("got:\n%s", buf.String())
		}
	})

	t.Run("compact", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteRunReport(&buf, sampleReport(), OutputCompact); err != nil {
			t.Fatal(err)
		}
		line := buf.String()
		if strings.Count(line, "\n") != 1 || !strings.HasPrefix(line, "run-1\tk=2") {
			t.Errorf("compact = %q", line)
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteRunReport(&buf, sampleReport(), OutputJSON); err != nil {
			t.Fatal(err)
		}
		var decoded models.RunReport
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if decoded.State != "converged" || len(decoded.Assignments) != 4 {
			t.Errorf("decoded = %+v", decoded)
		}
	})
}

func TestParseOutputFormat(t *testing.T) {
	for _, s := range []string{"text", "compact", "json"} {
		if _, err := ParseOutputFormat(s); err != nil {
			t.Errorf("ParseOutputFormat(%q) = %v", s, err)
		}
	}
	if _, err := ParseOutputFormat("yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestPrompter_NumClusters(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("abc\n0\n9\n3\n"), &out)
	k, err := p.NumClusters(5)
	if err != nil {
		t.Fatal(err)
	}
	if k != 3 {
		t.Errorf("k = %d, want 3", k)
	}
	text := out.String()
	if strings.Count(text, "Enter the number of clusters (k): ") != 4 {
		t.Errorf("expected 4 prompts:\n%s", text)
	}
	if !strings.Contains(text, "Please enter an integer between 1 and 5.") {
		t.Errorf("missing range message:\n%s", text)
	}
	if !strings.Contains(text, "Invalid input. Please enter a positive integer.") {
		t.Errorf("missing invalid message:\n%s", text)
	}
}

func TestPrompter_EOF(t *testing.T) {
	p := NewPrompter(strings.NewReader("x\n"), &bytes.Buffer{})
	if _, err := p.NumClusters(3); !errors.Is(err, ErrNoInput) {
		t.Errorf("err = %v, want ErrNoInput", err)
	}
}

func TestPrompter_InitialCentroids(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		p := NewPrompter(strings.NewReader("n\n"), &bytes.Buffer{})
		got, ok, err := p.InitialCentroids(2)
		if err != nil || ok || got != nil {
			t.Errorf("got %v %v %v", got, ok, err)
		}
	})

	t.Run("entered with retries", func(t *testing.T) {
		var out bytes.Buffer
		p := NewPrompter(strings.NewReader("maybe\ny\n1\nfoo\n2\n-3.5\n4\n"), &out)
		got, ok, err := p.InitialCentroids(2)
		if err != nil || !ok {
			t.Fatalf("ok=%v err=%v", ok, err)
		}
		want := []models.Point{{X: 1, Y: 2}, {X: -3.5, Y: 4}}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("centroid %d = %v, want %v", i, got[i], want[i])
			}
		}
		if !strings.Contains(out.String(), "  Centroid 2 - Enter y-coordinate: ") {
			t.Errorf("missing coordinate prompt:\n%s", out.String())
		}
		if !strings.Contains(out.String(), "Invalid choice. Please enter 'y' or 'n'.") {
			t.Errorf("missing y/n retry message:\n%s", out.String())
		}
	})
}

func TestStaticParameters(t *testing.T) {
	s := StaticParameters{K: 2, Centroids: []models.Point{{X: 1}, {X: 2}}}
	if k, err := s.NumClusters(4); err != nil || k != 2 {
		t.Errorf("NumClusters = %d, %v", k, err)
	}
	if _, err := s.NumClusters(1); !errors.Is(err, models.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
	c, ok, err := s.InitialCentroids(2)
	if err != nil || !ok || len(c) != 2 {
		t.Errorf("InitialCentroids = %v %v %v", c, ok, err)
	}
	if _, _, err := s.InitialCentroids(3); !errors.Is(err, models.ErrInvalidParameter) {
		t.Errorf("expected mismatch error, got %v", err)
	}
	if _, ok, _ := (StaticParameters{K: 1}).InitialCentroids(1); ok {
		t.Error("no centroids should mean random init")
	}
}
