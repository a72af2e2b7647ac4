package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/hyperjump/kluster/internal/models"
)

// ParameterProvider supplies the run parameters that are not fixed by flags
// or config: the number of clusters and, optionally, initial centroids.
type ParameterProvider interface {
	// NumClusters returns k in [1, max].
	NumClusters(max int) (int, error)
	// InitialCentroids returns k centroids and true, or false when the caller
	// wants random initialization.
	InitialCentroids(k int) ([]models.Point, bool, error)
}

// StaticParameters is a ParameterProvider with fixed answers.
type StaticParameters struct {
	K         int
	Centroids []models.Point
}

// NumClusters returns the configured k, or an error when it is outside [1, max].
func (s StaticParameters) NumClusters(max int) (int, error) {
	if s.K < 1 || s.K > max {
		return 0, models.InvalidParameterf("k must be between 1 and %d, got %d", max, s.K)
	}
	return s.K, nil
}

// InitialCentroids returns the configured centroids when present.
func (s StaticParameters) InitialCentroids(k int) ([]models.Point, bool, error) {
	if len(s.Centroids) == 0 {
		return nil, false, nil
	}
	if len(s.Centroids) != k {
		return nil, false, models.InvalidParameterf("expected %d centroids, got %d", k, len(s.Centroids))
	}
	return models.ClonePoints(s.Centroids), true, nil
}

// ErrNoInput is returned when the prompt input ends before an answer is read.
var ErrNoInput = errors.New("no more input")

// Prompter asks for parameters on a line-oriented terminal. Invalid answers
// are reported and asked again until a valid one arrives or input ends.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPrompter returns a Prompter reading answers from in and writing prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// NumClusters prompts until an integer in [1, max] is entered.
func (p *Prompter) NumClusters(max int) (int, error) {
	for {
		line, err := p.ask("Enter the number of clusters (k): ")
		if err != nil {
			return 0, err
		}
		k, err := strconv.Atoi(line)
		if err != nil || k < 1 {
			fmt.Fprintln(p.out, "Invalid input. Please enter a positive integer.")
			continue
		}
		if k > max {
			fmt.Fprintf(p.out, "Please enter an integer between 1 and %d.\n", max)
			continue
		}
		return k, nil
	}
}

// InitialCentroids asks whether to enter centroids and, if so, reads k of them.
func (p *Prompter) InitialCentroids(k int) ([]models.Point, bool, error) {
	manual, err := p.confirm("Do you want to input initial centroids? (y/n): ")
	if err != nil || !manual {
		return nil, false, err
	}
	centroids := make([]models.Point, k)
	for i := range centroids {
		x, err := p.coordinate(fmt.Sprintf("  Centroid %d - Enter x-coordinate: ", i+1))
		if err != nil {
			return nil, false, err
		}
		y, err := p.coordinate(fmt.Sprintf("  Centroid %d - Enter y-coordinate: ", i+1))
		if err != nil {
			return nil, false, err
		}
		centroids[i] = models.Point{X: x, Y: y}
	}
	return centroids, true, nil
}

func (p *Prompter) confirm(prompt string) (bool, error) {
	for {
		line, err := p.ask(prompt)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Invalid choice. Please enter 'y' or 'n'.")
	}
}

func (p *Prompter) coordinate(prompt string) (float64, error) {
	for {
		line, err := p.ask(prompt)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(line, 64)
		if err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			return v, nil
		}
		fmt.Fprintln(p.out, "Invalid input. Please enter a numeric value.")
	}
}

func (p *Prompter) ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", &models.IOError{Op: "read", Path: "stdin", Err: err}
		}
		return "", ErrNoInput
	}
	return strings.TrimSpace(p.in.Text()), nil
}
