// Package main is the kluster CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/kluster/internal/cli"
	"github.com/hyperjump/kluster/internal/config"
	"github.com/hyperjump/kluster/internal/fileid"
	"github.com/hyperjump/kluster/internal/models"
	"github.com/hyperjump/kluster/internal/plot"
	"github.com/hyperjump/kluster/internal/runner"
	"github.com/hyperjump/kluster/internal/server"
	"github.com/hyperjump/kluster/internal/watcher"
	"github.com/hyperjump/kluster/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const (
	defaultConfigPath = "kluster.yaml"
	defaultPlotPath   = "kmeans-plot.html"
)

// loadConfig loads config from path. A missing file at the default path is not
// an error: built-in defaults are used so kluster runs without any config.
// An explicitly named file must exist.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	if !explicit {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

// flagWasSet reports whether name was given on the command line.
func flagWasSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// parseCentroids parses "x,y;x,y" into points.
func parseCentroids(s string) ([]models.Point, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var points []models.Point
	for i, pair := range strings.Split(s, ";") {
		fields := strings.Split(pair, ",")
		if len(fields) != 2 {
			return nil, models.InvalidParameterf("centroid %d: expected \"x,y\", got %q", i+1, pair)
		}
		var xy [2]float64
		for j, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, models.InvalidParameterf("centroid %d: non-numeric value %q", i+1, strings.TrimSpace(f))
			}
			xy[j] = v
		}
		p := models.Point{X: xy[0], Y: xy[1]}
		if !p.IsFinite() {
			return nil, models.InvalidParameterf("centroid %d: non-finite coordinate", i+1)
		}
		points = append(points, p)
	}
	return points, nil
}

func toConfigCentroids(points []models.Point) [][2]float64 {
	out := make([][2]float64, len(points))
	for i, p := range points {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}

// selectProvider prompts when asked to, or when k is not configured.
func selectProvider(cfg *config.Config, interactive bool, in io.Reader, out io.Writer) cli.ParameterProvider {
	if interactive || cfg.Clustering.K == 0 {
		return cli.NewPrompter(in, out)
	}
	return cli.StaticParameters{K: cfg.Clustering.K, Centroids: cfg.Clustering.InitialCentroids()}
}

// outputFor derives the result and plot paths for a dataset found in a
// watched directory: "<name>-output<ext>" next to the configured output.
func outputFor(input string, cfg *config.Config) (string, string) {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	out := filepath.Join(filepath.Dir(cfg.Output.Path), base+"-output"+filepath.Ext(cfg.Output.Path))
	plotPath := ""
	if cfg.Plot.Path != "" {
		plotPath = filepath.Join(filepath.Dir(cfg.Plot.Path), base+"-plot"+filepath.Ext(cfg.Plot.Path))
	}
	return out, plotPath
}

func newLogger(cfg *config.Config, debug bool) *zap.Logger {
	logger, err := utils.NewLoggerFromConfig(cfg.Log, cfg.Debug || debug)
	if err != nil {
		fail(fmt.Errorf("failed to create logger: %w", err))
	}
	return logger
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "run":
		runCluster()
	case "plot":
		runPlot()
	case "serve", "server":
		runServer()
	case "watch":
		runWatch()
	case "version", "--version", "-v":
		fmt.Printf("kluster version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runCluster() {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	input := fs.String("input", "", "input dataset (.txt, .csv, .tsv or .xlsx)")
	output := fs.String("output", "", "results file (.txt or .xlsx)")
	k := fs.Int("k", 0, "number of clusters (0 = ask)")
	centroids := fs.String("centroids", "", `initial centroids as "x,y;x,y"`)
	seed := fs.Int64("seed", 0, "random seed (0 = time based)")
	maxIter := fs.Int("max-iterations", 0, "iteration cap (default from config, or 100)")
	tolerance := fs.Float64("tolerance", 0, "convergence tolerance (default from config, or 1e-4)")
	interactive := fs.Bool("interactive", false, "prompt for k and initial centroids")
	visualize := visualizeFlag(fs)
	plotPath := fs.String("plot", "", "plot file path (implies --visualize)")
	format := fs.String("format", "text", "output format: text, compact, or json")
	debug := fs.Bool("debug", false, "enable debug logging (per-iteration centroid movement)")
	_ = fs.Parse(os.Args[2:])

	outFormat, err := cli.ParseOutputFormat(*format)
	if err != nil {
		fail(err)
	}
	cfg, err := loadConfig(*configPath, flagWasSet(fs, "config"))
	if err != nil {
		fail(err)
	}
	if *input != "" {
		cfg.Input.Path = *input
	}
	if *output != "" {
		cfg.Output.Path = *output
	}
	if flagWasSet(fs, "centroids") {
		points, err := parseCentroids(*centroids)
		if err != nil {
			fail(err)
		}
		cfg.Clustering.Centroids = toConfigCentroids(points)
		if !flagWasSet(fs, "k") {
			cfg.Clustering.K = len(points)
		}
	}
	if flagWasSet(fs, "k") {
		cfg.Clustering.K = *k
	}
	if flagWasSet(fs, "seed") {
		cfg.Clustering.Seed = *seed
	}
	if flagWasSet(fs, "max-iterations") {
		cfg.Clustering.MaxIterations = *maxIter
	}
	if flagWasSet(fs, "tolerance") {
		cfg.Clustering.Tolerance = *tolerance
	}
	switch {
	case *plotPath != "":
		cfg.Plot.Path = *plotPath
	case *visualize && cfg.Plot.Path == "":
		cfg.Plot.Path = defaultPlotPath
	}
	if err := cfg.Validate(); err != nil {
		fail(err)
	}

	logger := newLogger(cfg, *debug)
	defer logger.Sync()

	params := selectProvider(cfg, *interactive, os.Stdin, os.Stdout)
	r := runner.New(runner.WithLogger(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	report, err := r.Run(ctx, runner.RequestFromConfig(cfg, params))
	if report != nil {
		if werr := cli.WriteRunReport(os.Stdout, report, outFormat); werr != nil {
			fail(werr)
		}
	}
	if err != nil {
		fail(err)
	}
}

// visualizeFlag registers --visualize and its -v shorthand on the same value.
func visualizeFlag(fs *flag.FlagSet) *bool {
	v := fs.Bool("visualize", false, "write an HTML scatter plot of the results")
	fs.BoolVar(v, "v", false, "shorthand for --visualize")
	return v
}

func runPlot() {
	fs := flag.NewFlagSet("plot", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	results := fs.String("results", "", "results file to plot (default: configured output)")
	out := fs.String("out", "", "HTML file to write (default: configured plot path, or "+defaultPlotPath+")")
	title := fs.String("title", "", "chart title")
	_ = fs.Parse(os.Args[2:])

	cfg, err := loadConfig(*configPath, flagWasSet(fs, "config"))
	if err != nil {
		fail(err)
	}
	resultsPath := firstNonEmpty(*results, cfg.Output.Path)
	outPath := firstNonEmpty(*out, cfg.Plot.Path, defaultPlotPath)
	if err := plot.RenderFile(resultsPath, outPath, firstNonEmpty(*title, cfg.Plot.Title)); err != nil {
		fail(err)
	}
	fmt.Printf("Plot of '%s' written to '%s'.\n", resultsPath, outPath)
}

func runServer() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, err := loadConfig(*configPath, flagWasSet(fs, "config"))
	if err != nil {
		fail(err)
	}
	logger := newLogger(cfg, *debug)
	defer logger.Sync()
	logger.Info("config loaded", zap.String("config_path", *configPath), zap.Bool("debug", cfg.Debug || *debug))

	srv := server.NewServer(runner.New(runner.WithLogger(logger)), cfg, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runWatch() {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, err := loadConfig(*configPath, flagWasSet(fs, "config"))
	if err != nil {
		fail(err)
	}
	if cfg.Clustering.K == 0 {
		fail(errors.New("watch mode needs clustering.k in the config; it never prompts"))
	}
	logger := newLogger(cfg, *debug)
	defer logger.Sync()

	r := runner.New(runner.WithLogger(logger))
	params := cli.StaticParameters{K: cfg.Clustering.K, Centroids: cfg.Clustering.InitialCentroids()}
	info, statErr := os.Stat(cfg.Input.Path)
	dirMode := statErr == nil && info.IsDir()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracker := fileid.NewTracker()
	onChange := func(path string) {
		changed, err := tracker.Changed(path)
		if err != nil {
			logger.Warn("watch fingerprint failed", zap.String("path", path), zap.Error(err))
			return
		}
		if !changed {
			logger.Debug("watch content unchanged, skipping", zap.String("path", path))
			return
		}
		req := runner.RequestFromConfig(cfg, params)
		req.InputPath = path
		if dirMode {
			req.OutputPath, req.PlotPath = outputFor(path, cfg)
		}
		report, err := r.Run(ctx, req)
		if err != nil {
			tracker.Forget(path)
			logger.Warn("watch run failed", zap.String("path", path), zap.Error(err))
		}
		if report != nil {
			_ = cli.WriteRunReport(os.Stdout, report, cli.OutputCompact)
		}
	}

	w := watcher.NewWatcher([]string{cfg.Input.Path}, onChange,
		watcher.WithLogger(logger),
		watcher.WithExtensions(cfg.Watch.Extensions),
		watcher.WithDebounce(time.Duration(cfg.Watch.DebounceMS)*time.Millisecond),
	)
	if err := w.Start(ctx); err != nil {
		fail(fmt.Errorf("failed to start watcher: %w", err))
	}
	defer w.Stop()
	if statErr == nil && !dirMode {
		w.Trigger(cfg.Input.Path)
	}
	logger.Info("watching for changes", zap.Strings("targets", w.Targets()))
	<-ctx.Done()
	logger.Info("Shutting down...")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func printUsage() {
	fmt.Println(`kluster - K-Means clustering for 2-D point datasets

Usage:
  kluster run [flags]      Cluster a dataset and write the results
  kluster plot [flags]     Render a results file as an HTML scatter plot
  kluster serve [flags]    Start the HTTP API
  kluster watch [flags]    Re-run clustering whenever the input changes
  kluster version          Show version
  kluster help             Show this help

Run Flags:
  --config string          Config file path (default: kluster.yaml, optional)
  --input string           Input dataset (default: kmeans-data.txt)
  --output string          Results file, .txt or .xlsx (default: kmeans-output.txt)
  --k int                  Number of clusters (prompted when unset)
  --centroids string       Initial centroids as "x,y;x,y" (random when unset)
  --seed int               Random seed for reproducible runs (0 = time based)
  --max-iterations int     Iteration cap (default: 100)
  --tolerance float        Convergence tolerance (default: 1e-4)
  --interactive            Prompt for k and initial centroids
  -v, --visualize          Also write kmeans-plot.html
  --plot string            Plot file path (implies --visualize)
  --format string          Output format: text, compact, or json (default: text)
  --debug                  Enable debug logging

Plot Flags:
  --results string         Results file (default: configured output)
  --out string             HTML file (default: kmeans-plot.html)
  --title string           Chart title

Serve/Watch Flags:
  --config string          Config file path
  --debug                  Enable debug logging

Examples:
  kluster run
  kluster run --k 3 --seed 42 --visualize
  kluster run --centroids "0,0;10,10" --format json
  kluster plot --results kmeans-output.txt
  kluster serve --config kluster.yaml`)
}
