// Package plot renders clustering results as an interactive HTML scatter plot.
package plot

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/hyperjump/kluster/internal/models"
	"github.com/hyperjump/kluster/internal/storage"
)

// DefaultTitle is used when no title is configured.
const DefaultTitle = "K-Means Clustering Results"

// palette follows matplotlib's tab10 so colors stay stable across renders.
var palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Render writes an HTML page with one scatter series per non-empty cluster,
// a "Centroids" series when centroids is non-empty, and a bar chart of
// cluster sizes.
func Render(w io.Writer, points []models.Point, assignments []int, centroids []models.Point, title string) error {
	if len(points) != len(assignments) {
		return fmt.Errorf("plot: %d points but %d assignments", len(points), len(assignments))
	}
	if title == "" {
		title = DefaultTitle
	}
	k := numClusters(assignments, centroids)
	groups := make([][]opts.ScatterData, k)
	for i, p := range points {
		c := assignments[i]
		if c < 0 {
			return fmt.Errorf("plot: negative cluster index %d for point %d", c, i)
		}
		groups[c] = append(groups[c], opts.ScatterData{
			Name:  p.String(),
			Value: []interface{}{p.X, p.Y},
		})
	}

	page := components.NewPage()
	page.SetPageTitle(title)
	page.AddCharts(newScatter(title, groups, centroids), newSizeBar(groups))
	return page.Render(w)
}

// RenderFile reads a results table written by the storage package and renders
// it to outPath. Centroids are recomputed as the member mean of each cluster.
func RenderFile(resultsPath, outPath, title string) error {
	points, assignments, err := storage.NewResultStore(resultsPath).Load()
	if err != nil {
		return err
	}
	return WriteFile(outPath, points, assignments, ClusterMeans(points, assignments), title)
}

// WriteFile renders to outPath, creating its parent directory.
func WriteFile(outPath string, points []models.Point, assignments []int, centroids []models.Point, title string) error {
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &models.IOError{Op: "mkdir", Path: dir, Err: err}
		}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return &models.IOError{Op: "create", Path: outPath, Err: err}
	}
	if err := Render(f, points, assignments, centroids, title); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return &models.IOError{Op: "close", Path: outPath, Err: err}
	}
	return nil
}

// ClusterMeans returns the mean of each cluster's members. Clusters with no
// members are omitted, so the result may be shorter than max(assignments)+1.
func ClusterMeans(points []models.Point, assignments []int) []models.Point {
	k := numClusters(assignments, nil)
	sums := make([]models.Point, k)
	counts := make([]int, k)
	for i, p := range points {
		c := assignments[i]
		if c < 0 {
			continue
		}
		sums[c].X += p.X
		sums[c].Y += p.Y
		counts[c]++
	}
	means := make([]models.Point, 0, k)
	for c := range sums {
		if counts[c] == 0 {
			continue
		}
		n := float64(counts[c])
		means = append(means, models.Point{X: sums[c].X / n, Y: sums[c].Y / n})
	}
	return means
}

func numClusters(assignments []int, centroids []models.Point) int {
	k := len(centroids)
	for _, c := range assignments {
		if c+1 > k {
			k = c + 1
		}
	}
	return k
}

func newScatter(title string, groups [][]opts.ScatterData, centroids []models.Point) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "5%"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Formatter: "{a}: {b}"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "X-coordinate", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Y-coordinate", Type: "value"}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: opts.Bool(true),
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
					Show:  opts.Bool(true),
					Type:  "png",
					Title: "kmeans_scatter",
				},
			},
		}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "inside", XAxisIndex: 0},
			opts.DataZoom{Type: "inside", YAxisIndex: 0},
		),
	)

	for c, data := range groups {
		if len(data) == 0 {
			continue
		}
		scatter.AddSeries(fmt.Sprintf("Cluster %d", c), data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: palette[c%len(palette)]}))
	}

	if len(centroids) > 0 {
		data := make([]opts.ScatterData, len(centroids))
		for i, c := range centroids {
			data[i] = opts.ScatterData{
				Name:       c.String(),
				Value:      []interface{}{c.X, c.Y},
				Symbol:     "diamond",
				SymbolSize: 16,
			}
		}
		scatter.AddSeries("Centroids", data, charts.WithItemStyleOpts(opts.ItemStyle{Color: "black"}))
	}
	return scatter
}

func newSizeBar(groups [][]opts.ScatterData) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Cluster sizes"}))

	xAxis := make([]string, len(groups))
	items := make([]opts.BarData, len(groups))
	for c, data := range groups {
		xAxis[c] = fmt.Sprintf("Cluster %d", c)
		items[c] = opts.BarData{Name: xAxis[c], Value: len(data)}
	}
	bar.SetXAxis(xAxis).AddSeries("points", items,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))
	return bar
}
