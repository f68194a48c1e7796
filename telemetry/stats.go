// Package telemetry collects and exports summary statistics about
// generated road networks.
package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/papaveez/metropolis-gen/generate"
	"github.com/papaveez/metropolis-gen/roads"
)

// StreamlineRecord describes one committed streamline for CSV export.
type StreamlineRecord struct {
	Road   string  `csv:"road"`
	Dir    string  `csv:"direction"`
	Index  int     `csv:"index"`
	Nodes  int     `csv:"nodes"`
	Length float64 `csv:"length"`
	Cyclic bool    `csv:"cyclic"`
}

// ClassStats summarises one road class and direction.
type ClassStats struct {
	Road         string  `csv:"road"`
	Dir          string  `csv:"direction"`
	Count        int     `csv:"count"`
	MeanNodes    float64 `csv:"mean_nodes"`
	MeanLength   float64 `csv:"mean_length"`
	MedianLength float64 `csv:"median_length"`
}

// NetworkStats summarises one generation pass.
type NetworkStats struct {
	Streamlines int
	Nodes       int
	GenMillis   float64
	Classes     []ClassStats
}

// streamlineLength sums the segment lengths of a streamline.
func streamlineLength(g *generate.Generator, s roads.Streamline) float64 {
	total := 0.0
	for i := 1; i < len(s); i++ {
		a, _ := g.NodeByID(s[i-1])
		b, _ := g.NodeByID(s[i])
		total += b.Pos.Sub(a.Pos).Length()
	}
	return total
}

// Collect walks the generator's committed streamlines and produces both
// the per-streamline records and the per-class summary.
func Collect(g *generate.Generator, genMillis float64) ([]StreamlineRecord, NetworkStats) {
	var records []StreamlineRecord
	stats := NetworkStats{
		Streamlines: g.StreamlineCount(),
		Nodes:       g.NodeCount(),
		GenMillis:   genMillis,
	}

	for _, road := range g.RoadTypes() {
		for _, dir := range []roads.Direction{roads.Major, roads.Minor} {
			lines := g.Streamlines(road, dir)

			var nodeCounts, lengths []float64
			for i, s := range lines {
				length := streamlineLength(g, s)
				records = append(records, StreamlineRecord{
					Road:   road.String(),
					Dir:    dir.String(),
					Index:  i,
					Nodes:  len(s),
					Length: length,
					Cyclic: s.IsCyclic(),
				})
				nodeCounts = append(nodeCounts, float64(len(s)))
				lengths = append(lengths, length)
			}

			cs := ClassStats{
				Road:  road.String(),
				Dir:   dir.String(),
				Count: len(lines),
			}
			if len(lines) > 0 {
				cs.MeanNodes = stat.Mean(nodeCounts, nil)
				cs.MeanLength = stat.Mean(lengths, nil)
				sort.Float64s(lengths)
				cs.MedianLength = stat.Quantile(0.5, stat.Empirical, lengths, nil)
			}
			stats.Classes = append(stats.Classes, cs)
		}
	}

	return records, stats
}
