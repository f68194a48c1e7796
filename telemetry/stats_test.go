package telemetry

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/papaveez/metropolis-gen/field"
	"github.com/papaveez/metropolis-gen/generate"
	"github.com/papaveez/metropolis-gen/geom"
	"github.com/papaveez/metropolis-gen/roads"
)

func generatedNetwork(t *testing.T) *generate.Generator {
	t.Helper()

	f := field.New()
	f.AddBasisField(field.NewGrid(geom.V(0, 0), 0, 0, 0))

	g := generate.New(
		field.NewRK4(f),
		map[roads.RoadType]generate.Parameters{
			roads.SideStreet: {
				MaxSeedRetries:           50,
				MaxIntegrationIterations: 1000,
				DSep:                     20,
				DTest:                    15,
				DCircle:                  5,
				Dl:                       1,
				DLookahead:               40,
				ThetaMax:                 0.1,
				Epsilon:                  0.5,
				NodeSep:                  10,
			},
		},
		geom.NewBox(geom.V(0, 0), geom.V(200, 200)),
		rand.New(rand.NewSource(21)),
	)
	g.Generate()
	return g
}

func TestCollect(t *testing.T) {
	g := generatedNetwork(t)

	records, stats := Collect(g, 12.5)

	if stats.Streamlines != g.StreamlineCount() {
		t.Errorf("stats streamlines = %d, want %d", stats.Streamlines, g.StreamlineCount())
	}
	if stats.Nodes != g.NodeCount() {
		t.Errorf("stats nodes = %d, want %d", stats.Nodes, g.NodeCount())
	}
	if len(records) != stats.Streamlines {
		t.Errorf("%d records for %d streamlines", len(records), stats.Streamlines)
	}
	if stats.GenMillis != 12.5 {
		t.Error("generation time should pass through")
	}

	// One summary row per class and direction.
	if len(stats.Classes) != 2*len(g.RoadTypes()) {
		t.Errorf("%d class rows, want %d", len(stats.Classes), 2*len(g.RoadTypes()))
	}

	for _, r := range records {
		if r.Nodes < 5 {
			t.Errorf("record with %d nodes; committed streamlines have at least 5", r.Nodes)
		}
		if r.Length <= 0 {
			t.Errorf("record with non-positive length %v", r.Length)
		}
	}

	for _, cs := range stats.Classes {
		if cs.Count == 0 {
			continue
		}
		if cs.MeanLength <= 0 || cs.MedianLength <= 0 {
			t.Errorf("%s/%s: empty stats for non-empty class", cs.Road, cs.Dir)
		}
		if math.IsNaN(cs.MeanNodes) {
			t.Errorf("%s/%s: NaN mean", cs.Road, cs.Dir)
		}
	}
}

func TestCollectEmptyGenerator(t *testing.T) {
	f := field.New()
	g := generate.New(
		field.NewRK4(f),
		map[roads.RoadType]generate.Parameters{
			roads.SideStreet: {MaxSeedRetries: 1, MaxIntegrationIterations: 10, DSep: 20, DTest: 15, Dl: 1, Epsilon: 0.5},
		},
		geom.NewBox(geom.V(0, 0), geom.V(100, 100)),
		rand.New(rand.NewSource(1)),
	)

	records, stats := Collect(g, 0)
	if len(records) != 0 || stats.Streamlines != 0 || stats.Nodes != 0 {
		t.Error("empty generator should collect empty stats")
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatal(err)
	}
	if om != nil {
		t.Fatal("empty dir should disable output")
	}

	// All writes are no-ops on the nil manager.
	if err := om.WriteStreamlines(nil); err != nil {
		t.Error(err)
	}
	if err := om.WriteSummary(NetworkStats{}); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	g := generatedNetwork(t)
	records, stats := Collect(g, 1)

	if err := om.WriteStreamlines(records); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteSummary(stats); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "streamlines.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != len(records)+1 {
		t.Errorf("streamlines.csv has %d lines, want header + %d records", len(lines), len(records))
	}
	if !strings.Contains(lines[0], "road") || !strings.Contains(lines[0], "length") {
		t.Errorf("unexpected header: %s", lines[0])
	}

	if _, err := os.Stat(filepath.Join(dir, "summary.csv")); err != nil {
		t.Errorf("summary.csv missing: %v", err)
	}
}
