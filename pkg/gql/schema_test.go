package gql

import (
	"fmt"
	"strings"
	"testing"

	gr "github.com/dd0wney/cluso-reach/pkg/graph"
	"github.com/dd0wney/cluso-reach/pkg/traverse"
)

// fakeBackend serves a fixed graph and delegates sweeps to the real
// engine, so resolver tests exercise genuine traversal results.
type fakeBackend struct {
	graph *gr.Graph
}

func (b *fakeBackend) CurrentGraph() (*gr.Graph, bool) {
	return b.graph, b.graph != nil
}

func (b *fakeBackend) LoadRandom(vertices int, seed *int64) (*gr.Graph, error) {
	if vertices < 0 {
		return nil, fmt.Errorf("%w: %d", gr.ErrNegativeVertexCount, vertices)
	}
	var (
		g   *gr.Graph
		err error
	)
	if seed != nil {
		g, err = gr.RandomSeeded(vertices, *seed)
	} else {
		g, err = gr.Random(vertices)
	}
	if err != nil {
		return nil, err
	}
	b.graph = g
	return g, nil
}

func (b *fakeBackend) Sweep(workers int) (*traverse.SweepResult, error) {
	if b.graph == nil {
		return nil, ErrNoGraph
	}
	return traverse.FromAllVertices(b.graph, workers)
}

func cycleBackend(t *testing.T) *fakeBackend {
	t.Helper()

	g, err := gr.FromMatrix([][]int{
		{0, 1, 0},
		{1, 0, 1},
		{0, 1, 1},
	})
	if err != nil {
		t.Fatalf("Failed to build graph: %v", err)
	}
	return &fakeBackend{graph: g}
}

func TestNewSchema(t *testing.T) {
	schema, err := NewSchema(cycleBackend(t))
	if err != nil {
		t.Fatalf("NewSchema failed: %v", err)
	}

	if schema.QueryType() == nil {
		t.Error("Schema missing Query type")
	}
	if schema.MutationType() == nil {
		t.Error("Schema missing Mutation type")
	}

	for _, name := range []string{"GraphInfo", "SweepSummary", "WorkerStat"} {
		if schema.TypeMap()[name] == nil {
			t.Errorf("Schema missing %s type", name)
		}
	}
}

func TestQueryHealth(t *testing.T) {
	schema, err := NewSchema(&fakeBackend{})
	if err != nil {
		t.Fatalf("NewSchema failed: %v", err)
	}

	result := ExecuteQuery(`{ health }`, schema)
	if result.HasErrors() {
		t.Fatalf("Query errors: %v", result.Errors)
	}

	data := result.Data.(map[string]any)
	if data["health"] != "ok" {
		t.Errorf("health = %v, want ok", data["health"])
	}
}

func TestQueryGraph(t *testing.T) {
	schema, err := NewSchema(cycleBackend(t))
	if err != nil {
		t.Fatalf("NewSchema failed: %v", err)
	}

	result := ExecuteQuery(`{ graph { vertexCount edgeCount } }`, schema)
	if result.HasErrors() {
		t.Fatalf("Query errors: %v", result.Errors)
	}

	data := result.Data.(map[string]any)
	info := data["graph"].(map[string]any)
	if info["vertexCount"] != 3 {
		t.Errorf("vertexCount = %v, want 3", info["vertexCount"])
	}
	// 0-1 and 1-2 both ways plus the self-loop at 2
	if info["edgeCount"] != 5 {
		t.Errorf("edgeCount = %v, want 5", info["edgeCount"])
	}
}

func TestQueryGraph_NoneLoaded(t *testing.T) {
	schema, err := NewSchema(&fakeBackend{})
	if err != nil {
		t.Fatalf("NewSchema failed: %v", err)
	}

	result := ExecuteQuery(`{ graph { vertexCount edgeCount } }`, schema)
	if result.HasErrors() {
		t.Fatalf("Query errors: %v", result.Errors)
	}

	data := result.Data.(map[string]any)
	if data["graph"] != nil {
		t.Errorf("graph = %v, want null when none loaded", data["graph"])
	}
}

func TestQueryNeighbors(t *testing.T) {
	schema, err := NewSchema(cycleBackend(t))
	if err != nil {
		t.Fatalf("NewSchema failed: %v", err)
	}

	result := ExecuteQuery(`{ neighbors(vertex: 1) }`, schema)
	if result.HasErrors() {
		t.Fatalf("Query errors: %v", result.Errors)
	}

	data := result.Data.(map[string]any)
	neighbors := data["neighbors"].([]any)
	if len(neighbors) != 2 || neighbors[0] != 0 || neighbors[1] != 2 {
		t.Errorf("neighbors(1) = %v, want [0 2]", neighbors)
	}
}

func TestQueryNeighbors_UnknownVertex(t *testing.T) {
	schema, err := NewSchema(cycleBackend(t))
	if err != nil {
		t.Fatalf("NewSchema failed: %v", err)
	}

	result := ExecuteQuery(`{ neighbors(vertex: 99) }`, schema)
	if !result.HasErrors() {
		t.Fatal("Expected errors for out-of-range vertex")
	}
	if !strings.Contains(result.Errors[0].Message, "unknown vertex") {
		t.Errorf("Error = %q, want it to mention the unknown vertex", result.Errors[0].Message)
	}
}

func TestQueryHasEdge(t *testing.T) {
	schema, err := NewSchema(cycleBackend(t))
	if err != nil {
		t.Fatalf("NewSchema failed: %v", err)
	}

	tests := []struct {
		query string
		want  bool
	}{
		{`{ hasEdge(from: 0, to: 1) }`, true},
		{`{ hasEdge(from: 0, to: 2) }`, false},
		{`{ hasEdge(from: 2, to: 2) }`, true}, // self-loop
	}
	for _, tt := range tests {
		result := ExecuteQuery(tt.query, schema)
		if result.HasErrors() {
			t.Fatalf("%s errors: %v", tt.query, result.Errors)
		}
		data := result.Data.(map[string]any)
		if data["hasEdge"] != tt.want {
			t.Errorf("%s = %v, want %v", tt.query, data["hasEdge"], tt.want)
		}
	}
}

func TestMutationLoadRandom(t *testing.T) {
	backend := &fakeBackend{}
	schema, err := NewSchema(backend)
	if err != nil {
		t.Fatalf("NewSchema failed: %v", err)
	}

	result := ExecuteQuery(`mutation { loadRandom(vertices: 8, seed: 42) { vertexCount } }`, schema)
	if result.HasErrors() {
		t.Fatalf("Mutation errors: %v", result.Errors)
	}

	data := result.Data.(map[string]any)
	info := data["loadRandom"].(map[string]any)
	if info["vertexCount"] != 8 {
		t.Errorf("vertexCount = %v, want 8", info["vertexCount"])
	}
	if backend.graph == nil || backend.graph.VertexCount() != 8 {
		t.Error("Backend graph was not replaced")
	}
}

func TestMutationLoadRandom_Negative(t *testing.T) {
	schema, err := NewSchema(&fakeBackend{})
	if err != nil {
		t.Fatalf("NewSchema failed: %v", err)
	}

	result := ExecuteQuery(`mutation { loadRandom(vertices: -1) { vertexCount } }`, schema)
	if !result.HasErrors() {
		t.Fatal("Expected errors for negative vertex count")
	}
}

func TestMutationSweep(t *testing.T) {
	schema, err := NewSchema(cycleBackend(t))
	if err != nil {
		t.Fatalf("NewSchema failed: %v", err)
	}

	result := ExecuteQuery(`mutation {
		sweep(workers: 2) {
			runId
			vertices
			workers
			totalElapsedMs
			workerStats { worker tasks busyMs }
		}
	}`, schema)
	if result.HasErrors() {
		t.Fatalf("Mutation errors: %v", result.Errors)
	}

	data := result.Data.(map[string]any)
	summary := data["sweep"].(map[string]any)

	if summary["runId"] == "" {
		t.Error("runId is empty")
	}
	if summary["vertices"] != 3 {
		t.Errorf("vertices = %v, want 3", summary["vertices"])
	}
	if summary["workers"] != 2 {
		t.Errorf("workers = %v, want 2", summary["workers"])
	}

	stats := summary["workerStats"].([]any)
	if len(stats) != 2 {
		t.Fatalf("workerStats has %d entries, want 2", len(stats))
	}
	tasks := 0
	for _, raw := range stats {
		st := raw.(map[string]any)
		tasks += st["tasks"].(int)
	}
	if tasks != 3 {
		t.Errorf("worker tasks sum to %d, want 3", tasks)
	}
}

func TestMutationSweep_InvalidWorkers(t *testing.T) {
	schema, err := NewSchema(cycleBackend(t))
	if err != nil {
		t.Fatalf("NewSchema failed: %v", err)
	}

	result := ExecuteQuery(`mutation { sweep(workers: 0) { runId } }`, schema)
	if !result.HasErrors() {
		t.Fatal("Expected errors for zero workers")
	}
}
