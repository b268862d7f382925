package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/dd0wney/cluso-reach/pkg/graph"
)

// testStore connects to the S3 endpoint named by REACH_TEST_S3_ENDPOINT
// (e.g. a local MinIO), or skips the test when it is unset. The bucket
// named by REACH_TEST_S3_BUCKET must exist; it defaults to reach-test.
func testStore(t *testing.T) *Store {
	t.Helper()

	endpoint := os.Getenv("REACH_TEST_S3_ENDPOINT")
	if endpoint == "" {
		t.Skip("REACH_TEST_S3_ENDPOINT not set")
	}

	bucket := os.Getenv("REACH_TEST_S3_BUCKET")
	if bucket == "" {
		bucket = "reach-test"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := NewStore(ctx, Config{
		Bucket:    bucket,
		Region:    "us-east-1",
		Endpoint:  endpoint,
		AccessKey: os.Getenv("REACH_TEST_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("REACH_TEST_S3_SECRET_KEY"),
		Prefix:    fmt.Sprintf("test-%d/", time.Now().UnixNano()),
	})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	return store
}

func sampleGraph(t *testing.T) *graph.Graph {
	t.Helper()

	g, err := graph.FromMatrix([][]int{
		{0, 1, 0},
		{1, 0, 1},
		{0, 1, 1},
	})
	if err != nil {
		t.Fatalf("Failed to build graph: %v", err)
	}
	return g
}

func TestNewStore_RequiresBucket(t *testing.T) {
	_, err := NewStore(context.Background(), Config{Region: "us-east-1"})
	if err == nil {
		t.Fatal("Expected error for missing bucket")
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	g := sampleGraph(t)

	if err := store.PutGraph(ctx, "cycle.txt", g); err != nil {
		t.Fatalf("PutGraph failed: %v", err)
	}
	t.Cleanup(func() { store.Delete(ctx, "cycle.txt") })

	got, err := store.GetGraph(ctx, "cycle.txt")
	if err != nil {
		t.Fatalf("GetGraph failed: %v", err)
	}
	if !got.Equal(g) {
		t.Errorf("Round-trip changed the graph:\ngot  %v\nwant %v", got.Matrix(), g.Matrix())
	}
}

func TestPutGetRoundTrip_Compressed(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	g := sampleGraph(t)

	if err := store.PutGraph(ctx, "cycle.txt.sz", g); err != nil {
		t.Fatalf("PutGraph failed: %v", err)
	}
	t.Cleanup(func() { store.Delete(ctx, "cycle.txt.sz") })

	got, err := store.GetGraph(ctx, "cycle.txt.sz")
	if err != nil {
		t.Fatalf("GetGraph failed: %v", err)
	}
	if !got.Equal(g) {
		t.Errorf("Compressed round-trip changed the graph")
	}
}

func TestGetGraph_NotFound(t *testing.T) {
	store := testStore(t)

	_, err := store.GetGraph(context.Background(), "no-such-snapshot.txt")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	g := sampleGraph(t)

	names := []string{"a.txt", "b.txt", "c.txt.sz"}
	for _, name := range names {
		if err := store.PutGraph(ctx, name, g); err != nil {
			t.Fatalf("PutGraph(%s) failed: %v", name, err)
		}
	}
	t.Cleanup(func() {
		for _, name := range names {
			store.Delete(ctx, name)
		}
	})

	got, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != len(names) {
		t.Fatalf("List returned %d names, want %d: %v", len(got), len(names), got)
	}
	for i, name := range names {
		if got[i] != name {
			t.Errorf("List[%d] = %q, want %q (sorted)", i, got[i], name)
		}
	}
}

func TestDelete(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	g := sampleGraph(t)

	if err := store.PutGraph(ctx, "doomed.txt", g); err != nil {
		t.Fatalf("PutGraph failed: %v", err)
	}
	if err := store.Delete(ctx, "doomed.txt"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := store.GetGraph(ctx, "doomed.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again is a no-op, not an error
	if err := store.Delete(ctx, "doomed.txt"); err != nil {
		t.Errorf("Second delete failed: %v", err)
	}
}

func TestCompressedNameSelection(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"graph.txt", false},
		{"graph.txt.sz", true},
		{"graph.sz", true},
		{"graph", false},
		{"sz", false},
	}
	for _, tt := range tests {
		if got := compressed(tt.name); got != tt.want {
			t.Errorf("compressed(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
