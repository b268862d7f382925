package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/dd0wney/cluso-reach/pkg/graph"
	"github.com/dd0wney/cluso-reach/pkg/graphio"
	"github.com/dd0wney/cluso-reach/pkg/traverse"
)

func main() {
	file := flag.String("file", "", "Graph file to load (text format, .sz for snappy)")
	vertices := flag.Int("vertices", 1000, "Vertices for a generated random graph (ignored with -file)")
	seed := flag.Int64("seed", 0, "Seed for the random graph (0 = nondeterministic)")
	workers := flag.Int("workers", 0, "Worker pool size (0 = CPU count)")
	useMmap := flag.Bool("mmap", false, "Memory-map the graph file instead of streaming it")
	out := flag.String("out", "", "Write the full sweep result as JSON to this file")
	save := flag.String("save", "", "Write the loaded graph to this file before sweeping")
	top := flag.Int("top", 0, "Show the N slowest single-source traversals")
	flag.Parse()

	if *workers == 0 {
		*workers = runtime.NumCPU()
	}

	fmt.Println("🚀 Cluso Reach - All-Sources Sweep")
	fmt.Println("===================================")

	g := loadGraph(*file, *vertices, *seed, *useMmap)
	fmt.Printf("📊 Graph: %d vertices, %d edges\n", g.VertexCount(), g.EdgeCount())

	if *save != "" {
		if err := graphio.WriteFile(*save, g); err != nil {
			log.Fatalf("Failed to save graph: %v", err)
		}
		fmt.Printf("💾 Graph saved to %s\n", *save)
	}

	fmt.Printf("⚡ Sweeping from every vertex with %d workers...\n\n", *workers)

	result, err := traverse.FromAllVertices(g, *workers)
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}

	printSummary(result)

	if *top > 0 {
		printSlowest(result, *top)
	}

	if *out != "" {
		writeResult(*out, result)
		fmt.Printf("\n💾 Full results written to %s\n", *out)
	}
}

func loadGraph(file string, vertices int, seed int64, useMmap bool) *graph.Graph {
	if file != "" {
		fmt.Printf("📂 Loading graph from %s...\n", file)

		var (
			g   *graph.Graph
			err error
		)
		if useMmap {
			g, err = graphio.ReadFileMmap(file)
		} else {
			g, err = graphio.ReadFile(file)
		}
		if err != nil {
			log.Fatalf("Failed to load graph: %v", err)
		}
		return g
	}

	fmt.Printf("🎲 Generating random graph with %d vertices...\n", vertices)

	var (
		g   *graph.Graph
		err error
	)
	if seed != 0 {
		g, err = graph.RandomSeeded(vertices, seed)
	} else {
		g, err = graph.Random(vertices)
	}
	if err != nil {
		log.Fatalf("Failed to generate graph: %v", err)
	}
	return g
}

func printSummary(result *traverse.SweepResult) {
	traversalTime := result.TotalTraversalTime()
	wall := result.TotalElapsed

	fmt.Println("📊 Sweep Summary")
	fmt.Println("===================================")
	fmt.Printf("Run ID:           %s\n", result.RunID)
	fmt.Printf("Traversals:       %d\n", result.VertexCount())
	fmt.Printf("Workers:          %d\n", result.Workers)
	fmt.Printf("Wall time:        %s\n", wall)
	fmt.Printf("Traversal time:   %s (sum over vertices)\n", traversalTime)
	if result.VertexCount() > 0 {
		fmt.Printf("Avg traversal:    %s\n", traversalTime/time.Duration(result.VertexCount()))
	}
	if wall > 0 {
		fmt.Printf("Throughput:       %.0f traversals/sec\n", float64(result.VertexCount())/wall.Seconds())
		fmt.Printf("Parallelism:      %.2fx effective\n", traversalTime.Seconds()/wall.Seconds())
	}

	fmt.Println("\n👷 Worker Utilization")
	fmt.Println("-----------------------------------")
	fmt.Printf("%-8s %8s %14s %8s\n", "Worker", "Tasks", "Busy", "Busy%")
	for _, ws := range result.WorkerStats() {
		busyPct := 0.0
		if wall > 0 {
			busyPct = ws.Busy.Seconds() / wall.Seconds() * 100
		}
		fmt.Printf("%-8d %8d %14s %7.1f%%\n", ws.Worker, ws.Tasks, ws.Busy, busyPct)
	}
}

func printSlowest(result *traverse.SweepResult, n int) {
	sorted := make([]traverse.VertexResult, len(result.Results))
	copy(sorted, result.Results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Elapsed > sorted[j].Elapsed
	})

	if n > len(sorted) {
		n = len(sorted)
	}

	fmt.Printf("\n🐌 Slowest Traversals (top %d)\n", n)
	fmt.Println("-----------------------------------")
	fmt.Printf("%-8s %10s %14s\n", "Start", "Visited", "Elapsed")
	for _, r := range sorted[:n] {
		fmt.Printf("%-8d %10d %14s\n", r.Start, len(r.Order), r.Elapsed)
	}
}

func writeResult(path string, result *traverse.SweepResult) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal results: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("Failed to write results: %v", err)
	}
}
