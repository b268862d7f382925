// Package gql exposes the graph and the sweep engine over GraphQL.
// The schema is fixed (no type discovery): queries inspect the loaded
// graph, mutations load a random graph or run a sweep.
package gql

import (
	"errors"
	"fmt"

	"github.com/graphql-go/graphql"

	gr "github.com/dd0wney/cluso-reach/pkg/graph"
	"github.com/dd0wney/cluso-reach/pkg/traverse"
)

// ErrNoGraph is returned by resolvers that need a loaded graph.
var ErrNoGraph = errors.New("no graph loaded")

// Backend is the surface the schema resolves against. The HTTP server
// implements it over its current-graph slot.
type Backend interface {
	// CurrentGraph returns the loaded graph, or false when none is.
	CurrentGraph() (*gr.Graph, bool)

	// LoadRandom generates and installs a random graph. A nil seed
	// draws a fresh one.
	LoadRandom(vertices int, seed *int64) (*gr.Graph, error)

	// Sweep traverses the loaded graph from every vertex.
	Sweep(workers int) (*traverse.SweepResult, error)
}

// graphInfo is the source type behind the GraphInfo object.
type graphInfo struct {
	VertexCount int
	EdgeCount   int
}

// sweepSummary is the source type behind the SweepSummary object.
type sweepSummary struct {
	RunID          string
	Vertices       int
	Workers        int
	TotalElapsedMS float64
	Stats          []traverse.WorkerStats
}

// NewSchema builds the schema over the given backend.
func NewSchema(backend Backend) (graphql.Schema, error) {
	graphInfoType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GraphInfo",
		Fields: graphql.Fields{
			"vertexCount": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if info, ok := p.Source.(graphInfo); ok {
						return info.VertexCount, nil
					}
					return nil, nil
				},
			},
			"edgeCount": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if info, ok := p.Source.(graphInfo); ok {
						return info.EdgeCount, nil
					}
					return nil, nil
				},
			},
		},
	})

	workerStatType := graphql.NewObject(graphql.ObjectConfig{
		Name: "WorkerStat",
		Fields: graphql.Fields{
			"worker": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if st, ok := p.Source.(traverse.WorkerStats); ok {
						return st.Worker, nil
					}
					return nil, nil
				},
			},
			"tasks": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if st, ok := p.Source.(traverse.WorkerStats); ok {
						return st.Tasks, nil
					}
					return nil, nil
				},
			},
			"busyMs": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Float),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if st, ok := p.Source.(traverse.WorkerStats); ok {
						return float64(st.Busy.Microseconds()) / 1000, nil
					}
					return nil, nil
				},
			},
		},
	})

	sweepSummaryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SweepSummary",
		Fields: graphql.Fields{
			"runId": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if s, ok := p.Source.(sweepSummary); ok {
						return s.RunID, nil
					}
					return nil, nil
				},
			},
			"vertices": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if s, ok := p.Source.(sweepSummary); ok {
						return s.Vertices, nil
					}
					return nil, nil
				},
			},
			"workers": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if s, ok := p.Source.(sweepSummary); ok {
						return s.Workers, nil
					}
					return nil, nil
				},
			},
			"totalElapsedMs": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Float),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if s, ok := p.Source.(sweepSummary); ok {
						return s.TotalElapsedMS, nil
					}
					return nil, nil
				},
			},
			"workerStats": &graphql.Field{
				Type: graphql.NewList(workerStatType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if s, ok := p.Source.(sweepSummary); ok {
						return s.Stats, nil
					}
					return nil, nil
				},
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
			"graph": &graphql.Field{
				Type: graphInfoType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					g, ok := backend.CurrentGraph()
					if !ok {
						return nil, nil
					}
					return graphInfo{
						VertexCount: g.VertexCount(),
						EdgeCount:   g.EdgeCount(),
					}, nil
				},
			},
			"neighbors": &graphql.Field{
				Type: graphql.NewList(graphql.Int),
				Args: graphql.FieldConfigArgument{
					"vertex": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.Int),
					},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					g, ok := backend.CurrentGraph()
					if !ok {
						return nil, ErrNoGraph
					}
					vertex, _ := p.Args["vertex"].(int)
					return g.Neighbors(vertex)
				},
			},
			"hasEdge": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"from": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.Int),
					},
					"to": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.Int),
					},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					g, ok := backend.CurrentGraph()
					if !ok {
						return nil, ErrNoGraph
					}
					from, _ := p.Args["from"].(int)
					to, _ := p.Args["to"].(int)
					return g.HasEdge(from, to)
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"loadRandom": &graphql.Field{
				Type: graphInfoType,
				Args: graphql.FieldConfigArgument{
					"vertices": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.Int),
					},
					"seed": &graphql.ArgumentConfig{
						Type: graphql.Int,
					},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					vertices, _ := p.Args["vertices"].(int)

					var seed *int64
					if raw, ok := p.Args["seed"].(int); ok {
						s := int64(raw)
						seed = &s
					}

					g, err := backend.LoadRandom(vertices, seed)
					if err != nil {
						return nil, err
					}
					return graphInfo{
						VertexCount: g.VertexCount(),
						EdgeCount:   g.EdgeCount(),
					}, nil
				},
			},
			"sweep": &graphql.Field{
				Type: sweepSummaryType,
				Args: graphql.FieldConfigArgument{
					"workers": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.Int),
					},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					workers, _ := p.Args["workers"].(int)

					result, err := backend.Sweep(workers)
					if err != nil {
						return nil, err
					}
					return sweepSummary{
						RunID:          result.RunID,
						Vertices:       result.VertexCount(),
						Workers:        result.Workers,
						TotalElapsedMS: float64(result.TotalElapsed.Microseconds()) / 1000,
						Stats:          result.WorkerStats(),
					}, nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}

	return schema, nil
}

// ExecuteQuery executes a GraphQL query against a schema.
func ExecuteQuery(query string, schema graphql.Schema) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: query,
	})
}

// ExecuteQueryWithVariables executes a GraphQL query with variables.
func ExecuteQueryWithVariables(query string, schema graphql.Schema, variables map[string]any) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: variables,
	})
}
