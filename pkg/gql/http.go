package gql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
)

// Request represents a GraphQL HTTP request.
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// Response represents a GraphQL HTTP response.
type Response struct {
	Data   any          `json:"data,omitempty"`
	Errors []QueryError `json:"errors,omitempty"`
}

// QueryError represents one GraphQL error.
type QueryError struct {
	Message string `json:"message"`
}

// Handler handles GraphQL HTTP requests.
type Handler struct {
	schema graphql.Schema
}

// NewHandler creates a GraphQL HTTP handler over the given schema.
func NewHandler(schema graphql.Schema) *Handler {
	return &Handler{schema: schema}
}

// ServeHTTP handles HTTP requests for GraphQL queries.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var result *graphql.Result
	if len(req.Variables) > 0 {
		result = ExecuteQueryWithVariables(req.Query, h.schema, req.Variables)
	} else {
		result = ExecuteQuery(req.Query, h.schema)
	}

	response := Response{Data: result.Data}
	if result.HasErrors() {
		response.Errors = make([]QueryError, len(result.Errors))
		for i, err := range result.Errors {
			response.Errors[i] = QueryError{Message: err.Message}
		}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
