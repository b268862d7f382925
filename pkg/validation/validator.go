package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Request limits. The struct tags below mirror these values.
	MaxSweepWorkers  = 1024
	MaxGraphVertices = 100000
	MinGraphVertices = 0
)

func init() {
	validate = validator.New()
}

// SweepRequest represents a request to traverse the loaded graph from
// every vertex over a bounded worker pool.
type SweepRequest struct {
	Workers       int  `json:"workers" validate:"required,min=1,max=1024"`
	IncludeOrders bool `json:"include_orders"`
}

// RandomGraphRequest represents a request to generate and load a random
// undirected graph.
type RandomGraphRequest struct {
	Vertices int    `json:"vertices" validate:"min=0,max=100000"`
	Seed     *int64 `json:"seed" validate:"omitempty"`
}

// ValidateSweepRequest validates a sweep request.
func ValidateSweepRequest(req *SweepRequest) error {
	if req == nil {
		return errors.New("sweep request cannot be nil")
	}

	// Validate using struct tags
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	// Tag limits are duplicated here so the constants stay authoritative
	if req.Workers > MaxSweepWorkers {
		return fmt.Errorf("Workers: maximum %d workers allowed, got %d", MaxSweepWorkers, req.Workers)
	}

	return nil
}

// ValidateRandomGraphRequest validates a random graph generation request.
func ValidateRandomGraphRequest(req *RandomGraphRequest) error {
	if req == nil {
		return errors.New("random graph request cannot be nil")
	}

	// Validate using struct tags
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	if req.Vertices > MaxGraphVertices {
		return fmt.Errorf("Vertices: maximum %d vertices allowed, got %d", MaxGraphVertices, req.Vertices)
	}

	return nil
}

// ValidateStruct validates any struct with `validate` tags and converts
// the result to the user-friendly error format.
func ValidateStruct(s any) error {
	if s == nil {
		return errors.New("value cannot be nil")
	}
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateGraphSize validates the vertex count of a graph submitted or
// generated through the API.
func ValidateGraphSize(vertices int) error {
	if vertices < MinGraphVertices {
		return fmt.Errorf("graph size must be at least %d, got %d", MinGraphVertices, vertices)
	}
	if vertices > MaxGraphVertices {
		return fmt.Errorf("graph size must not exceed %d vertices, got %d", MaxGraphVertices, vertices)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
