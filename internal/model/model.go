// Package model holds the shared domain types for spatial coordinate synthesis.
package model

import "time"

// Sample identifies one sampled genome in a tree sequence. Sample sets are
// fixed for the duration of a synthesis run.
type Sample string

// Coordinate is a synthesized position for one sample. Z is always zero for
// the 2D engine but is carried so downstream consumers can keep a 3D
// location schema.
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// RunStatus represents the current state of a synthesis run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run records one coordinate-synthesis invocation.
type Run struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"` // input file or "api"
	CRS         string    `json:"crs"`
	Seed        *int64    `json:"seed,omitempty"`
	SampleCount int       `json:"sample_count"`
	Status      RunStatus `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SampleCoordinate pairs a sample with its synthesized position, in stable
// sample order.
type SampleCoordinate struct {
	Sample     Sample     `json:"sample"`
	Coordinate Coordinate `json:"coordinate"`
}
