package domain

import "errors"

// Sentinel errors shared by the graph, overlays, search and query layers.
// Callers match them with errors.Is; producers wrap them with operation context.
var (
	// ErrUnknownNode is returned when a referenced node id is absent from the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrNoPath is returned when target is unreachable from source under the active overlay.
	ErrNoPath = errors.New("no path")

	// ErrInvalidParameter covers out-of-range hours, unrecognized modes, missing
	// mode-specific ids and avoid ids that equal an endpoint.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDuplicateNode is returned when adding a node whose id already exists.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrNoStreetNodes is returned when a POI cannot be attached because the graph has no street nodes.
	ErrNoStreetNodes = errors.New("no street nodes")

	// ErrInvalidWeight is returned for negative or non-finite edge lengths.
	ErrInvalidWeight = errors.New("invalid edge weight")

	// ErrGraphFrozen is returned when mutating a graph that has entered its serving phase.
	ErrGraphFrozen = errors.New("graph is frozen")

	// ErrSearchLimit is returned when a search exceeds its expansion budget.
	ErrSearchLimit = errors.New("search expansion limit exceeded")
)
