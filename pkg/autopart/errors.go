package autopart

import "errors"

var (
	// ErrEmptyGraph is returned when the input graph has no nodes
	ErrEmptyGraph = errors.New("graph must have positive number of nodes")

	// ErrMalformedPartition is returned when a partition does not cover
	// every node exactly once
	ErrMalformedPartition = errors.New("malformed partition")

	// ErrGroupOutOfRange is returned for a group index outside [0, k)
	ErrGroupOutOfRange = errors.New("group index out of range")

	// ErrNodeOutOfRange is returned for a node index outside [0, n)
	ErrNodeOutOfRange = errors.New("node index out of range")
)
