package vgraph

import "errors"

// Common errors returned by graph and engine operations.
var (
	// ErrNodeNotFound is returned when an operation references an unknown node id.
	ErrNodeNotFound = errors.New("vgraph: node not found")

	// ErrSelfReference is returned when a connection would wire a node
	// directly to itself.
	ErrSelfReference = errors.New("vgraph: node cannot reference itself")

	// ErrSlotOutOfRange is returned when a slot index exceeds the node's
	// declared slot count.
	ErrSlotOutOfRange = errors.New("vgraph: slot index out of range")

	// ErrOutputNode is returned when an operation is not permitted on the
	// terminal output node.
	ErrOutputNode = errors.New("vgraph: operation not permitted on output node")

	// ErrNilDevice is returned when an Engine is created without a render device.
	ErrNilDevice = errors.New("vgraph: nil render device")

	// ErrUnknownKind is returned when a snapshot names a node kind that is
	// not registered.
	ErrUnknownKind = errors.New("vgraph: unknown node kind")
)
