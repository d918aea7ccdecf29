package domain

import "errors"

// ErrInvalidReference is returned when a module or output name is structurally invalid.
var ErrInvalidReference = errors.New("invalid module reference")

// ErrDuplicateModule is returned when two definitions share the same name.
var ErrDuplicateModule = errors.New("duplicate module")

// ErrMissingBroadcaster is returned when a graph has no broadcaster to press.
var ErrMissingBroadcaster = errors.New("missing broadcaster")

// ErrUnknownModule is returned when a query names a module that is not in the graph.
var ErrUnknownModule = errors.New("unknown module")

// ErrUnsupportedTopology is returned when the target query cannot be answered
// by combining the periods of the choke point inputs.
var ErrUnsupportedTopology = errors.New("unsupported topology")

// ErrBoundExceeded is returned when a query runs past its safety bound without an answer.
var ErrBoundExceeded = errors.New("trigger bound exceeded")

// ErrSyntax is returned by parsers for malformed module definitions.
var ErrSyntax = errors.New("syntax error")

// ErrResultNotFound is returned by a ResultCache when the key is absent.
var ErrResultNotFound = errors.New("result not found")
