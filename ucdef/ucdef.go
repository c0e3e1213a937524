// Package ucdef names the two kinds of operations the service runs: user actions served
// over HTTP and manual commands run from the command line.
package ucdef

import "context"

const (
	TypeUserAction    = "user_action"
	TypeManualCommand = "manual_command"
)

// UserAction handles one API request. I is decoded and validated from the request
// before Execute and O is written as the response body.
type UserAction[I, O any] interface {
	// OperationID is the stable name used in logs and metrics, e.g. "update_event".
	OperationID() string
	Execute(ctx context.Context, in I) (O, error)
}

// ManualCommand is an administrative task such as creating the schema.
type ManualCommand[I any] interface {
	OperationID() string
	Execute(ctx context.Context, in I) error
}
