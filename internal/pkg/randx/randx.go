/*
Package randx provides identifier generation for connections and outbound events.
*/
package randx

import (
	"github.com/google/uuid"
)

// ConnectionIDPrefix is prepended to every generated connection identifier.
const ConnectionIDPrefix = "conn_"

// ConnectionID generates the opaque identifier assigned to a live websocket connection.
func ConnectionID() string {
	return ConnectionIDPrefix + uuid.NewString()
}

// MessageID generates a standard UUID v4 string to serve as a unique identifier for a message.
func MessageID() string {
	return uuid.New().String()
}
