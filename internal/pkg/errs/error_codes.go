/*
Package errs provides custom error types and application-level error code constants.

These error codes identify the failure categories surfaced to players through event
acknowledgments and to HTTP clients through JSON responses.
*/
package errs

// 1xxx: Request validation errors
const (
	// ErrInvalidParams indicates that required fields (player name, room) were missing or empty.
	ErrInvalidParams = 1001

	// ErrInvalidEventFormat indicates that an inbound frame could not be decoded.
	ErrInvalidEventFormat = 1002

	// ErrUnsupportedEvent indicates that an inbound frame named an unknown event.
	ErrUnsupportedEvent = 1003

	// ErrMessageContentTooLong indicates that a chat message exceeded the maximum length limit.
	ErrMessageContentTooLong = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 21xx: Conflict errors
const (
	// ErrPlayerNameInUse indicates that the normalized player name is already taken in the room.
	ErrPlayerNameInUse = 2101

	// ErrAlreadyJoined indicates that the connection has already joined a room.
	ErrAlreadyJoined = 2102
)

// 22xx: Lookup errors
const (
	// ErrPlayerNotFound indicates that no player is registered under the connection.
	ErrPlayerNotFound = 2201

	// ErrRoomNotFound indicates that no player currently references the room.
	ErrRoomNotFound = 2202
)

// 23xx: Question provider errors
const (
	// ErrQuestionUnavailable indicates that the question source could not supply a prompt.
	ErrQuestionUnavailable = 2301
)

// 24xx: Game state errors
const (
	// ErrNoActiveQuestion indicates that a reveal was requested before any question.
	ErrNoActiveQuestion = 2401
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
