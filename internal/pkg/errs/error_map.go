/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
acknowledgments, HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
var errorMap = map[int]CustomError{
	// 1xxx: Request validation errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Please enter a player name and room!", Status: http.StatusBadRequest},
	ErrInvalidEventFormat:    {Code: ErrInvalidEventFormat, Message: "Unsupported event format.", Status: http.StatusBadRequest},
	ErrUnsupportedEvent:      {Code: ErrUnsupportedEvent, Message: "Unsupported event: %s", Status: http.StatusBadRequest},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long.", Status: http.StatusBadRequest},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 21xx: Conflict errors
	ErrPlayerNameInUse: {Code: ErrPlayerNameInUse, Message: "Player name is in use! Please try another one.", Status: http.StatusConflict},
	ErrAlreadyJoined:   {Code: ErrAlreadyJoined, Message: "You have already joined a room.", Status: http.StatusConflict},

	// 22xx: Lookup errors
	ErrPlayerNotFound: {Code: ErrPlayerNotFound, Message: "Player not found!", Status: http.StatusNotFound},
	ErrRoomNotFound:   {Code: ErrRoomNotFound, Message: "Room not found!", Status: http.StatusNotFound},

	// 23xx: Question provider errors
	ErrQuestionUnavailable: {Code: ErrQuestionUnavailable, Message: "Cannot get a question right now! Please try again.", Status: http.StatusBadGateway},

	// 24xx: Game state errors
	ErrNoActiveQuestion: {Code: ErrNoActiveQuestion, Message: "Cannot get correct answer now!", Status: http.StatusConflict},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
