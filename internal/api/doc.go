// Package api provides the HTTP handlers for the tutoring API: session
// lifecycle, utterance scoring, goal switching, caretaker notes, and
// learner progress. Handlers translate transport concerns into calls on
// the tutor service and map its errors onto HTTP status codes.
package api
