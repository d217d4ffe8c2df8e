package models

// Event groups the participants and expenses of one outing or trip.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string

	// Name is the display name (e.g., "Kyoto trip").
	Name string

	// Currency is the ISO code all of the event's expenses are recorded in.
	Currency string

	// CreatedAt is the Unix timestamp when the event was created.
	CreatedAt int64
}

// Participant is a person taking part in exactly one event.
// The ID never changes; the Name may be edited.
type Participant struct {
	ID      string
	Name    string
	EventID string
}
