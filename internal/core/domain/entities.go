package domain

import "time"

// SavedItinerary is a named itinerary held by a repository.
type SavedItinerary struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Itinerary *Itinerary `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Clone returns a copy that shares no waypoint storage with s.
func (s *SavedItinerary) Clone() *SavedItinerary {
	c := *s
	if s.Itinerary != nil {
		c.Itinerary = s.Itinerary.Clone()
	} else {
		c.Itinerary = &Itinerary{}
	}
	return &c
}

// EventKind names a change to a saved itinerary.
type EventKind string

const (
	EventItineraryCreated    EventKind = "itinerary.created"
	EventItineraryDeleted    EventKind = "itinerary.deleted"
	EventWaypointAppended    EventKind = "waypoint.appended"
	EventWaypointDeleted     EventKind = "waypoint.deleted"
	EventWaypointMovedUp     EventKind = "waypoint.moved_up"
	EventWaypointMovedDown   EventKind = "waypoint.moved_down"
	EventWaypointAltitudeSet EventKind = "waypoint.altitude_set"
)

// ItineraryEvent is published after each successful mutation.
type ItineraryEvent struct {
	ItineraryID string    `json:"itinerary_id"`
	Kind        EventKind `json:"kind"`
	Index       int       `json:"index"`
	Waypoint    *Waypoint `json:"waypoint,omitempty"`
	Summary     Summary   `json:"summary"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ClickedPoint is the last location picked on the map.
type ClickedPoint struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	AltitudeM *int      `json:"altitude_m,omitempty"`
	Formatted string    `json:"formatted"`
	ClickedAt time.Time `json:"clicked_at"`
}

// WaypointMatch is the result of a nearest-waypoint query.
type WaypointMatch struct {
	Index      int      `json:"index"`
	Waypoint   Waypoint `json:"waypoint"`
	DistanceKm float64  `json:"distance_km"`
}

// AltitudeUpdate sets the altitude of the waypoint at Index, provided it is
// still at the given coordinates.
type AltitudeUpdate struct {
	Index     int     `json:"index"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	AltitudeM int     `json:"altitude_m"`
}
