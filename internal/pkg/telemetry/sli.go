package telemetry

// Span and attribute names used for instrumentation.
const (
	SpanItineraryCreate  = "itinerary.create"
	SpanItineraryDelete  = "itinerary.delete"
	SpanItineraryImport  = "itinerary.import"
	SpanWaypointAppend   = "itinerary.waypoint.append"
	SpanWaypointDelete   = "itinerary.waypoint.delete"
	SpanWaypointMove     = "itinerary.waypoint.move"
	SpanWaypointAltitude = "itinerary.waypoint.altitude"
	SpanWaypointNearest  = "itinerary.waypoint.nearest"
	SpanItineraryExport  = "itinerary.export"
	SpanElevationLookup  = "elevation.lookup"
	SpanMapClickLast     = "mapclick.last"

	AttrItineraryID   = "itinerary.id"
	AttrWaypointIndex = "waypoint.index"
	AttrWaypointCount = "itinerary.waypoints"
	AttrDistanceMode  = "waypoint.distance_mode"
	AttrCacheHit      = "cache.hit"
)
