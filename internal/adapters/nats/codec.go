package natsadapter

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/samirrijal/expedition-planner/internal/core/domain"
)

// EncodeEvent serializes an event as a binary google.protobuf.Struct.
func EncodeEvent(event *domain.ItineraryEvent) ([]byte, error) {
	raw, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("event struct: %w", err)
	}
	return proto.Marshal(st)
}

// DecodeEvent is the inverse of EncodeEvent.
func DecodeEvent(data []byte) (*domain.ItineraryEvent, error) {
	raw, err := EventJSON(data)
	if err != nil {
		return nil, err
	}
	var event domain.ItineraryEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return &event, nil
}

// EventJSON renders an encoded event payload as protojson text.
func EventJSON(data []byte) ([]byte, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return protojson.Marshal(&st)
}

// Subject returns the subject an itinerary event is published on.
func Subject(event *domain.ItineraryEvent) string {
	return subjectPrefix + event.ItineraryID + "." + string(event.Kind)
}

// ItinerarySubject matches every event of one itinerary.
func ItinerarySubject(itineraryID string) string {
	return subjectPrefix + itineraryID + ".>"
}
