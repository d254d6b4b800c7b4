package geoexport

import (
	"encoding/json"
	"testing"

	"github.com/rbroekhoff/oeuf/kv1"
)

func buildStopFixture() *kv1.Records {
	r := &kv1.Records{}
	r.Points = append(r.Points, kv1.Point{
		Key:          kv1.PointKey{DataOwnerCode: "CXX", PointCode: "1000"},
		LocationXEw:  120000,
		LocationYNs:  480000,
	})
	idx := 0
	r.UserStopPoints = append(r.UserStopPoints, kv1.UserStopPoint{
		Key:          kv1.UserStopPointKey{DataOwnerCode: "CXX", UserStopCode: "1000"},
		Name:         "Centraal",
		Town:         "Utrecht",
		ResolvedPoint: &idx,
	})
	r.UserStopPoints = append(r.UserStopPoints, kv1.UserStopPoint{
		Key:           kv1.UserStopPointKey{DataOwnerCode: "OTHER", UserStopCode: "2000"},
		ResolvedPoint: &idx,
	})
	return r
}

func TestStopsFeatureCollectionFiltersByDataOwner(t *testing.T) {
	r := buildStopFixture()
	fc, err := StopsFeatureCollection(r, "CXX")
	if err != nil {
		t.Fatalf("StopsFeatureCollection() error = %v", err)
	}
	if fc.NumPoints() == 0 {
		t.Fatalf("expected at least one point in the collection")
	}
	if fc.NumPoints() != 1 {
		t.Fatalf("got %d points, want 1: the OTHER owner's stop must be filtered out", fc.NumPoints())
	}

	data, err := json.Marshal(fc)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if decoded["type"] != "FeatureCollection" {
		t.Errorf("got type %v, want FeatureCollection", decoded["type"])
	}
}

func TestStopsFeatureCollectionSkipsUnresolvedPoint(t *testing.T) {
	r := &kv1.Records{}
	r.UserStopPoints = append(r.UserStopPoints, kv1.UserStopPoint{
		Key: kv1.UserStopPointKey{DataOwnerCode: "CXX", UserStopCode: "9999"},
	})
	fc, err := StopsFeatureCollection(r, "CXX")
	if err != nil {
		t.Fatalf("StopsFeatureCollection() error = %v", err)
	}
	if fc.NumPoints() != 0 {
		t.Fatalf("expected no points for an unresolved stop")
	}
}
