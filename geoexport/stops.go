// Package geoexport renders KV1 stop coordinates as GeoJSON, for feeding
// into map tooling or the same clip/inspect workflows other examples in
// this corpus use.
package geoexport

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/geojson"
	"github.com/tidwall/geojson/geometry"

	"github.com/rbroekhoff/oeuf/kv1"
)

// StopsFeatureCollection exports every UserStopPoint belonging to
// dataOwnerCode as a GeoJSON FeatureCollection, one Point feature per stop,
// using its resolved Point's RD-projected coordinates. Stops with no
// resolved point (an unresolved foreign key) are skipped.
func StopsFeatureCollection(r *kv1.Records, dataOwnerCode string) (*geojson.FeatureCollection, error) {
	var features []geojson.Object
	for _, usrstop := range r.UserStopPoints {
		if usrstop.Key.DataOwnerCode != dataOwnerCode || usrstop.ResolvedPoint == nil {
			continue
		}
		pt := r.Points[*usrstop.ResolvedPoint]
		geom := geojson.NewPoint(geometry.Point{X: pt.LocationXEw, Y: pt.LocationYNs})

		members, err := json.Marshal(map[string]string{
			"user_stop_code": usrstop.Key.UserStopCode,
			"name":           usrstop.Name,
			"town":           usrstop.Town,
		})
		if err != nil {
			return nil, fmt.Errorf("geoexport: marshaling stop %s properties: %w", usrstop.Key.UserStopCode, err)
		}
		features = append(features, geojson.NewFeature(geom, string(members)))
	}
	return geojson.NewFeatureCollection(features), nil
}
