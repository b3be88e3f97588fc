// path: models/normalize.go
package models

import (
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Helpers for coercing loosely-typed coordinate values out of remote
// documents. Providers have stored coordinates as plain numbers, as
// {"_lat": x, "_long": y} wrapper documents, and as GeoJSON points; all of
// them must come out of the store as plain float64s.

// AsFloat extracts a float from the numeric types the BSON decoder can
// hand back for an untyped field.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case primitive.Decimal128:
		f, err := strconv.ParseFloat(n.String(), 64)
		return f, err == nil
	}
	return 0, false
}

// docToMap flattens the document shapes an untyped BSON field decodes
// into.
func docToMap(v any) (map[string]any, bool) {
	switch d := v.(type) {
	case map[string]any:
		return d, true
	case primitive.D:
		m := make(map[string]any, len(d))
		for _, e := range d {
			m[e.Key] = e.Value
		}
		return m, true
	case primitive.M:
		return d, true
	}
	return nil, false
}

func docToSlice(v any) ([]any, bool) {
	switch a := v.(type) {
	case []any:
		return a, true
	case primitive.A:
		return a, true
	}
	return nil, false
}

// PointFromDoc unwraps a {"_lat": .., "_long": ..} style wrapper document.
func PointFromDoc(v any) (lat, lng float64, ok bool) {
	m, isDoc := docToMap(v)
	if !isDoc {
		return 0, 0, false
	}
	la, okLa := AsFloat(m["_lat"])
	ln, okLn := AsFloat(m["_long"])
	if !okLn {
		ln, okLn = AsFloat(m["_lng"])
	}
	if !okLa || !okLn {
		return 0, 0, false
	}
	return la, ln, true
}

// PointFromGeoJSON unwraps a GeoJSON point, which carries coordinates as
// [longitude, latitude].
func PointFromGeoJSON(v any) (lat, lng float64, ok bool) {
	m, isDoc := docToMap(v)
	if !isDoc {
		return 0, 0, false
	}
	coords, isArr := docToSlice(m["coordinates"])
	if !isArr || len(coords) != 2 {
		return 0, 0, false
	}
	ln, okLn := AsFloat(coords[0])
	la, okLa := AsFloat(coords[1])
	if !okLa || !okLn {
		return 0, 0, false
	}
	return la, ln, true
}

// CoordFromAny normalizes a single stored coordinate value: either the
// value is numeric already or it is a wrapper document from which the
// named component ("lat" or "lng") is taken.
func CoordFromAny(v any, component string) (float64, bool) {
	if f, ok := AsFloat(v); ok {
		return f, true
	}
	lat, lng, ok := PointFromDoc(v)
	if !ok {
		return 0, false
	}
	if component == "lat" {
		return lat, true
	}
	return lng, true
}
