package remote

import "math"

const earthRadiusKm = 6371

// distanceKm is the haversine great-circle distance between two coordinate
// pairs.
func distanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// filterByRegion keeps records within radiusKm of the center, skipping
// "no location" sentinels.
func filterByRegion(all []SyncedRecord, lat, lng, radiusKm float64) []SyncedRecord {
	matched := make([]SyncedRecord, 0, len(all))
	for _, r := range all {
		if r.Location.IsZero() {
			continue
		}
		if distanceKm(lat, lng, r.Location.Latitude, r.Location.Longitude) <= radiusKm {
			matched = append(matched, r)
		}
	}
	return matched
}
