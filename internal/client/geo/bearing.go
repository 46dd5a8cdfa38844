// Package geo provides the small amount of geodesy the dashboard needs:
// great-circle bearings, compass labels, and a geocoding client.
package geo

import "math"

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// Bearing computes the initial great-circle bearing from one point to
// another, in degrees normalized to [0, 360). The bearing from a point to
// itself is 0.
func Bearing(from, to Point) float64 {
	lat1 := from.Lat * math.Pi / 180
	lat2 := to.Lat * math.Pi / 180
	lon1 := from.Lon * math.Pi / 180
	lon2 := to.Lon * math.Pi / 180

	y := math.Sin(lon2-lon1) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) -
		math.Sin(lat1)*math.Cos(lat2)*math.Cos(lon2-lon1)
	angle := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(angle+360, 360)
}

var cardinals = [8]string{
	"North", "Northeast", "East", "Southeast",
	"South", "Southwest", "West", "Northwest",
}

// Cardinal maps a bearing to one of the 8 compass labels. Each label owns a
// 45° sector centered on its axis, so 22° is still "North" and 23° is
// "Northeast". Angles outside [0, 360) are normalized first.
func Cardinal(angle float64) string {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	idx := int(math.Round(angle/45)) % 8
	return cardinals[idx]
}
