package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBearing_SamePoint_Zero(t *testing.T) {
	p := Point{Lat: 51.5074, Lon: -0.1278}
	require.Equal(t, 0.0, Bearing(p, p))
}

func TestBearing_DueNorth(t *testing.T) {
	got := Bearing(Point{Lat: 51.0, Lon: 0.0}, Point{Lat: 52.0, Lon: 0.0})
	require.InDelta(t, 0.0, got, 0.01)
}

func TestBearing_DueEast(t *testing.T) {
	got := Bearing(Point{Lat: 0.0, Lon: 0.0}, Point{Lat: 0.0, Lon: 1.0})
	require.InDelta(t, 90.0, got, 0.01)
}

func TestBearing_DueSouth(t *testing.T) {
	got := Bearing(Point{Lat: 52.0, Lon: 0.0}, Point{Lat: 51.0, Lon: 0.0})
	require.InDelta(t, 180.0, got, 0.01)
}

func TestBearing_DueWest(t *testing.T) {
	got := Bearing(Point{Lat: 0.0, Lon: 1.0}, Point{Lat: 0.0, Lon: 0.0})
	require.InDelta(t, 270.0, got, 0.01)
}

func TestBearing_AlwaysInRange(t *testing.T) {
	pts := []Point{
		{Lat: 51.5, Lon: -0.12},
		{Lat: -33.86, Lon: 151.2},
		{Lat: 35.68, Lon: 139.69},
		{Lat: 40.71, Lon: -74.0},
	}
	for _, from := range pts {
		for _, to := range pts {
			b := Bearing(from, to)
			require.GreaterOrEqual(t, b, 0.0)
			require.Less(t, b, 360.0)
		}
	}
}

func TestCardinal_Axes(t *testing.T) {
	require.Equal(t, "North", Cardinal(0))
	require.Equal(t, "Northeast", Cardinal(45))
	require.Equal(t, "East", Cardinal(90))
	require.Equal(t, "Southeast", Cardinal(135))
	require.Equal(t, "South", Cardinal(180))
	require.Equal(t, "Southwest", Cardinal(225))
	require.Equal(t, "West", Cardinal(270))
	require.Equal(t, "Northwest", Cardinal(315))
}

func TestCardinal_SectorBoundaries(t *testing.T) {
	require.Equal(t, "North", Cardinal(22))
	require.Equal(t, "Northeast", Cardinal(23))
	require.Equal(t, "North", Cardinal(359))
}

func TestCardinal_NegativeAngle(t *testing.T) {
	require.Equal(t, "West", Cardinal(-90))
}
