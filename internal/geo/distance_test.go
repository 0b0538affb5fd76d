package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var samples = []Point{
	{Lat: -6.2088, Lng: 106.8456}, // Jakarta
	{Lat: -6.9175, Lng: 107.6191}, // Bandung
	{Lat: -7.2575, Lng: 112.7521}, // Surabaya
	{Lat: 51.5074, Lng: -0.1278},
	{Lat: 0, Lng: 0},
	{Lat: 89.9, Lng: 179.9},
	{Lat: -90, Lng: -180},
}

func TestDistanceIdenticalPointsIsZero(t *testing.T) {
	for _, p := range samples {
		assert.Equal(t, 0.0, Distance(p.Lat, p.Lng, p.Lat, p.Lng), "%+v", p)
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	for _, a := range samples {
		for _, b := range samples {
			assert.InDelta(t, Distance(a.Lat, a.Lng, b.Lat, b.Lng), Distance(b.Lat, b.Lng, a.Lat, a.Lng), 1e-9)
		}
	}
}

func TestDistanceKnownValues(t *testing.T) {
	// Jakarta to Bandung is roughly 116 km as the crow flies.
	assert.InDelta(t, 116.0, samples[0].DistanceTo(samples[1]), 2.0)

	// One degree of latitude along a meridian.
	assert.InDelta(t, 111.195, Distance(0, 0, 1, 0), 0.01)

	// Antipodal points are half the circumference apart.
	assert.InDelta(t, EarthRadiusKm*3.141592653589793, Distance(0, 0, 0, 180), 1e-3)
}
