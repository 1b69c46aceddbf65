package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_IdenticalPoints(t *testing.T) {
	assert.Equal(t, 0.0, Distance(25.2048, 55.2708, 25.2048, 55.2708))
	assert.Equal(t, 0.0, Distance(0, 0, 0, 0))
	assert.Equal(t, 0.0, Distance(-89.99, 179.99, -89.99, 179.99))
}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][4]float64{
		{25.2048, 55.2708, 25.1972, 55.2744}, // Downtown Dubai
		{51.5074, -0.1278, 48.8566, 2.3522},  // London - Paris
		{-33.8688, 151.2093, 35.6762, 139.6503},
		{0.001, 0.001, -0.001, -0.001},
	}
	for _, p := range pairs {
		ab := Distance(p[0], p[1], p[2], p[3])
		ba := Distance(p[2], p[3], p[0], p[1])
		assert.InDelta(t, ab, ba, 1e-9)
	}
}

func TestDistance_KnownValues(t *testing.T) {
	// London - Paris, roughly 343.5 km great-circle.
	d := Distance(51.5074, -0.1278, 48.8566, 2.3522)
	assert.InDelta(t, 343500, d, 1500)

	// One degree of latitude is ~111.19 km on a 6371 km sphere.
	d = Distance(0, 0, 1, 0)
	assert.InDelta(t, 111195, d, 10)
}

func TestDistance_ShortRange(t *testing.T) {
	// ~0.0009 degrees of latitude is about 100 m.
	d := Distance(25.2048, 55.2708, 25.2048+0.0009, 55.2708)
	assert.InDelta(t, 100, d, 1)
}

func TestWithinRange_InclusiveBoundary(t *testing.T) {
	assert.True(t, WithinRange(0))
	assert.True(t, WithinRange(99.999))
	assert.True(t, WithinRange(100.000), "exactly on the threshold must pass")
	assert.False(t, WithinRange(100.001))
	assert.False(t, WithinRange(250))
}
