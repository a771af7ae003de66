package journey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCumulativeDistances(t *testing.T) {
	// One degree of latitude is roughly 111 km.
	positions := [][2]float64{
		{40.0, -3.0},
		{41.0, -3.0},
		{42.0, -3.0},
	}

	cum := CumulativeDistances(positions)
	require.Len(t, cum, 3)
	assert.Equal(t, 0.0, cum[0])
	assert.InDelta(t, 111195, cum[1], 200)
	assert.InDelta(t, 222390, cum[2], 400)
}

func TestCumulativeDistancesEmpty(t *testing.T) {
	assert.Nil(t, CumulativeDistances(nil))
}

func TestPointAlongMidpoint(t *testing.T) {
	positions := [][2]float64{
		{40.0, -3.0},
		{41.0, -3.0},
	}
	cum := CumulativeDistances(positions)

	lat, lon, bearing := PointAlong(positions, cum, cum[1]/2)
	assert.InDelta(t, 40.5, lat, 0.01)
	assert.InDelta(t, -3.0, lon, 1e-9)
	assert.InDelta(t, 0.0, bearing, 1.0)
}

func TestPointAlongClampsToEndpoints(t *testing.T) {
	positions := [][2]float64{
		{40.0, -3.0},
		{40.0, -2.0},
	}
	cum := CumulativeDistances(positions)

	lat, lon, bearing := PointAlong(positions, cum, -50)
	assert.Equal(t, 40.0, lat)
	assert.Equal(t, -3.0, lon)
	assert.InDelta(t, 90.0, bearing, 1.0)

	lat, lon, _ = PointAlong(positions, cum, cum[1]+50)
	assert.Equal(t, 40.0, lat)
	assert.Equal(t, -2.0, lon)
}

func TestPointAlongDegenerate(t *testing.T) {
	lat, lon, bearing := PointAlong(nil, nil, 10)
	assert.Equal(t, 0.0, lat)
	assert.Equal(t, 0.0, lon)
	assert.Equal(t, 0.0, bearing)

	// All points on the same coordinate still answer with that point.
	positions := [][2]float64{{40.0, -3.0}, {40.0, -3.0}}
	lat, lon, _ = PointAlong(positions, CumulativeDistances(positions), 10)
	assert.Equal(t, 40.0, lat)
	assert.Equal(t, -3.0, lon)
}
