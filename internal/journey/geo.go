package journey

import "math"

const earthRadiusMeters = 6371000.0

func toRad(d float64) float64 { return d * math.Pi / 180 }

// haversine distance in meters.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// CumulativeDistances returns the running distance in meters along the
// polyline, starting at 0 for the first point.
func CumulativeDistances(positions [][2]float64) []float64 {
	n := len(positions)
	if n == 0 {
		return nil
	}
	cum := make([]float64, n)
	sum := 0.0
	for i := 1; i < n; i++ {
		sum += haversine(positions[i-1][0], positions[i-1][1], positions[i][0], positions[i][1])
		cum[i] = sum
	}
	return cum
}

// PointAlong interpolates the point at dist meters along the polyline and
// reports the bearing of the edge it falls on. Distances outside [0, total]
// clamp to the endpoints.
func PointAlong(positions [][2]float64, cum []float64, dist float64) (lat, lon, bearing float64) {
	n := len(positions)
	if n == 0 {
		return 0, 0, 0
	}
	if len(cum) != n {
		cum = CumulativeDistances(positions)
	}
	total := cum[n-1]
	if total == 0 {
		p := positions[0]
		return p[0], p[1], 0
	}
	if dist <= 0 {
		return positions[0][0], positions[0][1], bearingDeg(positions[0], positions[1])
	}
	if dist >= total {
		return positions[n-1][0], positions[n-1][1], bearingDeg(positions[n-2], positions[n-1])
	}
	i := 1
	for i < n && cum[i] < dist {
		i++
	}
	if i >= n {
		i = n - 1
	}
	d0, d1 := cum[i-1], cum[i]
	p0, p1 := positions[i-1], positions[i]
	if d1 == d0 {
		return p0[0], p0[1], bearingDeg(p0, p1)
	}
	frac := (dist - d0) / (d1 - d0)
	lat = p0[0] + (p1[0]-p0[0])*frac
	lon = p0[1] + (p1[1]-p0[1])*frac
	return lat, lon, bearingDeg(p0, p1)
}

func bearingDeg(a, b [2]float64) float64 {
	y := math.Sin(toRad(b[1]-a[1])) * math.Cos(toRad(b[0]))
	x := math.Cos(toRad(a[0]))*math.Sin(toRad(b[0])) - math.Sin(toRad(a[0]))*math.Cos(toRad(b[0]))*math.Cos(toRad(b[1]-a[1]))
	brng := math.Atan2(y, x) * 180.0 / math.Pi
	if brng < 0 {
		brng += 360
	}
	return brng
}
