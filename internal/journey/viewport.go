package journey

// Viewport is a geographic bounding box with padding already applied.
type Viewport struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// minViewportSpan keeps the box drawable when every point collapses onto a
// single coordinate.
const minViewportSpan = 0.0005

// FitViewport computes the bounding box over the given points, expanded by
// padding as a fraction of each axis span. The second return is false for an
// empty point set; callers leave the viewport alone in that case.
func FitViewport(points [][2]float64, padding float64) (Viewport, bool) {
	if len(points) == 0 {
		return Viewport{}, false
	}
	if padding < 0 {
		padding = 0
	}
	minLat, maxLat := points[0][0], points[0][0]
	minLon, maxLon := points[0][1], points[0][1]
	for _, p := range points[1:] {
		if p[0] < minLat {
			minLat = p[0]
		}
		if p[0] > maxLat {
			maxLat = p[0]
		}
		if p[1] < minLon {
			minLon = p[1]
		}
		if p[1] > maxLon {
			maxLon = p[1]
		}
	}
	latPad := (maxLat - minLat) * padding
	lonPad := (maxLon - minLon) * padding
	if maxLat == minLat {
		latPad = minViewportSpan
	}
	if maxLon == minLon {
		lonPad = minViewportSpan
	}
	return Viewport{
		MinLat: minLat - latPad,
		MinLon: minLon - lonPad,
		MaxLat: maxLat + latPad,
		MaxLon: maxLon + lonPad,
	}, true
}
