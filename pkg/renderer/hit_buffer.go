package renderer

// NoHit marks a pixel whose ray hit no triangle
const NoHit = -1

// HitBuffer stores the first-hit triangle index of every pixel, addressed in
// ray coordinates (y = 0 is the bottom row).
type HitBuffer struct {
	width, height int
	index         []int32
}

// NewHitBuffer creates a buffer with every pixel set to NoHit
func NewHitBuffer(width, height int) *HitBuffer {
	index := make([]int32, width*height)
	for i := range index {
		index[i] = NoHit
	}
	return &HitBuffer{width: width, height: height, index: index}
}

// Width returns the buffer width in pixels
func (hb *HitBuffer) Width() int { return hb.width }

// Height returns the buffer height in pixels
func (hb *HitBuffer) Height() int { return hb.height }

// Set records the triangle hit by pixel (x, y)
func (hb *HitBuffer) Set(x, y, triangle int) {
	hb.index[y*hb.width+x] = int32(triangle)
}

// At returns the triangle hit by pixel (x, y), or NoHit
func (hb *HitBuffer) At(x, y int) int {
	return int(hb.index[y*hb.width+x])
}

// Counts returns, per triangle, the number of pixels whose first hit it is.
// It must only be called once tracing has finished.
func (hb *HitBuffer) Counts(numTriangles int) []int {
	counts := make([]int, numTriangles)
	for _, triangle := range hb.index {
		if triangle >= 0 {
			counts[triangle]++
		}
	}
	return counts
}
