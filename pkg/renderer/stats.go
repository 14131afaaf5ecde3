package renderer

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels        int // Total number of pixels rendered
	HitPixels          int // Pixels whose primary ray hit a surface
	MissPixels         int // Pixels left at the background colour
	ShadowRays         int // Shadow rays cast toward lights
	OccludedShadowRays int // Shadow rays that found an occluder
	OverflowPixels     int // Pixels with a channel above 255
}

// Add merges the counts of other into s
func (s *RenderStats) Add(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.HitPixels += other.HitPixels
	s.MissPixels += other.MissPixels
	s.ShadowRays += other.ShadowRays
	s.OccludedShadowRays += other.OccludedShadowRays
	s.OverflowPixels += other.OverflowPixels
}

// recordPixel updates the statistics with the outcome of a single pixel
func (s *RenderStats) recordPixel(hit bool, lighting lightingStats, overflow bool) {
	s.TotalPixels++
	if hit {
		s.HitPixels++
	} else {
		s.MissPixels++
	}
	s.ShadowRays += lighting.shadowRays
	s.OccludedShadowRays += lighting.occluded
	if overflow {
		s.OverflowPixels++
	}
}
