package scene

import (
	"sort"

	"github.com/ivlev/maquette/internal/easing"
	"github.com/ivlev/maquette/internal/geom"
)

// Camera describes what part of the scene is visible. Position is the scene
// point shown at the frame center; Zoom 1 maps one scene unit to one pixel.
type Camera struct {
	Position geom.Vec2
	Zoom     float64
}

// DefaultCamera looks at the origin without zoom.
func DefaultCamera() Camera {
	return Camera{Zoom: 1}
}

// CameraKeyframe pins the camera at a moment. Easing shapes the move from
// the previous keyframe to this one.
type CameraKeyframe struct {
	Time     float64
	Position geom.Vec2
	Zoom     float64
	Easing   easing.Easing
}

// InterpolateCamera returns the camera at t. Before the first keyframe and
// after the last one the camera holds still; with no keyframes it returns
// fallback.
func InterpolateCamera(keyframes []CameraKeyframe, t float64, fallback Camera) Camera {
	if len(keyframes) == 0 {
		return fallback
	}

	first, last := keyframes[0], keyframes[len(keyframes)-1]
	if t <= first.Time {
		return Camera{Position: first.Position, Zoom: first.Zoom}
	}
	if t >= last.Time {
		return Camera{Position: last.Position, Zoom: last.Zoom}
	}

	// first keyframe with Time > t
	i := sort.Search(len(keyframes), func(i int) bool { return keyframes[i].Time > t })
	prev, next := keyframes[i-1], keyframes[i]

	span := next.Time - prev.Time
	p := 1.0
	if span > 0 {
		p = next.Easing.Apply((t - prev.Time) / span)
	}
	return Camera{
		Position: geom.LerpVec(prev.Position, next.Position, p),
		Zoom:     geom.Lerp(prev.Zoom, next.Zoom, p),
	}
}

// sortKeyframes orders keyframes by time keeping the relative order of equal times.
func sortKeyframes(kfs []CameraKeyframe) {
	sort.SliceStable(kfs, func(i, j int) bool { return kfs[i].Time < kfs[j].Time })
}
