package umbra

// CullRect returns the camera's visible world rectangle expanded by margin on
// every side. Entities whose position lies inside it (edges included) take
// part in lighting for the frame.
func CullRect(cam *Camera, margin float64) Rect {
	if margin < 0 {
		margin = 0
	}
	return cam.VisibleBounds().Expand(margin)
}

// IsVisible reports whether the world position (x, y) is inside the camera's
// view expanded by margin.
func IsVisible(x, y float64, cam *Camera, margin float64) bool {
	return CullRect(cam, margin).Contains(x, y)
}

// Position returns the light's world position.
func (l PointLight) Position() (x, y float64) { return l.X, l.Y }

// Position returns the light's world position.
func (l AmbientLight) Position() (x, y float64) { return l.X, l.Y }

// Position returns the occluder's world position.
func (o Occluder) Position() (x, y float64) { return o.X, o.Y }

// Positioned is implemented by every entity the culler handles.
type Positioned interface {
	PointLight | AmbientLight | Occluder
	Position() (x, y float64)
}

// Cull appends to dst the entities of src whose position lies within r,
// preserving order, and returns the extended slice.
func Cull[T Positioned](dst, src []T, r Rect) []T {
	for _, e := range src {
		if r.Contains(e.Position()) {
			dst = append(dst, e)
		}
	}
	return dst
}
