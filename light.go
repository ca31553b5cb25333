package umbra

// PointLight is a light source that falls off with distance and is blocked
// by occluders.
type PointLight struct {
	// X and Y are the light's world position.
	X, Y float64
	// Color is the light tint. Only R, G and B are read.
	Color Color
	// Intensity scales the light's contribution. Must be >= 0.
	Intensity float64
	// Falloff controls distance attenuation: 1 / (1 + distance*Falloff).
	// Zero disables attenuation.
	Falloff float64
}

// AmbientLight adds a flat contribution to every pixel regardless of
// distance or occluders. Its position only matters for culling.
type AmbientLight struct {
	X, Y      float64
	Color     Color
	Intensity float64
}

// Occluder is a shape that blocks point lights. Which of Width, Height and
// Radius are meaningful depends on Shape; see the ShapeKind constants.
// Unused fields should be left zero.
type Occluder struct {
	// X and Y are the occluder's world position (the shape's local origin).
	X, Y float64
	// Rotation is in radians, clockwise on screen.
	Rotation float64
	Shape    ShapeKind
	Width    float64
	Height   float64
	Radius   float64
}

// Snapshot is the per-frame view of the scene handed to the lighting system.
// World positions and rotations must already be resolved.
type Snapshot struct {
	PointLights   []PointLight
	AmbientLights []AmbientLight
	Occluders     []Occluder
}
