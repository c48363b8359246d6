package steering

// Body is a point mass driven by bounded steering forces.
type Body struct {
	Position     Vec
	Velocity     Vec
	Acceleration Vec
	MaxSpeed     float64
	MaxForce     float64
}

// Seek returns the steering force that turns current velocity toward target
// at full speed.
func (b *Body) Seek(target Vec) Vec {
	desired := target.Sub(b.Position).Normalize().Scale(b.MaxSpeed)
	return desired.Sub(b.Velocity).Limit(b.MaxForce)
}

// AvoidObstacle pushes directly away from obstacle at full force when it is
// closer than the squared avoid radius. An obstacle sitting exactly on the
// body gives no direction and yields no force.
func (b *Body) AvoidObstacle(obstacle Vec, avoidRadiusSq float64) Vec {
	away := b.Position.Sub(obstacle)
	if away.LenSquared() >= avoidRadiusSq {
		return Vec{}
	}
	return away.Normalize().Scale(b.MaxForce)
}

// ApplyForce accumulates f. The accumulated force never exceeds MaxForce.
func (b *Body) ApplyForce(f Vec) {
	b.Acceleration = b.Acceleration.Add(f).Limit(b.MaxForce)
}

// Update integrates one tick and clears the accumulated force.
func (b *Body) Update() {
	b.Velocity = b.Velocity.Add(b.Acceleration).Limit(b.MaxSpeed)
	b.Position = b.Position.Add(b.Velocity)
	b.Acceleration = Vec{}
}
