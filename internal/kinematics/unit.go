// Package kinematics implements Unit (spec §4.2): the shared
// position/facing/move primitive underlying both Ball and Player.
package kinematics

import (
	"math"
	"time"

	"github.com/theoden8/mini-fifa-sub000/internal/timer"
)

// Vec3 is a plain 3-D point, used for positions and destinations.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// HorizontalDistance returns the XY-plane distance between v and o,
// ignoring Z (most gameplay math, per spec §4.2, only ever reasons about
// horizontal distance -- Z is reserved for ball height / render arcs).
func (v Vec3) HorizontalDistance(o Vec3) float64 {
	dx, dy := v.X-o.X, v.Y-o.Y
	return math.Hypot(dx, dy)
}

const timeLockedMoveKey = 0

// Unit is the kinematic primitive shared by Ball and Player.
type Unit struct {
	Pos    Vec3
	Dest   Vec3
	MovingSpeed float64 // units/sec
	Facing     float64 // radians, normalized to (-pi, pi]
	FacingDest float64
	FacingSpeed float64 // radians/sec

	// Follow, if non-nil, causes Idle to adopt the target's position as
	// Dest every tick (spec §4.2 step 1).
	Follow *Unit

	timer *timer.Timer
}

// New returns a Unit at pos, facing 0 radians, with the given angular
// speed used by Idle to rotate Facing toward FacingDest.
func New(pos Vec3, facingSpeed float64, now time.Time) *Unit {
	return &Unit{
		Pos:         pos,
		Dest:        pos,
		Facing:      0,
		FacingDest:  0,
		FacingSpeed: facingSpeed,
		timer:       timer.New(now),
	}
}

// Move sets Dest = loc (ignored while the time-locked move cooldown is
// still active), and re-arms that cooldown for lock seconds. If the unit
// is now actually moving, FacingDest snaps to point at Dest.
func (u *Unit) Move(loc Vec3, lock time.Duration) {
	if !u.timer.TimedOut(timeLockedMoveKey) {
		return
	}
	u.timer.SetTimeout(timeLockedMoveKey, lock)
	u.timer.SetEvent(timeLockedMoveKey)
	u.Dest = loc
	if u.horizontalGap() > 1e-4 {
		u.FacingDest = math.Atan2(loc.Y-u.Pos.Y, loc.X-u.Pos.X)
	}
}

// Face stops horizontal motion and points FacingDest at angle.
func (u *Unit) Face(angle float64) {
	u.Dest = u.Pos
	u.FacingDest = angle
}

// FaceLocation is Face, but computed from a target point.
func (u *Unit) FaceLocation(loc Vec3) {
	u.Face(math.Atan2(loc.Y-u.Pos.Y, loc.X-u.Pos.X))
}

// Stop cancels movement and detaches any follow target.
func (u *Unit) Stop() {
	u.Dest = u.Pos
	u.Follow = nil
}

func (u *Unit) horizontalGap() float64 {
	return math.Hypot(u.Dest.X-u.Pos.X, u.Dest.Y-u.Pos.Y)
}

// normalizeAngle folds a into (-pi, pi].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// shortestArc returns the signed delta to rotate `from` toward `to` along
// the shorter direction.
func shortestArc(from, to float64) float64 {
	return normalizeAngle(to - from)
}

// Idle advances the unit by one tick at time t (spec §4.2 Idle).
func (u *Unit) Idle(t time.Time) {
	u.timer.SetTime(t)
	dt := u.timer.Elapsed(timer.CurrentTime).Seconds()
	if dt < 0 {
		dt = 0
	}

	if u.Follow != nil {
		u.Dest = u.Follow.Pos
	}

	// Rotate facing toward facing_dest along the shorter arc.
	delta := shortestArc(u.Facing, u.FacingDest)
	step := u.FacingSpeed * dt
	if math.Abs(delta) <= step {
		u.Facing = normalizeAngle(u.FacingDest)
	} else if delta > 0 {
		u.Facing = normalizeAngle(u.Facing + step)
	} else {
		u.Facing = normalizeAngle(u.Facing - step)
	}

	// Advance position toward dest, clamped to the remaining distance.
	gap := u.horizontalGap()
	if gap > 1e-4 {
		travel := math.Min(u.MovingSpeed*dt, gap)
		dx, dy := u.Dest.X-u.Pos.X, u.Dest.Y-u.Pos.Y
		u.Pos.X += dx / gap * travel
		u.Pos.Y += dy / gap * travel
	}
}
