// Package soccer implements the authoritative simulation core: Ball,
// Player and Soccer (spec §3, §4.3-§4.5).
package soccer

import (
	"math"
	"time"

	"github.com/theoden8/mini-fifa-sub000/internal/config"
	"github.com/theoden8/mini-fifa-sub000/internal/kinematics"
	"github.com/theoden8/mini-fifa-sub000/internal/timer"
)

// NoOwner is the sentinel "nobody owns the ball" player id (spec §3).
const NoOwner = -1

const (
	looseBallKey = iota
	ableToInteractKey
)

// Ball is a Unit plus vertical motion, ownership and the two cooldown
// timers described in spec §3/§4.3.
type Ball struct {
	Unit *kinematics.Unit

	VerticalSpeed float64
	IsInAir       bool
	currentOwner  int
	lastTouched   int

	// Spin is a renderer-facing rotation accumulator (spec §4.3: "spin the
	// render rotation proportional to moving_speed*dt"). It has no
	// physical effect on the simulation.
	Spin float64

	cfg   config.Config
	timer *timer.Timer
}

// NewBall places a ball at pos with no owner.
func NewBall(cfg config.Config, pos kinematics.Vec3, now time.Time) *Ball {
	u := kinematics.New(pos, 0, now)
	if pos.Z < cfg.BallDefaultHeight {
		u.Pos.Z = cfg.BallDefaultHeight
	}
	return &Ball{
		Unit:         u,
		currentOwner: NoOwner,
		lastTouched:  NoOwner,
		cfg:          cfg,
		timer:        timer.New(now),
	}
}

// Owner returns the current owner's player id, or NoOwner.
func (b *Ball) Owner() int { return b.currentOwner }

// Height returns the ball's current vertical position.
func (b *Ball) Height() float64 { return b.Unit.Pos.Z }

// IsLoose reports whether the loose-ball cooldown armed by the last
// ownership change is still running (spec §3).
func (b *Ball) IsLoose() bool {
	return !b.timer.TimedOut(looseBallKey)
}

// CanInteract reports whether the post-shot/slide interaction lockout has
// expired.
func (b *Ball) CanInteract() bool {
	return b.timer.TimedOut(ableToInteractKey)
}

// TimestampSetOwner records a new owner, arming the loose-ball cooldown,
// unless new is the same owner as before (idempotent, spec §4.3).
func (b *Ball) TimestampSetOwner(t time.Time, new int) {
	b.timer.SetTime(t)
	if new == b.currentOwner {
		return
	}
	b.lastTouched = new
	b.currentOwner = new
	b.timer.SetTimeout(looseBallKey, b.cfg.LooseBallCooldown)
	b.timer.SetEvent(looseBallKey)
	b.Unit.MovingSpeed = 0
}

// DisableInteraction arms the post-kick lockout for d.
func (b *Ball) DisableInteraction(t time.Time, d time.Duration) {
	b.timer.SetTime(t)
	b.timer.SetTimeout(ableToInteractKey, d)
	b.timer.SetEvent(ableToInteractKey)
}

// Idle advances the ball by one tick (spec §4.3).
func (b *Ball) Idle(t time.Time) {
	b.timer.SetTime(t)
	elapsed := b.timer.Elapsed(timer.CurrentTime).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}

	if b.currentOwner == NoOwner {
		if b.Unit.MovingSpeed < b.cfg.BallMinSpeed {
			b.Unit.MovingSpeed = 0
		} else {
			heading := b.Unit.FacingDest
			b.Unit.Pos.X += math.Cos(heading) * b.Unit.MovingSpeed * elapsed
			b.Unit.Pos.Y += math.Sin(heading) * b.Unit.MovingSpeed * elapsed
			b.Unit.MovingSpeed -= b.cfg.GroundFriction * elapsed
			if b.Unit.MovingSpeed < 0 {
				b.Unit.MovingSpeed = 0
			}
		}
	}

	if b.IsInAir {
		b.Unit.Pos.Z += 30 * b.VerticalSpeed * elapsed
		b.VerticalSpeed -= 0.0069 * elapsed
		if b.VerticalSpeed < 0 && b.Unit.Pos.Z <= b.cfg.BallDefaultHeight {
			b.Unit.MovingSpeed -= b.cfg.GroundHitSlowdown
			if b.Unit.MovingSpeed < 0 {
				b.Unit.MovingSpeed = 0
			}
			b.Unit.Pos.Z = b.cfg.BallDefaultHeight
			b.VerticalSpeed = -b.VerticalSpeed * b.cfg.BallRestitution
			if math.Abs(b.VerticalSpeed) < b.cfg.BallMinSpeed {
				b.VerticalSpeed = 0
				b.IsInAir = false
			}
		}
	} else if b.Unit.Pos.Z < b.cfg.BallDefaultHeight {
		b.Unit.Pos.Z = b.cfg.BallDefaultHeight
	}

	b.Spin += b.Unit.MovingSpeed * elapsed
	b.Unit.Idle(t)
}
