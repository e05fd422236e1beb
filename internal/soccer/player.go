package soccer

import (
	"math"
	"time"

	"github.com/theoden8/mini-fifa-sub000/internal/config"
	"github.com/theoden8/mini-fifa-sub000/internal/kinematics"
	"github.com/theoden8/mini-fifa-sub000/internal/timer"
)

// Team identifies a side.
type Team int

const (
	RedTeam  Team = 0
	BlueTeam Team = 1
)

// SlowdownKind and DispossessKind select the preset cooldown duration
// applied by TimestampSlowdown/TimestampDispossess (spec §4.4).
type DispossessKind int

const (
	DispossessShot DispossessKind = iota
	DispossessDefault
)

type SlowdownKind int

const (
	SlowdownKindShot SlowdownKind = iota
	SlowdownKindSlide
)

const (
	lastPassKey = iota
	lastSlideKey
	slideReloadKey
	lastJumpKey
	jumpReloadKey
	cantHoldBallKey
	slowdownKey
)

// Player is a team member: a Unit plus the cooldown timers and possession
// bookkeeping described in spec §4.4.
type Player struct {
	id   int
	team Team
	Unit *kinematics.Unit

	Active bool

	PossessionOffset float64 // distance ahead of facing where the player controls the ball

	jumpZ float64
	jumpVZ float64

	slideVec kinematics.Vec3

	cfg   config.Config
	timer *timer.Timer
}

// NewPlayer constructs a player at pos on the given team.
func NewPlayer(cfg config.Config, id int, team Team, pos kinematics.Vec3, now time.Time) *Player {
	u := kinematics.New(pos, cfg.FacingSpeed, now)
	u.MovingSpeed = cfg.RunningSpeed
	return &Player{
		id:               id,
		team:             team,
		Unit:             u,
		Active:           true,
		PossessionOffset: 0.3,
		cfg:              cfg,
		timer:            timer.New(now),
	}
}

func (p *Player) ID() int     { return p.id }
func (p *Player) Team() Team  { return p.team }
func (p *Player) Height() float64 { return p.jumpZ }

// IsOwner reports whether p currently owns ball.
func (p *Player) IsOwner(ball *Ball) bool {
	return ball.Owner() == p.id
}

// IsJumping reports whether a jump is in progress: the vertical jump
// offset is above zero or the vertical jump velocity is nonzero.
func (p *Player) IsJumping() bool {
	return p.jumpZ > 1e-9 || p.jumpVZ != 0
}

// IsGoingUp is the rising half of the jump curve (spec GLOSSARY).
func (p *Player) IsGoingUp() bool {
	return p.IsJumping() && p.jumpVZ > 0
}

// IsSliding reports whether the slide animation/cooldown window is active.
func (p *Player) IsSliding() bool {
	return !p.timer.TimedOut(lastSlideKey)
}

// IsSlidingFast is the first half of the slide window, during which the
// player cannot simultaneously be awarded possession (spec §4.5).
func (p *Player) IsSlidingFast() bool {
	return p.IsSliding() && p.timer.Elapsed(lastSlideKey) < p.cfg.SlideTime/2
}

// CanPass reports whether the pass cooldown has expired.
func (p *Player) CanPass() bool {
	return p.Active && p.timer.TimedOut(lastPassKey)
}

// CanSlide reports whether the slide reload has expired and the player
// isn't already sliding.
func (p *Player) CanSlide() bool {
	return p.Active && !p.IsSliding() && p.timer.TimedOut(slideReloadKey)
}

// CanJump reports whether the jump reload has expired.
func (p *Player) CanJump() bool {
	return p.Active && !p.IsJumping() && p.timer.TimedOut(jumpReloadKey)
}

// cantHoldBall reports whether the post-dispossession lockout is active.
func (p *Player) cantHoldBall() bool {
	return !p.timer.TimedOut(cantHoldBallKey)
}

// PossessionPoint is the point in front of the player where they control
// the ball, used by the possession contest (spec §4.4).
func (p *Player) PossessionPoint() kinematics.Vec3 {
	return kinematics.Vec3{
		X: p.Unit.Pos.X + math.Cos(p.Unit.Facing)*p.PossessionOffset,
		Y: p.Unit.Pos.Y + math.Sin(p.Unit.Facing)*p.PossessionOffset,
		Z: p.Unit.Pos.Z,
	}
}

// GetControlPotential returns a non-negative distance-like score in
// [0, control_range], or NaN when the player cannot tackle (spec §4.4).
func (p *Player) GetControlPotential(ball *Ball) float64 {
	if !p.Active || p.cantHoldBall() || p.IsSlidingFast() {
		return math.NaN()
	}
	d := p.PossessionPoint().HorizontalDistance(ball.Unit.Pos)
	if d > p.cfg.ControlRange {
		return math.NaN()
	}
	return d
}

// TimestampGotBall advances p's timer to t, the moment p gained the ball;
// no separate got-ball event is recorded.
func (p *Player) TimestampGotBall(t time.Time) {
	p.timer.SetTime(t)
}

// TimestampDispossess arms the "can't hold ball" lockout per kind.
func (p *Player) TimestampDispossess(t time.Time, kind DispossessKind) {
	p.timer.SetTime(t)
	d := p.cfg.CantHoldBallDispossess
	if kind == DispossessShot {
		d = p.cfg.CantHoldBallShot
	}
	p.timer.SetTimeout(cantHoldBallKey, d)
	p.timer.SetEvent(cantHoldBallKey)
}

// TimestampSlide arms the slide animation + reload cooldowns.
func (p *Player) TimestampSlide(t time.Time) {
	p.timer.SetTime(t)
	p.timer.SetTimeout(lastSlideKey, p.cfg.SlideTime)
	p.timer.SetTimeout(slideReloadKey, p.cfg.SlideTime)
	p.timer.SetEvent(lastSlideKey)
	p.timer.SetEvent(slideReloadKey)
}

// TimestampPassed arms the pass cooldown.
func (p *Player) TimestampPassed(t time.Time) {
	p.timer.SetTime(t)
	p.timer.SetTimeout(lastPassKey, p.cfg.PassCooldown)
	p.timer.SetEvent(lastPassKey)
}

// TimestampJump arms the jump reload cooldown and starts the jump curve.
func (p *Player) TimestampJump(t time.Time, vz float64) {
	p.timer.SetTime(t)
	p.timer.SetTimeout(jumpReloadKey, p.cfg.JumpReload)
	p.timer.SetEvent(jumpReloadKey)
	p.jumpVZ = vz
}

// TimestampSlowdown applies a short movement-speed reduction after a shot
// or slide tackle.
func (p *Player) TimestampSlowdown(t time.Time, kind SlowdownKind) {
	p.timer.SetTime(t)
	d := p.cfg.SlowdownShot
	if kind == SlowdownKindSlide {
		d = p.cfg.SlowdownSlide
	}
	p.timer.SetTimeout(slowdownKey, d)
	p.timer.SetEvent(slowdownKey)
	p.Unit.MovingSpeed = p.cfg.RunningSpeed * 0.4
}

// KickTheBall transfers the player's kick into ball state (spec §4.4).
func (p *Player) KickTheBall(t time.Time, ball *Ball, horizontalSpeed, verticalSpeed, direction float64) {
	ball.Unit.FacingDest = direction
	ball.Unit.MovingSpeed = horizontalSpeed
	ball.VerticalSpeed = verticalSpeed
	ball.IsInAir = verticalSpeed > 0
	ball.DisableInteraction(t, p.cfg.CantInteractShot)
}

// idleJump integrates the player's vertical jump offset (mirrors the
// ball's vertical integration, scaled by the jump period rather than
// gravity directly, per spec §4.4's jump_period/jump_reload constants).
func (p *Player) idleJump(dt float64) {
	if !p.IsJumping() {
		return
	}
	p.jumpZ += p.jumpVZ * dt
	p.jumpVZ -= p.cfg.Gravity * dt / (p.cfg.JumpPeriod.Seconds())
	if p.jumpZ <= 0 && p.jumpVZ < 0 {
		p.jumpZ = 0
		p.jumpVZ = 0
	}
}

// Idle advances player cooldown timers, kinematics and jump integration
// by one tick.
func (p *Player) Idle(t time.Time) {
	p.timer.SetTime(t)
	dt := p.timer.Elapsed(timer.CurrentTime).Seconds()
	if dt < 0 {
		dt = 0
	}
	if p.timer.TimedOut(slowdownKey) {
		p.Unit.MovingSpeed = p.cfg.RunningSpeed
	}
	p.idleJump(dt)
	if p.IsSliding() {
		p.Unit.Pos.X += p.slideVec.X * dt
		p.Unit.Pos.Y += p.slideVec.Y * dt
	}
	p.Unit.Idle(t)
}
