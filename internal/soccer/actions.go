package soccer

import (
	"math"
	"time"

	"github.com/theoden8/mini-fifa-sub000/internal/kinematics"
)

// Every *Action method is a no-op for an inactive or unknown playerId
// (spec §7 "simulation preconditions ... silently no-op").

// ZAction is the pass/kick action (spec §4.5).
func (s *Soccer) ZAction(t time.Time, playerID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.activePlayer(playerID)
	if p == nil || !p.CanPass() {
		return
	}
	p.TimestampPassed(t)
	if !p.IsOwner(s.Ball) {
		return
	}
	speed := 1.8 * p.cfg.RunningSpeed
	if !p.IsJumping() {
		dest := s.nearestTeammatePoint(p)
		direction := math.Atan2(dest.Y-s.Ball.Unit.Pos.Y, dest.X-s.Ball.Unit.Pos.X)
		p.KickTheBall(t, s.Ball, speed, 0, direction)
	} else {
		p.KickTheBall(t, s.Ball, speed, 0, p.Unit.Facing)
	}
}

// XAction is the shot (when owning, airborne) or slide-tackle action.
func (s *Soccer) XAction(t time.Time, playerID int, direction float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.activePlayer(playerID)
	if p == nil {
		return
	}
	if p.IsOwner(s.Ball) && !p.IsSliding() {
		p.KickTheBall(t, s.Ball, 300*p.cfg.Gauge, 20*p.cfg.Gauge, direction)
		return
	}
	if !p.CanSlide() {
		return
	}
	p.TimestampSlide(t)
	p.slideVec = kinematics.Vec3{
		X: math.Cos(direction) * p.cfg.SlideSpeed,
		Y: math.Sin(direction) * p.cfg.SlideSpeed,
	}
	p.Unit.Face(direction)
}

// CAction is the lob pass/shot action.
func (s *Soccer) CAction(t time.Time, playerID int, dest kinematics.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.activePlayer(playerID)
	if p == nil {
		return
	}
	if !p.IsOwner(s.Ball) || p.IsJumping() {
		p.Unit.FaceLocation(dest)
		return
	}
	vspeed := 30 * p.cfg.Gauge
	d := dest.Sub(s.Ball.Unit.Pos)
	dist := math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
	hSpeed := math.Min(522*p.cfg.Gauge, 5*p.cfg.Gravity*dist/vspeed)
	direction := math.Atan2(dest.Y-s.Ball.Unit.Pos.Y, dest.X-s.Ball.Unit.Pos.X)
	p.KickTheBall(t, s.Ball, hSpeed, vspeed, direction)
	p.TimestampSlowdown(t, SlowdownKindShot)
}

// VAction jumps (lower when the player owns the ball, per spec §4.5).
func (s *Soccer) VAction(t time.Time, playerID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.activePlayer(playerID)
	if p == nil || !p.CanJump() {
		return
	}
	vz := 20 * p.cfg.Gauge
	if p.IsOwner(s.Ball) {
		vz = 15 * p.cfg.Gauge
	}
	p.TimestampJump(t, vz)
}

// FAction turns the player to face dir without moving.
func (s *Soccer) FAction(playerID int, dir float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.activePlayer(playerID)
	if p == nil {
		return
	}
	p.Unit.Face(dir)
}

// SAction stops the player.
func (s *Soccer) SAction(playerID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.activePlayer(playerID)
	if p == nil {
		return
	}
	p.Unit.Stop()
}

// MAction moves the player toward dest.
func (s *Soccer) MAction(playerID int, dest kinematics.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.activePlayer(playerID)
	if p == nil {
		return
	}
	p.Unit.Move(dest, 0)
}

// Leave deactivates playerID so it no longer participates in the
// possession contest or action dispatch (spec §4.11/§4.12 "leave()").
func (s *Soccer) Leave(playerID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.player(playerID)
	if p == nil {
		return
	}
	p.Active = false
}

// activePlayer returns the player by id, or nil if the id is invalid or
// inactive -- the single point where every *Action enforces the
// precondition described in spec §7.
func (s *Soccer) activePlayer(id int) *Player {
	p := s.player(id)
	if p == nil || !p.Active {
		return nil
	}
	return p
}
