package soccer

import "github.com/theoden8/mini-fifa-sub000/internal/kinematics"

// PlayerSnapshot is the read-only per-player view exposed to renderers
// (spec §6).
type PlayerSnapshot struct {
	ID      int
	Team    Team
	Pos     kinematics.Vec3
	Facing  float64
	Jumping bool
	Sliding bool
}

// Snapshot is the read-only renderer-facing view of the whole match
// (spec §6). Callers must not hold Soccer's lock when calling Snapshot;
// it acquires the lock itself and copies everything it needs.
type Snapshot struct {
	BallPos    kinematics.Vec3
	BallFacing float64
	BallInAir  bool
	BallHeight float64
	Players    []PlayerSnapshot
	GameState  GameState
}

// Snapshot copies the current match state under the mutex.
func (s *Soccer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		BallPos:    s.Ball.Unit.Pos,
		BallFacing: s.Ball.Unit.Facing,
		BallInAir:  s.Ball.IsInAir,
		BallHeight: s.Ball.Height(),
		GameState:  s.State,
	}
	for _, p := range s.Players {
		snap.Players = append(snap.Players, PlayerSnapshot{
			ID:      p.ID(),
			Team:    p.Team(),
			Pos:     p.Unit.Pos,
			Facing:  p.Unit.Facing,
			Jumping: p.IsJumping(),
			Sliding: p.IsSliding(),
		})
	}
	return snap
}
