package soccer

import (
	"math"
	"sync"
	"time"

	"github.com/theoden8/mini-fifa-sub000/internal/config"
	"github.com/theoden8/mini-fifa-sub000/internal/kinematics"
)

// GameState is Soccer's phase (spec §3).
type GameState int

const (
	InProgress GameState = iota
	RedStart
	BlueStart
	RedThrowIn
	BlueThrowIn
	Halftime
	Finished
)

// SinglePlayerPassPoint is the fallback automatic-pass target used when a
// player has no teammate (spec §4.5).
var SinglePlayerPassPoint = kinematics.Vec3{X: 0, Y: 2.0 / 3, Z: 0}

// Soccer is the authoritative tick: an ordered player roster, one ball,
// a game phase, and the mutex guarding all of it (spec §3, §5). Unlike
// the networking actors, Soccer is not a message-driven bollywood.Actor:
// spec §5 calls for a single mutex guarding direct method calls from both
// the game loop and every *_action, so that's what this implements.
type Soccer struct {
	mu      sync.Mutex
	Players []*Player
	Ball    *Ball
	State   GameState
	cfg     config.Config

	team1Size int
}

// New builds a Soccer match with team1Size red players followed by
// team2Size blue players, and a ball at ballPos.
func New(cfg config.Config, team1Size, team2Size int, positions []kinematics.Vec3, ballPos kinematics.Vec3, now time.Time) *Soccer {
	s := &Soccer{cfg: cfg, State: InProgress, team1Size: team1Size}
	for i := 0; i < team1Size+team2Size; i++ {
		team := RedTeam
		if i >= team1Size {
			team = BlueTeam
		}
		pos := kinematics.Vec3{}
		if i < len(positions) {
			pos = positions[i]
		}
		s.Players = append(s.Players, NewPlayer(cfg, i, team, pos, now))
	}
	s.Ball = NewBall(cfg, ballPos, now)
	return s
}

// Lock/Unlock expose the recursive-in-spirit mutex to renderers that must
// copy a snapshot under the same lock Soccer itself uses (spec §5, §6).
// Soccer's own methods never call each other re-entrantly while holding
// the lock, so a plain sync.Mutex suffices in Go (unlike the C++ source's
// recursive mutex).
func (s *Soccer) Lock()   { s.mu.Lock() }
func (s *Soccer) Unlock() { s.mu.Unlock() }

func (s *Soccer) player(id int) *Player {
	if id < 0 || id >= len(s.Players) {
		return nil
	}
	return s.Players[id]
}

// findBestPossession implements spec §4.5 step 1.b.
func (s *Soccer) findBestPossession() int {
	owner := s.Ball.Owner()
	ownerTeam := Team(-1)
	if op := s.player(owner); op != nil {
		ownerTeam = op.Team()
	}

	best := math.NaN()
	result := owner
	anyoneValid := false

	for _, p := range s.Players {
		if p.ID() == owner {
			continue
		}
		if ownerTeam != Team(-1) && p.Team() == ownerTeam {
			continue // can't steal from a teammate
		}
		potential := p.GetControlPotential(s.Ball)
		if math.IsNaN(potential) {
			continue
		}
		anyoneValid = true
		if math.IsNaN(best) || potential < best {
			best = potential
			result = p.ID()
		}
	}

	if op := s.player(owner); op != nil {
		ownerPotential := op.GetControlPotential(s.Ball)
		if !math.IsNaN(ownerPotential) {
			anyoneValid = true
			if math.IsNaN(best) || ownerPotential < best {
				best = ownerPotential
				result = owner
			}
		}
		if !anyoneValid {
			result = NoOwner
		}
	}

	return result
}

// setControlPlayer implements spec §4.5 step 1.c.
func (s *Soccer) setControlPlayer(t time.Time, newOwner int) {
	oldOwner := s.Ball.Owner()
	oldPlayer := s.player(oldOwner)
	newPlayer := s.player(newOwner)

	if oldPlayer != nil {
		if newPlayer == nil {
			oldPlayer.TimestampDispossess(t, DispossessShot)
		} else if newOwner != oldOwner {
			oldPlayer.TimestampDispossess(t, DispossessDefault)
		}
		if oldPlayer.IsSlidingFast() {
			oldPlayer.TimestampSlowdown(t, SlowdownKindSlide)
		}
	}

	if newPlayer != nil && newOwner != oldOwner {
		s.Ball.TimestampSetOwner(t, newOwner)
		newPlayer.TimestampGotBall(t)
		switch {
		case newPlayer.IsSlidingFast():
			newPlayer.TimestampSlowdown(t, SlowdownKindSlide)
			s.Ball.Unit.FacingDest = newPlayer.Unit.Facing
			s.Ball.Unit.MovingSpeed = newPlayer.Unit.MovingSpeed
			s.Ball.DisableInteraction(t, s.cfg.CantInteractShot)
		case newPlayer.IsGoingUp():
			s.automaticPass(t, newPlayer)
		default:
			// simple possession: ball snaps to possession point on the
			// next idleControl call.
		}
	} else if newOwner == NoOwner {
		s.Ball.TimestampSetOwner(t, NoOwner)
	}
}

// automaticPass implements the "picked up while rising" rule (spec
// §4.5).
func (s *Soccer) automaticPass(t time.Time, p *Player) {
	dest := s.nearestTeammatePoint(p)
	dist := p.Unit.Pos.HorizontalDistance(dest)
	h := s.Ball.Height()
	tm := 0.1 * math.Sqrt(2*h/s.cfg.Gravity)
	speed := math.Max(s.Ball.Unit.MovingSpeed, 350*s.cfg.Gauge)

	var vz, hSpeed float64
	if tm > 0 && dist < speed*tm {
		vz = 0
		hSpeed = dist / tm
	} else {
		hSpeed = speed
		if hSpeed > 0 {
			vz = math.Min(10*s.cfg.Gauge, 10*s.cfg.Gauge*s.cfg.Gravity*0.5*dist/hSpeed)
		}
	}

	direction := math.Atan2(dest.Y-s.Ball.Unit.Pos.Y, dest.X-s.Ball.Unit.Pos.X)
	p.KickTheBall(t, s.Ball, hSpeed, vz, direction)
}

// nearestTeammatePoint returns the closest teammate's possession point, or
// SinglePlayerPassPoint if p has no teammates.
func (s *Soccer) nearestTeammatePoint(p *Player) kinematics.Vec3 {
	best := math.Inf(1)
	found := false
	var dest kinematics.Vec3
	for _, o := range s.Players {
		if o.ID() == p.ID() || o.Team() != p.Team() {
			continue
		}
		pt := o.PossessionPoint()
		d := p.Unit.Pos.HorizontalDistance(pt)
		if d < best {
			best = d
			dest = pt
			found = true
		}
	}
	if !found {
		return SinglePlayerPassPoint
	}
	return dest
}

// idleControl runs the possession contest (spec §4.5 step 1).
func (s *Soccer) idleControl(t time.Time) {
	if owner := s.player(s.Ball.Owner()); owner != nil && owner.Active && !s.Ball.IsLoose() {
		pp := owner.PossessionPoint()
		s.Ball.Unit.Pos.X = pp.X
		s.Ball.Unit.Pos.Y = pp.Y
		s.Ball.Unit.Pos.Z = owner.Height() + s.cfg.BallDefaultHeight
	}

	newOwner := s.findBestPossession()
	s.setControlPlayer(t, newOwner)
}

// Idle advances the whole match by one tick, in the strict order required
// by spec §4.5 / §5: possession contest, ball integration, player
// integration. Idle is a no-op once the match has reached Finished.
func (s *Soccer) Idle(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.State == Finished {
		return
	}
	s.idleControl(t)
	s.Ball.Idle(t)
	for _, p := range s.Players {
		p.Idle(t)
	}
}
