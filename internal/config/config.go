// Package config bundles every tunable scalar the simulation and
// networking layers need so callers never hand-wire magic numbers.
package config

import "time"

// Config holds all configurable simulation and networking parameters.
type Config struct {
	// Timing
	TickPeriod time.Duration `json:"tickPeriod"` // Time between Soccer.Idle calls

	// Gauge scales every velocity/acceleration constant to pitch units (§GLOSSARY).
	Gauge float64 `json:"gauge"`

	// Gravity used by ball/jump/lob arcs.
	Gravity float64 `json:"gravity"`

	// Player movement
	RunningSpeed float64 `json:"runningSpeed"`
	SlideSpeed   float64 `json:"slideSpeed"`
	SlideTime    time.Duration `json:"slideDuration"`
	JumpPeriod   time.Duration `json:"jumpPeriod"`
	JumpReload   time.Duration `json:"jumpReload"`
	FacingSpeed  float64 `json:"facingSpeed"` // radians/sec

	// Cooldowns
	CantHoldBallShot        time.Duration `json:"cantHoldBallShot"`
	CantHoldBallDispossess  time.Duration `json:"cantHoldBallDispossess"`
	SlowdownShot            time.Duration `json:"slowdownShot"`
	SlowdownSlide           time.Duration `json:"slowdownSlide"`
	CantInteractShot        time.Duration `json:"cantInteractShot"`
	CantInteractSlide       time.Duration `json:"cantInteractSlide"`
	LooseBallCooldown       time.Duration `json:"looseBallCooldown"`
	PassCooldown            time.Duration `json:"passCooldown"`

	// Ball
	BallDefaultHeight float64 `json:"ballDefaultHeight"`
	BallMinSpeed      float64 `json:"ballMinSpeed"`
	GroundFriction    float64 `json:"groundFriction"`
	GroundHitSlowdown float64 `json:"groundHitSlowdown"`
	BallRestitution   float64 `json:"ballRestitution"`

	// Possession contest
	ControlRange float64 `json:"controlRange"`

	// Networking
	MetaserverPort  int           `json:"metaserverPort"`
	ClientPort      int           `json:"clientPort"`
	HelloPeriod     time.Duration `json:"helloPeriod"`
	CheckPeriod     time.Duration `json:"checkPeriod"`
	UserTimeout     time.Duration `json:"userTimeout"`
	HostTimeout     time.Duration `json:"hostTimeout"`
	MaxDatagramSize int           `json:"maxDatagramSize"`
}

// Default returns the production tuning used by cmd/metaserver and cmd/client.
func Default() Config {
	const gauge = 1.0
	return Config{
		TickPeriod: 16 * time.Millisecond,

		Gauge:   gauge,
		Gravity: 9.8 * gauge,

		RunningSpeed: 4.0 * gauge,
		SlideSpeed:   7.0 * gauge,
		SlideTime:    350 * time.Millisecond,
		JumpPeriod:   500 * time.Millisecond,
		JumpReload:   300 * time.Millisecond,
		FacingSpeed:  6.0, // rad/s

		CantHoldBallShot:       250 * time.Millisecond,
		CantHoldBallDispossess: 400 * time.Millisecond,
		SlowdownShot:           200 * time.Millisecond,
		SlowdownSlide:          300 * time.Millisecond,
		CantInteractShot:       700 * time.Millisecond,
		CantInteractSlide:      450 * time.Millisecond,
		LooseBallCooldown:      160 * time.Millisecond,
		PassCooldown:           300 * time.Millisecond,

		BallDefaultHeight: 0.15,
		BallMinSpeed:      0.05,
		GroundFriction:    1.2,
		GroundHitSlowdown: 0.7,
		BallRestitution:   0.6,

		ControlRange: 0.9,

		MetaserverPort:  5678,
		ClientPort:      5679,
		HelloPeriod:     1 * time.Second,
		CheckPeriod:     3 * time.Second,
		UserTimeout:     3 * time.Second,
		HostTimeout:     3 * time.Second,
		MaxDatagramSize: 256,
	}
}

// Fast returns a tuning with shortened timeouts, used by tests that need
// to observe expiry/cooldown behavior without sleeping for realistic
// durations.
func Fast() Config {
	cfg := Default()
	cfg.TickPeriod = time.Millisecond
	cfg.HelloPeriod = 20 * time.Millisecond
	cfg.CheckPeriod = 60 * time.Millisecond
	cfg.UserTimeout = 60 * time.Millisecond
	cfg.HostTimeout = 60 * time.Millisecond
	cfg.LooseBallCooldown = 10 * time.Millisecond
	cfg.CantHoldBallShot = 10 * time.Millisecond
	cfg.CantHoldBallDispossess = 10 * time.Millisecond
	cfg.SlowdownShot = 10 * time.Millisecond
	cfg.SlowdownSlide = 10 * time.Millisecond
	cfg.CantInteractShot = 10 * time.Millisecond
	cfg.CantInteractSlide = 10 * time.Millisecond
	cfg.PassCooldown = 10 * time.Millisecond
	return cfg
}
