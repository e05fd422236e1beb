// Package intelligence defines the capability surface shared by local,
// AI, and remote player intent sources (spec §4.11/§4.12, design note §9
// "polymorphic player intent"). The authoritative path on the server never
// branches on which kind of Intelligence it's holding — only the adapter's
// constructor does.
package intelligence

import "github.com/theoden8/mini-fifa-sub000/internal/kinematics"

// Intelligence is the action surface every player-intent source
// implements: a local UI, a bot, or a remote client's adapter.
type Intelligence interface {
	ZAction()
	XAction(dir float64)
	CAction(dest kinematics.Vec3)
	VAction()
	FAction(dir float64)
	SAction()
	MAction(dest kinematics.Vec3)
	Leave()
	Idle()
	HasQuit() bool
}
