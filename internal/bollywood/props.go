package bollywood

// Producer builds one Actor instance. Engine.Spawn calls it exactly once
// per actor, on the actor's own goroutine.
type Producer func() Actor

// Props bundles the configuration Engine.Spawn needs to start an actor.
type Props struct {
	producer Producer
}

// NewProps wraps producer in a Props. Panics on a nil producer, since a
// Spawn with no way to build an actor is always a caller bug.
func NewProps(producer Producer) *Props {
	if producer == nil {
		panic("bollywood: producer cannot be nil")
	}
	return &Props{producer: producer}
}

func (p *Props) Produce() Actor {
	return p.producer()
}
