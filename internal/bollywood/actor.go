package bollywood

// Actor processes messages delivered to its mailbox one at a time.
type Actor interface {
	Receive(ctx Context)
}
