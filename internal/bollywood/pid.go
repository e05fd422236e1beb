package bollywood

// PID uniquely identifies a running actor within one Engine.
type PID struct {
	ID string
}

func (pid *PID) String() string {
	if pid == nil {
		return "<nil>"
	}
	return pid.ID
}
