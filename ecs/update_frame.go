package ecs

// UpdateFrame is handed to every system during one Scheduler tick.
type UpdateFrame struct {
	DeltaTime float64
	Now       float64
	Frame     uint64
	Commands  *Commands
	Storage   *Storage
}

func newUpdateFrame(clock Clock, commands *Commands, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: clock.Delta,
		Now:       clock.Now,
		Frame:     clock.Frame,
		Commands:  commands,
		Storage:   storage,
	}
}
