package sim

// recordingEvent appends its label to a shared log when executed.
type recordingEvent struct {
	BaseEvent
	log *[]string
}

func newRecordingEvent(time float64, label string, log *[]string) *recordingEvent {
	return &recordingEvent{BaseEvent: newBaseEvent(time, label, FlagUnset), log: log}
}

func (e *recordingEvent) Execute(_ *Simulator) {
	*e.log = append(*e.log, e.label)
}

// scheduleEvent is an event that schedules another one when executed.
type scheduleEvent struct {
	BaseEvent
	next Event
}

func (e *scheduleEvent) Execute(sim *Simulator) {
	sim.Schedule(e.next)
}

// baseTandemConfig is the reference scenario used across tests.
func baseTandemConfig() Config {
	return Config{
		Horizon:            1000,
		PacketLength:       100,
		GenerationConstant: 1.0,
		ServiceConstant:    0.5,
		LambdaOn:           1.0,
		LambdaOff:          1.0,
		Streams:            2,
		DroppedStreams:     0,
		Seed:               42,
	}
}

// cancelEvent records its label and then cancels the run's context.
type cancelEvent struct {
	recordingEvent
	cancel func()
}

func (e *cancelEvent) Execute(sim *Simulator) {
	e.recordingEvent.Execute(sim)
	e.cancel()
}
