package driver

// Stage names a phase of the per-file pipeline.
type Stage string

const (
	StageParse   Stage = "parse"
	StageAnalyze Stage = "analyze"
)

// Status describes how far a file has progressed through a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for one file. Paths are the same display paths
// used in reports, so UIs can key on them directly.
type Event struct {
	Path   string
	Stage  Stage
	Status Status
}

// EventSink receives progress events. Implementations must be safe for
// concurrent use: Check emits events from multiple worker goroutines.
type EventSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events to a channel. The channel should be
// buffered or actively drained, otherwise workers block on emit.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	s.Ch <- ev
}

func emit(sink EventSink, path string, stage Stage, status Status) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{Path: path, Stage: stage, Status: status})
}
