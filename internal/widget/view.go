package widget

// Kind is the structural layout of a widget view.
type Kind string

const (
	KindSingle Kind = "single"
	KindTabbed Kind = "tabbed"
)

// Phase is the display state of one panel.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseError   Phase = "error"
)

// Panel is the view model for one file panel.
type Panel struct {
	Title     string `json:"title"`
	Language  string `json:"language,omitempty"`
	Phase     Phase  `json:"phase"`
	Content   string `json:"content,omitempty"` // marked-up HTML when ready
	Message   string `json:"message,omitempty"` // plain text when errored
	Retryable bool   `json:"retryable,omitempty"`
}

// ViewState is one emission of the orchestrator: a complete, tagged
// description of what the renderer collaborator should display.
type ViewState struct {
	Kind   Kind    `json:"kind"`
	Active int     `json:"active"`
	Style  string  `json:"style"`
	Panels []Panel `json:"panels"`
}

// Sink receives view-state emissions.
type Sink interface {
	Emit(view ViewState)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ViewState)

func (f SinkFunc) Emit(v ViewState) { f(v) }

// CollectingSink records every emission; Last returns the terminal one.
type CollectingSink struct {
	Views []ViewState
}

func (s *CollectingSink) Emit(v ViewState) { s.Views = append(s.Views, v) }

// Last returns the most recent emission, or false if none occurred.
func (s *CollectingSink) Last() (ViewState, bool) {
	if len(s.Views) == 0 {
		return ViewState{}, false
	}
	return s.Views[len(s.Views)-1], true
}
