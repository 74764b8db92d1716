package form

// Mode is the explicit state of the form.
type Mode int

const (
	// ModeIdle is the state right after the form is restored.
	ModeIdle Mode = iota
	// ModeEditing follows any field change.
	ModeEditing
	// ModeSubmitting lasts while a request is in flight.
	ModeSubmitting
	// ModeDisplayed holds a result or an error from the last submission.
	ModeDisplayed
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeEditing:
		return "editing"
	case ModeSubmitting:
		return "submitting"
	case ModeDisplayed:
		return "displayed"
	default:
		return "unknown"
	}
}

// Button labels
const (
	LabelSubmit     = "开始交流"
	LabelSubmitting = "生成中…"
)
