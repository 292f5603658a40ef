package flow

// Phase is the coarse position of the kiosk in a flow.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseCountdown  Phase = "countdown"
	PhaseProcessing Phase = "processing"
	PhaseResult     Phase = "result"
)

// Tone selects the visual style of a message.
type Tone string

const (
	ToneNeutral Tone = "neutral"
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneError   Tone = "error"
)

// Screen is the visual arrangement presented to the user.
type Screen struct {
	Phase Phase

	CountdownVisible bool
	CountdownValue   int

	ProcessingVisible bool
	CaptureVisible    bool
	StartVisible      bool
	ResetVisible      bool

	ResultVisible bool
	ResultTone    Tone
	ResultMessage string
	// FaceImage holds the decoded face bytes. It is never mutated once published.
	FaceImage []byte

	StatusMessage string
	StatusTone    Tone

	// RedirectURL is set while a navigation is scheduled.
	RedirectURL string
}

// InitialScreen returns the pre-trigger arrangement.
func InitialScreen() Screen {
	return Screen{
		Phase:          PhaseIdle,
		CaptureVisible: true,
		StartVisible:   true,
		ResultTone:     ToneNeutral,
		StatusTone:     ToneNeutral,
	}
}

// IsInitial reports whether s equals the pre-trigger arrangement.
func (s Screen) IsInitial() bool {
	initial := InitialScreen()
	return s.Phase == initial.Phase &&
		s.CountdownVisible == initial.CountdownVisible &&
		s.CountdownValue == initial.CountdownValue &&
		s.ProcessingVisible == initial.ProcessingVisible &&
		s.CaptureVisible == initial.CaptureVisible &&
		s.StartVisible == initial.StartVisible &&
		s.ResetVisible == initial.ResetVisible &&
		s.ResultVisible == initial.ResultVisible &&
		s.ResultTone == initial.ResultTone &&
		s.ResultMessage == initial.ResultMessage &&
		len(s.FaceImage) == 0 &&
		s.StatusMessage == initial.StatusMessage &&
		s.StatusTone == initial.StatusTone &&
		s.RedirectURL == initial.RedirectURL
}

// Presenter receives every screen change. Present is called with the
// controller lock held and must not block or call back into the controller.
type Presenter interface {
	Present(screen Screen)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(screen Screen)

// Present calls f.
func (f PresenterFunc) Present(screen Screen) {
	f(screen)
}

// Navigator leaves the kiosk for a redirect target.
type Navigator interface {
	Navigate(target string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(target string)

// Navigate calls f.
func (f NavigatorFunc) Navigate(target string) {
	f(target)
}

type nopPresenter struct{}

func (nopPresenter) Present(Screen) {}

type nopNavigator struct{}

func (nopNavigator) Navigate(string) {}
