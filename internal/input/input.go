package input

import "sync"

// ButtonState is the debounced state of a logical button as seen by one frame
type ButtonState int

const (
	Up ButtonState = iota
	Down
	// Pressed is a one-tick edge: the button went down and came back up
	// since the previous tick
	Pressed
)

func (s ButtonState) String() string {
	switch s {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Pressed:
		return "Pressed"
	default:
		return "Unknown"
	}
}

// Logical button names used by the flyer
const (
	ButtonLeft  = "left"
	ButtonRight = "right"
	ButtonQuit  = "quit"
	ButtonHUD   = "hud"
)

type pendingState struct {
	name  string
	state ButtonState
}

// InputManager collects raw button edges from any goroutine and applies them
// once per frame in Tick, so a frame never sees a half-applied transition
type InputManager struct {
	// mu guards pending only; buttons and pressed belong to the Tick goroutine
	mu      sync.Mutex
	pending []pendingState

	buttons map[string]ButtonState
	pressed []string
}

// NewInputManager creates an InputManager with no recorded buttons
func NewInputManager() *InputManager {
	return &InputManager{
		buttons: make(map[string]ButtonState),
	}
}

// Push records that the named button went down
func (im *InputManager) Push(name string) {
	im.enqueue(name, Down)
}

// Release records that the named button came up
func (im *InputManager) Release(name string) {
	im.enqueue(name, Up)
}

func (im *InputManager) enqueue(name string, state ButtonState) {
	im.mu.Lock()
	im.pending = append(im.pending, pendingState{name: name, state: state})
	im.mu.Unlock()
}

// Tick applies pending edges. It must be called exactly once per frame,
// before anything reads button state for that frame.
func (im *InputManager) Tick() {
	// Pressed only lives for the tick that produced it
	for _, name := range im.pressed {
		if im.buttons[name] == Pressed {
			im.buttons[name] = Up
		}
	}
	im.pressed = im.pressed[:0]

	im.mu.Lock()
	pending := im.pending
	im.pending = nil
	im.mu.Unlock()

	for _, p := range pending {
		old, seen := im.buttons[p.name]
		switch {
		case !seen:
			im.buttons[p.name] = p.state
		case p.state == Up && old == Down:
			im.buttons[p.name] = Pressed
			im.pressed = append(im.pressed, p.name)
		default:
			im.buttons[p.name] = p.state
		}
	}
}

// State returns the state of the named button as of the last Tick.
// Buttons never seen are Up.
func (im *InputManager) State(name string) ButtonState {
	if s, ok := im.buttons[name]; ok {
		return s
	}
	return Up
}

// IsDown reports whether the named button is being held
func (im *InputManager) IsDown(name string) bool {
	return im.State(name) == Down
}

// WasPressed reports whether the named button completed a press this tick
func (im *InputManager) WasPressed(name string) bool {
	return im.State(name) == Pressed
}
