package input

import "sync"

// KeyMap maps physical keys of some backend (glfw.Key, ebiten.Key, tcell
// keys) to logical button names and forwards key edges to an InputManager.
// Handle* methods may be called from event callbacks on any goroutine.
type KeyMap[K comparable] struct {
	mu       sync.RWMutex
	bindings map[K][]string
	target   *InputManager
}

// NewKeyMap creates an empty KeyMap feeding im
func NewKeyMap[K comparable](im *InputManager) *KeyMap[K] {
	return &KeyMap[K]{
		bindings: make(map[K][]string),
		target:   im,
	}
}

// Bind binds a key to a button. Several keys may drive the same button.
func (km *KeyMap[K]) Bind(key K, button string) {
	km.mu.Lock()
	defer km.mu.Unlock()
	km.bindings[key] = append(km.bindings[key], button)
}

// Unbind removes all bindings for a key
func (km *KeyMap[K]) Unbind(key K) {
	km.mu.Lock()
	defer km.mu.Unlock()
	delete(km.bindings, key)
}

// Buttons returns the buttons bound to key
func (km *KeyMap[K]) Buttons(key K) []string {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return append([]string(nil), km.bindings[key]...)
}

// HandleKey forwards a key going down or up. Unbound keys are ignored and
// report false.
func (km *KeyMap[K]) HandleKey(key K, down bool) bool {
	buttons := km.Buttons(key)
	for _, b := range buttons {
		if down {
			km.target.Push(b)
		} else {
			km.target.Release(b)
		}
	}
	return len(buttons) > 0
}

// HandleTap forwards a key press from a source that never reports releases
// (terminals). The push/release pair surfaces as Pressed on the next tick.
func (km *KeyMap[K]) HandleTap(key K) bool {
	buttons := km.Buttons(key)
	for _, b := range buttons {
		km.target.Push(b)
		km.target.Release(b)
	}
	return len(buttons) > 0
}
