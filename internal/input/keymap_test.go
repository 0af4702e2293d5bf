package input

import "testing"

type testKey int

const (
	keyLeftArrow testKey = iota
	keyA
	keyRightArrow
	keyUnbound
)

func TestKeyMapHoldAndRelease(t *testing.T) {
	im := NewInputManager()
	km := NewKeyMap[testKey](im)
	km.Bind(keyLeftArrow, ButtonLeft)
	km.Bind(keyA, ButtonLeft)
	km.Bind(keyRightArrow, ButtonRight)

	if !km.HandleKey(keyA, true) {
		t.Fatal("Expected bound key to be handled")
	}
	im.Tick()
	if !im.IsDown(ButtonLeft) {
		t.Errorf("Expected %q Down, got %v", ButtonLeft, im.State(ButtonLeft))
	}
	if im.State(ButtonRight) != Up {
		t.Errorf("Expected %q Up", ButtonRight)
	}

	km.HandleKey(keyA, false)
	im.Tick()
	if !im.WasPressed(ButtonLeft) {
		t.Errorf("Expected %q Pressed after release, got %v", ButtonLeft, im.State(ButtonLeft))
	}
}

func TestKeyMapUnboundIgnored(t *testing.T) {
	im := NewInputManager()
	km := NewKeyMap[testKey](im)

	if km.HandleKey(keyUnbound, true) {
		t.Error("Expected unbound key to be ignored")
	}
	km.Bind(keyUnbound, ButtonQuit)
	km.Unbind(keyUnbound)
	if km.HandleTap(keyUnbound) {
		t.Error("Expected unbound key to be ignored after Unbind")
	}
	im.Tick()
	if im.State(ButtonQuit) != Up {
		t.Errorf("Expected %q Up", ButtonQuit)
	}
}

func TestKeyMapTap(t *testing.T) {
	im := NewInputManager()
	km := NewKeyMap[testKey](im)
	km.Bind(keyRightArrow, ButtonRight)

	km.HandleTap(keyRightArrow)
	im.Tick()
	if !im.WasPressed(ButtonRight) {
		t.Fatalf("Expected tap to surface as Pressed, got %v", im.State(ButtonRight))
	}
	im.Tick()
	if im.State(ButtonRight) != Up {
		t.Errorf("Expected Up after tap tick, got %v", im.State(ButtonRight))
	}
}
