// Package input turns raw key presses into a set of held logical actions.
package input

import (
	"sync"
	"time"
)

// Action is a logical game action a key can be bound to.
type Action uint8

const (
	MoveLeft Action = iota
	MoveRight
	Fire
	RotateLeft
	RotateRight
	Start
	Quit

	numActions
)

var actionNames = [numActions]string{
	MoveLeft:    "move-left",
	MoveRight:   "move-right",
	Fire:        "fire",
	RotateLeft:  "rotate-left",
	RotateRight: "rotate-right",
	Start:       "start",
	Quit:        "quit",
}

func (a Action) String() string {
	if a < numActions {
		return actionNames[a]
	}
	return "unknown"
}

// Held is an immutable snapshot of the actions held during one frame.
type Held uint16

// Of builds a snapshot with the given actions held.
func Of(actions ...Action) Held {
	var h Held
	for _, a := range actions {
		h = h.With(a)
	}
	return h
}

// Has reports whether a is held.
func (h Held) Has(a Action) bool {
	return h&(1<<a) != 0
}

// With returns a copy of h with a held.
func (h Held) With(a Action) Held {
	return h | 1<<a
}

// Keys is the held-keys set shared between input adapters and the game loop.
// Adapters call Press from their own goroutines; the loop reads Snapshot once
// per frame. Terminals report presses and auto-repeats but never releases, so
// an action stays held for hold after its last press unless Release is called.
type Keys struct {
	mu      sync.Mutex
	hold    time.Duration
	pressed [numActions]time.Time
	now     func() time.Time
}

// NewKeys creates an empty set where presses last for hold.
func NewKeys(hold time.Duration) *Keys {
	return &Keys{hold: hold, now: time.Now}
}

// Press marks a as held starting now.
func (k *Keys) Press(a Action) {
	if a >= numActions {
		return
	}
	k.mu.Lock()
	k.pressed[a] = k.now()
	k.mu.Unlock()
}

// Release drops a immediately.
func (k *Keys) Release(a Action) {
	if a >= numActions {
		return
	}
	k.mu.Lock()
	k.pressed[a] = time.Time{}
	k.mu.Unlock()
}

// Reset releases every action. Used on screen transitions so the key that
// started a game does not also act inside it.
func (k *Keys) Reset() {
	k.mu.Lock()
	clear(k.pressed[:])
	k.mu.Unlock()
}

// Snapshot returns the actions held right now.
func (k *Keys) Snapshot() Held {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	var h Held
	for a, at := range k.pressed {
		if !at.IsZero() && now.Sub(at) < k.hold {
			h = h.With(Action(a))
		}
	}
	return h
}
