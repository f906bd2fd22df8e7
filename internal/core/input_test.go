package core

import (
	"sync"
	"testing"
)

func TestKeyLatchLastWriteWins(t *testing.T) {
	l := NewKeyLatch()

	if a := l.Poll(); a != ActionNone {
		t.Fatalf("Poll() on empty latch = %v, expected None", a)
	}

	l.Push(ActionMoveLeft)
	l.Push(ActionRotateCW)
	l.Push(ActionSoftDrop)

	if a := l.Poll(); a != ActionSoftDrop {
		t.Errorf("Poll() = %v, expected SoftDrop (last of burst)", a)
	}
	if a := l.Poll(); a != ActionNone {
		t.Errorf("second Poll() = %v, expected None", a)
	}
}

func TestKeyLatchIgnoresNone(t *testing.T) {
	l := NewKeyLatch()
	l.Push(ActionMoveRight)
	l.Push(ActionNone)

	if a := l.Poll(); a != ActionMoveRight {
		t.Errorf("Poll() = %v, expected MoveRight", a)
	}
}

func TestKeyLatchConcurrentPush(t *testing.T) {
	l := NewKeyLatch()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l.Push(ActionRotateCCW)
			}
		}()
	}
	wg.Wait()

	if a := l.Poll(); a != ActionRotateCCW {
		t.Errorf("Poll() = %v, expected RotateCCW", a)
	}
}

func TestActionStringRoundTrip(t *testing.T) {
	for a := ActionNone; a <= ActionQuit; a++ {
		if got := ParseAction(a.String()); got != a {
			t.Errorf("ParseAction(%q) = %v, expected %v", a.String(), got, a)
		}
	}
	if got := ParseAction("Jump"); got != ActionNone {
		t.Errorf("ParseAction(unknown) = %v, expected None", got)
	}
}

func TestActionIsMove(t *testing.T) {
	moves := map[Action]bool{
		ActionMoveLeft:  true,
		ActionMoveRight: true,
		ActionSoftDrop:  true,
		ActionRotateCW:  true,
		ActionRotateCCW: true,
		ActionNone:      false,
		ActionPause:     false,
		ActionRestart:   false,
		ActionQuit:      false,
	}
	for a, expected := range moves {
		if a.IsMove() != expected {
			t.Errorf("%v.IsMove() = %v, expected %v", a, a.IsMove(), expected)
		}
	}
}
