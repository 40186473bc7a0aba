package utils

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestSplitWork(t *testing.T) {
	const workSize = 1000
	var seen [workSize]atomic.Uint32

	var initCalls atomic.Int32
	err := SplitWork(0, workSize, func(workIndex uint64, routineIndex int) error {
		seen[workIndex].Add(1)
		return nil
	}, func(routines, routineIndex int) error {
		initCalls.Add(1)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	for i := range seen {
		if n := seen[i].Load(); n != 1 {
			t.Fatalf("work index %d executed %d times", i, n)
		}
	}
	if initCalls.Load() == 0 {
		t.Fatal("init was not called")
	}
}

func TestSplitWorkError(t *testing.T) {
	errStop := errors.New("stop")
	err := SplitWork(4, 100, func(workIndex uint64, routineIndex int) error {
		if workIndex == 10 {
			return errStop
		}
		return nil
	}, nil)
	if !errors.Is(err, errStop) {
		t.Fatalf("expected %v, got %v", errStop, err)
	}
}

func TestSplitWorkEmpty(t *testing.T) {
	if err := SplitWork(4, 0, func(uint64, int) error {
		t.Fatal("unexpected work")
		return nil
	}, nil); err != nil {
		t.Fatal(err)
	}
}
