package coro

import "testing"

func TestScheduler_HandOffAndJoin(t *testing.T) {
	rt, err := NewRuntime()
	if err != nil {
		t.Fatalf("NewRuntime() error = %v", err)
	}

	var order []string
	rt.Run(func(main *Context) []any {
		a := rt.New(func(c *Context) []any {
			order = append(order, "a")
			rt.Cede()
			order = append(order, "a2")
			return []any{"a-result"}
		}, WithName("a"))
		b := rt.New(func(c *Context) []any {
			order = append(order, "b")
			return nil
		}, WithName("b"))

		if err := a.Ready(); err != nil {
			t.Errorf("a.Ready() error = %v", err)
		}
		if err := b.Ready(); err != nil {
			t.Errorf("b.Ready() error = %v", err)
		}

		aVals, err := a.Join(nil)
		if err != nil {
			t.Errorf("a.Join() error = %v", err)
		}
		if len(aVals) != 1 || aVals[0] != "a-result" {
			t.Errorf("a.Join() = %v, want [a-result]", aVals)
		}
		if _, err := b.Join(nil); err != nil {
			t.Errorf("b.Join() error = %v", err)
		}

		order = append(order, "main")
		return nil
	})

	want := []string{"a", "b", "a2", "main"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestScheduler_PriorityDominance(t *testing.T) {
	rt, err := NewRuntime()
	if err != nil {
		t.Fatalf("NewRuntime() error = %v", err)
	}

	var order []string
	rt.Run(func(main *Context) []any {
		low := rt.New(func(c *Context) []any {
			order = append(order, "low")
			return nil
		}, WithName("low"), WithPriority(PrioMin))
		high := rt.New(func(c *Context) []any {
			order = append(order, "high")
			return nil
		}, WithName("high"), WithPriority(PrioMax))

		// Ready low first to prove priority, not arrival order, wins.
		_ = low.Ready()
		_ = high.Ready()

		_, _ = low.Join(nil)
		_, _ = high.Join(nil)
		return nil
	})

	if len(order) != 2 || order[0] != "high" || order[1] != "low" {
		t.Fatalf("order = %v, want [high low]", order)
	}
}

func TestContext_SetPrio_RebucketsReadyContext(t *testing.T) {
	rt, err := NewRuntime()
	if err != nil {
		t.Fatalf("NewRuntime() error = %v", err)
	}

	var order []string
	rt.Run(func(main *Context) []any {
		low := rt.New(func(c *Context) []any {
			order = append(order, "low")
			return nil
		}, WithName("low"), WithPriority(PrioMin))

		_ = low.Ready()
		low.SetPrio(PrioMax)
		if got := low.Prio(); got != PrioMax {
			t.Errorf("Prio() after SetPrio = %d, want %d", got, PrioMax)
		}

		_, _ = low.Join(nil)
		return nil
	})

	if len(order) != 1 || order[0] != "low" {
		t.Fatalf("order = %v, want [low]", order)
	}
}

func TestRuntime_CedeNotSelf_SkipsLowerPriorityBucketsCorrectly(t *testing.T) {
	rt, err := NewRuntime()
	if err != nil {
		t.Fatalf("NewRuntime() error = %v", err)
	}

	var order []string
	rt.Run(func(main *Context) []any {
		other := rt.New(func(c *Context) []any {
			order = append(order, "other")
			return nil
		}, WithName("other"), WithPriority(PrioMin))
		_ = other.Ready()

		// main (PrioNormal, currently the sole top-bucket occupant once
		// readied) should still yield to "other" despite its lower
		// priority, since CedeNotSelf ignores relative priority.
		main.setStatus(StatusReady)
		rt.enqueue(main)
		next := rt.scanBucketsExcluding(main)
		if next != other {
			t.Fatalf("scanBucketsExcluding(main) = %v, want other", next)
		}
		// scanBucketsExcluding popped other; put it back so Join below can
		// schedule it, and take main back out of its bucket.
		rt.readyQueues[prioBucket(other.Prio())].pushBack(other)
		rt.readyQueues[prioBucket(main.Prio())].remove(main)
		rt.nready--
		main.setStatus(StatusRunning)

		_, _ = other.Join(nil)
		return nil
	})

	if len(order) != 1 || order[0] != "other" {
		t.Fatalf("order = %v, want [other]", order)
	}
}
