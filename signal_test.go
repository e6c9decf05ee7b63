package coro

import "testing"

func TestSignal_SendWakesBlockedWaiter(t *testing.T) {
	rt, err := NewRuntime()
	if err != nil {
		t.Fatalf("NewRuntime() error = %v", err)
	}

	var order []string
	rt.Run(func(main *Context) []any {
		sig := NewSignal(rt)

		waiter := rt.New(func(c *Context) []any {
			sig.Wait()
			order = append(order, "woken")
			return nil
		}, WithName("waiter"))
		_ = waiter.Ready()
		rt.Cede() // let waiter park in sig.Wait()

		if n := sig.NWaiting(); n != 1 {
			t.Errorf("NWaiting() = %d, want 1", n)
		}
		sig.Send()

		_, _ = waiter.Join(nil)
		return nil
	})

	if len(order) != 1 || order[0] != "woken" {
		t.Fatalf("order = %v, want [woken]", order)
	}
}

func TestSignal_SendLatchesPendingForFutureWait(t *testing.T) {
	rt, err := NewRuntime()
	if err != nil {
		t.Fatalf("NewRuntime() error = %v", err)
	}

	rt.Run(func(main *Context) []any {
		sig := NewSignal(rt)
		sig.Send() // nobody waiting yet: latches pending

		// Wait must consume the latch immediately rather than block,
		// since nothing will ever call Send again in this test.
		sig.Wait()
		return nil
	})
}

func TestSignal_BroadcastWakesAllAndDoesNotLatch(t *testing.T) {
	rt, err := NewRuntime()
	if err != nil {
		t.Fatalf("NewRuntime() error = %v", err)
	}

	var woken int
	rt.Run(func(main *Context) []any {
		sig := NewSignal(rt)

		a := rt.New(func(c *Context) []any { sig.Wait(); woken++; return nil }, WithName("a"))
		b := rt.New(func(c *Context) []any { sig.Wait(); woken++; return nil }, WithName("b"))
		_ = a.Ready()
		_ = b.Ready()
		rt.Cede()
		rt.Cede() // let both a and b park in sig.Wait()

		if n := sig.Broadcast(); n != 2 {
			t.Errorf("Broadcast() = %d, want 2", n)
		}

		_, _ = a.Join(nil)
		_, _ = b.Join(nil)
		return nil
	})

	if woken != 2 {
		t.Fatalf("woken = %d, want 2", woken)
	}
}
