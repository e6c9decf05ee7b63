package coro

import "testing"

func TestChannel_BoundedPutBlocksUntilGet(t *testing.T) {
	rt, err := NewRuntime()
	if err != nil {
		t.Fatalf("NewRuntime() error = %v", err)
	}

	var order []string
	rt.Run(func(main *Context) []any {
		ch := NewChannel[int](rt, 1)

		producer := rt.New(func(c *Context) []any {
			_ = ch.Put(1)
			order = append(order, "put1")
			_ = ch.Put(2) // buffer full after put1 until a Get drains it
			order = append(order, "put2")
			return nil
		}, WithName("producer"))

		_ = producer.Ready()
		rt.Cede() // let producer run until it blocks on the second Put

		v, err := ch.Get()
		if err != nil {
			t.Errorf("Get() error = %v", err)
		}
		if v != 1 {
			t.Errorf("Get() = %d, want 1", v)
		}
		order = append(order, "get1")

		_, _ = producer.Join(nil)

		v2, err := ch.Get()
		if err != nil {
			t.Errorf("Get() error = %v", err)
		}
		if v2 != 2 {
			t.Errorf("Get() = %d, want 2", v2)
		}
		return nil
	})

	want := []string{"put1", "get1", "put2"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

// TestChannel_ZeroCapacityRendezvousPutFirst reproduces the deadlock
// described against the pre-fix Get: on a zero-capacity channel, a Put
// that arrives and parks in putWaiters before any Get call must still be
// satisfied directly by the next Get, rather than both sides parking
// forever waiting for the other to run first.
func TestChannel_ZeroCapacityRendezvousPutFirst(t *testing.T) {
	rt, err := NewRuntime()
	if err != nil {
		t.Fatalf("NewRuntime() error = %v", err)
	}

	var order []string
	rt.Run(func(main *Context) []any {
		ch := NewChannel[int](rt, 0)

		producer := rt.New(func(c *Context) []any {
			if err := ch.Put(42); err != nil {
				t.Errorf("Put() error = %v", err)
			}
			order = append(order, "put-returned")
			return nil
		}, WithName("producer"))

		_ = producer.Ready()
		rt.Cede() // let producer park in putWaiters with an empty buffer

		if ch.Len() != 0 {
			t.Fatalf("Len() = %d, want 0 (zero-capacity: value must not be buffered)", ch.Len())
		}

		v, err := ch.Get()
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if v != 42 {
			t.Fatalf("Get() = %d, want 42", v)
		}
		order = append(order, "got")

		_, _ = producer.Join(nil)
		return nil
	})

	want := []string{"got", "put-returned"}
	if len(order) != len(want) || order[0] != want[0] || order[1] != want[1] {
		t.Fatalf("order = %v, want %v", order, want)
	}
}

func TestChannel_CloseWakesBlockedGet(t *testing.T) {
	rt, err := NewRuntime()
	if err != nil {
		t.Fatalf("NewRuntime() error = %v", err)
	}

	rt.Run(func(main *Context) []any {
		ch := NewChannel[int](rt, 0)

		closer := rt.New(func(c *Context) []any {
			ch.Close()
			return nil
		}, WithName("closer"))
		_ = closer.Ready()

		_, err := ch.Get()
		if err != ErrClosed {
			t.Errorf("Get() error = %v, want ErrClosed", err)
		}
		return nil
	})
}
