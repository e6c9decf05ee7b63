package coro

import "testing"

// TestHandle_Read_DrainsBufferedBytesFirst exercises Read's requirement to
// consume bytes already buffered by a prior ReadLine call before touching
// the fd again. Constructed as a bare Handle since this path never
// touches rt/bridge/fd.
func TestHandle_Read_DrainsBufferedBytesFirst(t *testing.T) {
	h := &Handle{readBuf: []byte("hello world"), partial: 5}

	buf := make([]byte, 5)
	n, err := h.Read(buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if n != 5 {
		t.Fatalf("Read() n = %d, want 5", n)
	}
	if string(buf[:n]) != "hello" {
		t.Fatalf("Read() = %q, want %q", buf[:n], "hello")
	}
	if string(h.readBuf) != " world" {
		t.Fatalf("readBuf = %q, want %q", h.readBuf, " world")
	}
	// partial pointed 5 bytes into the old buffer; after consuming exactly
	// those 5 bytes the scanned-so-far position shifts to the new start.
	if h.partial != 0 {
		t.Fatalf("partial = %d, want 0 (shifted back by the 5 bytes consumed)", h.partial)
	}
}

func TestHandle_Read_ClearsPartialWhenBufferFullyDrained(t *testing.T) {
	h := &Handle{readBuf: []byte("abc"), partial: 3}

	buf := make([]byte, 3)
	n, err := h.Read(buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if n != 3 || string(buf) != "abc" {
		t.Fatalf("Read() = (%d, %q), want (3, %q)", n, buf, "abc")
	}
	if len(h.readBuf) != 0 {
		t.Fatalf("readBuf = %q, want empty", h.readBuf)
	}
	if h.partial != 0 {
		t.Fatalf("partial = %d, want 0 once readBuf is fully drained", h.partial)
	}
}

func TestHandle_Read_ShiftsPartialByBytesConsumed(t *testing.T) {
	h := &Handle{readBuf: []byte("abcdefgh"), partial: 6}

	buf := make([]byte, 4)
	n, err := h.Read(buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if n != 4 || string(buf) != "abcd" {
		t.Fatalf("Read() = (%d, %q), want (4, %q)", n, buf, "abcd")
	}
	if string(h.readBuf) != "efgh" {
		t.Fatalf("readBuf = %q, want %q", h.readBuf, "efgh")
	}
	// partial was 6 (two bytes past the 4 just consumed); it must shift
	// down by 4 to stay pointed at the same logical position ("g").
	if h.partial != 2 {
		t.Fatalf("partial = %d, want 2", h.partial)
	}
}

func TestHandle_Read_PartialCopyLeavesRemainderBuffered(t *testing.T) {
	h := &Handle{readBuf: []byte("abcdef")}

	buf := make([]byte, 2)
	n, err := h.Read(buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if n != 2 || string(buf) != "ab" {
		t.Fatalf("Read() = (%d, %q), want (2, %q)", n, buf, "ab")
	}
	if string(h.readBuf) != "cdef" {
		t.Fatalf("readBuf = %q, want %q", h.readBuf, "cdef")
	}
}
