package vm

import (
	"strings"
	"testing"

	"github.com/hyeong-lang/hyeong/rational"
)

func TestReadStackPop(t *testing.T) {
	stack := newReadStack(strings.NewReader("하앗...💕"))

	assertPop := func(want rational.Rational) {
		t.Helper()
		got := stack.Pop()
		if want.IsNaN() {
			if !got.IsNaN() {
				t.Fatalf("Pop() = %v, want NaN", got)
			}
			return
		}
		if !got.Equal(want) {
			t.Fatalf("Pop() = %v, want %v", got, want)
		}
	}

	assertPop(rational.FromInt(int64('하')))
	assertPop(rational.FromInt(int64('앗')))
	assertPop(rational.FromInt(int64('.')))
	stack.Push(rational.FromInt(14))
	assertPop(rational.FromInt(14))
	assertPop(rational.FromInt(int64('.')))
	assertPop(rational.FromInt(int64('.')))
	assertPop(rational.FromInt(int64('💕')))
	assertPop(rational.NaN())
	// EOF keeps yielding NaN.
	assertPop(rational.NaN())
}

func TestReadStackRecoversAfterBadByte(t *testing.T) {
	stack := newReadStack(strings.NewReader("\xffA"))

	if v := stack.Pop(); !v.IsNaN() {
		t.Fatalf("Pop() on malformed byte = %v, want NaN", v)
	}
	// Only the bad byte is consumed; the next pop decodes the stream again.
	if v := stack.Pop(); !v.Equal(rational.FromInt('A')) {
		t.Fatalf("Pop() after malformed byte = %v, want 'A' (65)", v)
	}
	if v := stack.Pop(); !v.IsNaN() {
		t.Fatalf("Pop() at EOF = %v, want NaN", v)
	}
}

func TestReadStackBadContinuationConsumesBytes(t *testing.T) {
	// 0xC3 announces a two-byte sequence; 'A' is not a continuation byte.
	// Both bytes are gone after the failed decode, 'B' decodes next.
	stack := newReadStack(strings.NewReader("\xc3AB"))

	if v := stack.Pop(); !v.IsNaN() {
		t.Fatalf("Pop() on truncated sequence = %v, want NaN", v)
	}
	if v := stack.Pop(); !v.Equal(rational.FromInt('B')) {
		t.Fatalf("Pop() after truncated sequence = %v, want 'B'", v)
	}
}

func TestWriteStackPush(t *testing.T) {
	var buf strings.Builder
	stack := newWriteStack(&buf)

	stack.Push(rational.FromInt(int64('흑')))
	stack.Push(rational.FromInt(int64('.')))
	stack.Push(rational.FromInt(int64('.')))
	stack.Push(rational.FromInt(int64('!')))
	stack.Push(rational.FromInt(-32))
	stack.Push(rational.NaN())
	stack.Push(rational.New(65*3+2, 3))
	stack.Push(rational.New(-11, 7))
	if err := stack.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	want := "흑..!32너무 커엇...A2"
	if got := buf.String(); got != want {
		t.Errorf("rendered %q, want %q", got, want)
	}
}

func TestWriteStackPopIsNaN(t *testing.T) {
	var buf strings.Builder
	stack := newWriteStack(&buf)
	if v := stack.Pop(); !v.IsNaN() {
		t.Errorf("Pop() = %v, want NaN", v)
	}
	stack.Flush()
	if buf.Len() != 0 {
		t.Errorf("Pop wrote %q, want nothing", buf.String())
	}
}

func TestValueStackPopEmpty(t *testing.T) {
	var s valueStack
	if v := s.Pop(); !v.IsNaN() {
		t.Errorf("Pop() = %v, want NaN", v)
	}
	s.Push(rational.FromInt(7))
	if v := s.Pop(); !v.Equal(rational.FromInt(7)) {
		t.Errorf("Pop() = %v, want 7", v)
	}
	if v := s.Pop(); !v.IsNaN() {
		t.Errorf("Pop() after drain = %v, want NaN", v)
	}
}
