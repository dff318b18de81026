package vm

import (
	"bufio"
	"io"

	"github.com/hyeong-lang/hyeong/rational"
)

// Stack is one numbered value stack. The three stream-backed stacks and the
// plain in-memory stacks share this surface; a failed pop never errors, it
// yields NaN.
type Stack interface {
	Push(v rational.Rational)
	Pop() rational.Rational
}

// valueStack is a plain in-memory stack. Popping when empty yields NaN.
type valueStack struct {
	values []rational.Rational
}

func (s *valueStack) Push(v rational.Rational) {
	s.values = append(s.values, v)
}

func (s *valueStack) Pop() rational.Rational {
	if len(s.values) == 0 {
		return rational.NaN()
	}
	v := s.values[len(s.values)-1]
	s.values = s.values[:len(s.values)-1]
	return v
}

// readStack backs stack 0 with an input stream. Pushed values shadow the
// stream: they are popped before any further input is read. Each read
// decodes one Unicode scalar; EOF or a malformed sequence yields NaN for
// that pop only, and the next pop reads the stream again. The bytes a
// failed decode consumed stay consumed.
type readStack struct {
	in       io.Reader
	buffered valueStack
}

func newReadStack(in io.Reader) *readStack {
	return &readStack{in: bufio.NewReader(in)}
}

func (s *readStack) Push(v rational.Rational) {
	s.buffered.Push(v)
}

func (s *readStack) Pop() rational.Rational {
	if len(s.buffered.values) > 0 {
		return s.buffered.Pop()
	}
	c, err := ReadScalar(s.in)
	if err != nil {
		return rational.NaN()
	}
	return rational.FromInt(int64(c))
}

// writeStack backs stacks 1 and 2 with an output stream. Pushing renders the
// value and writes it; popping yields NaN. Writes are buffered, so a write
// error surfaces at flush time.
type writeStack struct {
	w *bufio.Writer
}

func newWriteStack(w io.Writer) *writeStack {
	return &writeStack{w: bufio.NewWriter(w)}
}

func (s *writeStack) Push(v rational.Rational) {
	s.w.WriteString(v.String())
}

func (s *writeStack) Pop() rational.Rational {
	return rational.NaN()
}

func (s *writeStack) Flush() error {
	return s.w.Flush()
}
