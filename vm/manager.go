package vm

import (
	"errors"
	"io"

	"github.com/hyeong-lang/hyeong/parser"
	"github.com/hyeong-lang/hyeong/rational"
)

// Stack ids 0, 1 and 2 are bound to the three standard streams; execution
// starts with stack 3 selected.
const (
	stdinStack   = 0
	stdoutStack  = 1
	stderrStack  = 2
	defaultStack = 3
)

// StackManager owns the numbered stacks, the selection cursor and the exit
// latch. Stacks other than the stream-backed three are created on first use.
type StackManager struct {
	stdin  *readStack
	stdout *writeStack
	stderr *writeStack
	stacks map[int]*valueStack

	selected int
	exitCode int
	exited   bool
}

// NewStackManager wires the three streams and selects stack 3.
func NewStackManager(in io.Reader, out, errOut io.Writer) *StackManager {
	return &StackManager{
		stdin:    newReadStack(in),
		stdout:   newWriteStack(out),
		stderr:   newWriteStack(errOut),
		stacks:   map[int]*valueStack{defaultStack: {}},
		selected: defaultStack,
	}
}

// ExitCode reports the latched exit code, if any.
func (m *StackManager) ExitCode() (int, bool) {
	return m.exitCode, m.exited
}

// Selected returns the id of the currently selected stack.
func (m *StackManager) Selected() int {
	return m.selected
}

func (m *StackManager) stack(id int) Stack {
	switch id {
	case stdinStack:
		return m.stdin
	case stdoutStack:
		return m.stdout
	case stderrStack:
		return m.stderr
	}
	s, ok := m.stacks[id]
	if !ok {
		s = &valueStack{}
		m.stacks[id] = s
	}
	return s
}

// halt latches an exit code. The first latch wins.
func (m *StackManager) halt(code int) {
	if !m.exited {
		m.exited = true
		m.exitCode = code
	}
}

// checkExit latches termination when one of the output stacks is selected:
// stack 1 exits with code 0, stack 2 with code 1. Reports whether the
// current operation must be abandoned.
func (m *StackManager) checkExit() bool {
	switch m.selected {
	case stdoutStack:
		m.halt(0)
		return true
	case stderrStack:
		m.halt(1)
		return true
	}
	return false
}

// Push pushes count×dots onto the selected stack.
func (m *StackManager) Push(count, dots int) {
	m.stack(m.selected).Push(rational.FromInt(int64(count) * int64(dots)))
}

// Add pops count values off the selected stack and pushes their sum onto
// stack to. The selection does not move.
func (m *StackManager) Add(count, to int) {
	if m.checkExit() {
		return
	}
	sum := rational.FromInt(0)
	from := m.stack(m.selected)
	for i := 0; i < count; i++ {
		sum = sum.Add(from.Pop())
	}
	m.stack(to).Push(sum)
}

// Multiply pops count values off the selected stack and pushes their product
// onto stack to. The selection does not move.
func (m *StackManager) Multiply(count, to int) {
	if m.checkExit() {
		return
	}
	product := rational.FromInt(1)
	from := m.stack(m.selected)
	for i := 0; i < count; i++ {
		product = product.Mul(from.Pop())
	}
	m.stack(to).Push(product)
}

// Negate pops count values off the selected stack, pushes their negations
// back in the original order, and pushes the negated sum onto stack to.
func (m *StackManager) Negate(count, to int) {
	if m.checkExit() {
		return
	}
	m.transform(count, to, rational.Rational.Neg, rational.FromInt(0), rational.Rational.Add)
}

// Reciprocate pops count values off the selected stack, pushes their
// reciprocals back in the original order, and pushes the product of the
// reciprocals onto stack to.
func (m *StackManager) Reciprocate(count, to int) {
	if m.checkExit() {
		return
	}
	m.transform(count, to, rational.Rational.Recip, rational.FromInt(1), rational.Rational.Mul)
}

func (m *StackManager) transform(count, to int, apply func(rational.Rational) rational.Rational, acc rational.Rational, fold func(rational.Rational, rational.Rational) rational.Rational) {
	from := m.stack(m.selected)
	popped := make([]rational.Rational, count)
	for i := range popped {
		popped[i] = apply(from.Pop())
	}
	// Pops come off newest-first; pushing the slice back-to-front restores
	// the original stack order.
	for i := len(popped) - 1; i >= 0; i-- {
		from.Push(popped[i])
		acc = fold(acc, popped[i])
	}
	m.stack(to).Push(acc)
}

// Duplicate pops the top of the selected stack and pushes it straight back
// (a peek; on stack 0 this may read one character, which stays buffered),
// then selects stack to and pushes count copies of the value onto it. This
// is the only operation that moves the selection, and unlike the arithmetic
// operations it never terminates the program: duplicating onto an output
// stack is how programs print.
func (m *StackManager) Duplicate(count, to int) {
	from := m.stack(m.selected)
	v := from.Pop()
	from.Push(v)
	m.selected = to
	target := m.stack(to)
	for i := 0; i < count; i++ {
		target.Push(v)
	}
}

// HeartResultKind classifies the outcome of a branch evaluation.
type HeartResultKind int

const (
	// HeartNil means fall through to the next instruction.
	HeartNil HeartResultKind = iota
	// HeartJump means jump to (or bind) the label identified by ID.
	HeartJump
	// HeartReturn means jump back to the most recent jump origin.
	HeartReturn
)

// HeartResult is the outcome of evaluating an instruction's heart tree.
type HeartResult struct {
	Kind HeartResultKind
	ID   int
}

// ProcessHearts walks tree, popping one value off the selected stack per
// comparison node and descending left or right against target.
func (m *StackManager) ProcessHearts(tree parser.HeartTree, target int) HeartResult {
	switch n := tree.(type) {
	case parser.Nil:
		return HeartResult{Kind: HeartNil}
	case parser.Heart:
		return HeartResult{Kind: HeartJump, ID: n.ID}
	case parser.Return:
		return HeartResult{Kind: HeartReturn}
	case parser.Equals:
		v := m.stack(m.selected).Pop()
		if v.Equal(rational.FromInt(int64(target))) {
			return m.ProcessHearts(n.Left, target)
		}
		return m.ProcessHearts(n.Right, target)
	case parser.LessThan:
		v := m.stack(m.selected).Pop()
		if v.Less(rational.FromInt(int64(target))) {
			return m.ProcessHearts(n.Left, target)
		}
		return m.ProcessHearts(n.Right, target)
	}
	panic("vm: unknown heart tree node")
}

// Flush drains the buffered output streams, stdout first.
func (m *StackManager) Flush() error {
	return errors.Join(m.stdout.Flush(), m.stderr.Flush())
}
