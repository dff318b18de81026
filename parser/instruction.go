package parser

import "fmt"

// OpType identifies one of the six stack operations.
type OpType int

const (
	OpPush        OpType = iota // 형
	OpAdd                       // 항
	OpMultiply                  // 핫
	OpNegate                    // 흣
	OpReciprocate               // 흡
	OpDuplicate                 // 흑
)

func (t OpType) String() string {
	switch t {
	case OpPush:
		return "Push"
	case OpAdd:
		return "Add"
	case OpMultiply:
		return "Multiply"
	case OpNegate:
		return "Negate"
	case OpReciprocate:
		return "Reciprocate"
	case OpDuplicate:
		return "Duplicate"
	}
	return fmt.Sprintf("OpType(%d)", int(t))
}

// Operation is an operation type together with its repeat count: 1 for a
// self-ending syllable, or the number of Hangul syllables scanned (closing
// syllable included) for an open one.
type Operation struct {
	Type  OpType
	Count int
}

// Instruction is one parsed instruction. Immutable once produced.
type Instruction struct {
	Op     Operation
	Dots   int       // magnitude from the leading dot/ellipsis run
	Hearts HeartTree // never nil; Nil{} when no heart tokens were present
}

// Weight is the value the heart tree is evaluated against and the numeric
// half of a jump label: repeat count × magnitude.
func (i Instruction) Weight() int {
	return i.Op.Count * i.Dots
}

func (i Instruction) String() string {
	if (i.Hearts == Nil{}) {
		return fmt.Sprintf("%s count=%d dots=%d", i.Op.Type, i.Op.Count, i.Dots)
	}
	return fmt.Sprintf("%s count=%d dots=%d hearts=%v", i.Op.Type, i.Op.Count, i.Dots, i.Hearts)
}

// HeartTree is the per-instruction branch expression: a binary tree of
// Equals/LessThan comparisons over Heart, Return and Nil leaves.
type HeartTree interface {
	heartNode()
}

// Heart is a leaf naming one of the recognized heart glyphs by id.
type Heart struct {
	ID int
}

// Return is the leaf produced by the return-heart glyph.
type Return struct{}

// Nil is the leaf produced by the absence of any heart glyph.
type Nil struct{}

// Equals compares the popped value for equality and descends left on a
// match, right otherwise.
type Equals struct {
	Left, Right HeartTree
}

// LessThan compares the popped value for strict order and descends left
// when it is less, right otherwise.
type LessThan struct {
	Left, Right HeartTree
}

func (Heart) heartNode()    {}
func (Return) heartNode()   {}
func (Nil) heartNode()      {}
func (Equals) heartNode()   {}
func (LessThan) heartNode() {}

func (h Heart) String() string    { return fmt.Sprintf("Heart(%d)", h.ID) }
func (Return) String() string     { return "Return" }
func (Nil) String() string        { return "Nil" }
func (e Equals) String() string   { return fmt.Sprintf("Equals(%v, %v)", e.Left, e.Right) }
func (l LessThan) String() string { return fmt.Sprintf("LessThan(%v, %v)", l.Left, l.Right) }
