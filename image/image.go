// Package image serializes parsed programs to a compact binary format, so a
// program can be distributed and replayed without its source text. The
// container is canonical CBOR behind a fixed magic/version preamble.
package image

import (
	"bytes"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/hyeong-lang/hyeong/parser"
)

// Magic identifies a compiled program image.
var Magic = [4]byte{'H', 'Y', 'I', 'M'}

// Image format version
// v1: initial format
const Version uint32 = 1

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("image: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// heart node kinds on the wire.
const (
	nodeHeart uint8 = iota
	nodeReturn
	nodeEquals
	nodeLessThan
)

// wireNode is one heart tree node. A nil *wireNode is the Nil leaf; Left and
// Right are set only on comparison nodes, ID only on heart leaves.
type wireNode struct {
	Kind  uint8     `cbor:"k"`
	ID    int       `cbor:"id,omitempty"`
	Left  *wireNode `cbor:"l,omitempty"`
	Right *wireNode `cbor:"r,omitempty"`
}

// wireInstruction mirrors parser.Instruction field for field.
type wireInstruction struct {
	Op     uint8     `cbor:"op"`
	Count  int       `cbor:"n"`
	Dots   int       `cbor:"d"`
	Hearts *wireNode `cbor:"h,omitempty"`
}

type wireImage struct {
	Magic        [4]byte           `cbor:"magic"`
	Version      uint32            `cbor:"version"`
	Instructions []wireInstruction `cbor:"instructions"`
}

// Marshal encodes a parsed program as an image.
func Marshal(program []parser.Instruction) ([]byte, error) {
	img := wireImage{
		Magic:        Magic,
		Version:      Version,
		Instructions: make([]wireInstruction, len(program)),
	}
	for i, instr := range program {
		img.Instructions[i] = wireInstruction{
			Op:     uint8(instr.Op.Type),
			Count:  instr.Op.Count,
			Dots:   instr.Dots,
			Hearts: encodeTree(instr.Hearts),
		}
	}
	return cborEncMode.Marshal(&img)
}

// Unmarshal decodes and validates an image back into a program.
func Unmarshal(data []byte) ([]parser.Instruction, error) {
	var img wireImage
	if err := cbor.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("image: unmarshal: %w", err)
	}
	if !bytes.Equal(img.Magic[:], Magic[:]) {
		return nil, fmt.Errorf("image: bad magic %q", img.Magic)
	}
	if img.Version != Version {
		return nil, fmt.Errorf("image: unsupported version %d", img.Version)
	}

	program := make([]parser.Instruction, len(img.Instructions))
	for i, w := range img.Instructions {
		if w.Op > uint8(parser.OpDuplicate) {
			return nil, fmt.Errorf("image: instruction %d: unknown operation %d", i, w.Op)
		}
		if w.Count < 1 {
			return nil, fmt.Errorf("image: instruction %d: repeat count %d", i, w.Count)
		}
		if w.Dots < 0 {
			return nil, fmt.Errorf("image: instruction %d: negative magnitude %d", i, w.Dots)
		}
		tree, err := decodeTree(w.Hearts)
		if err != nil {
			return nil, fmt.Errorf("image: instruction %d: %w", i, err)
		}
		program[i] = parser.Instruction{
			Op:     parser.Operation{Type: parser.OpType(w.Op), Count: w.Count},
			Dots:   w.Dots,
			Hearts: tree,
		}
	}
	return program, nil
}

func encodeTree(tree parser.HeartTree) *wireNode {
	switch n := tree.(type) {
	case parser.Nil:
		return nil
	case parser.Heart:
		return &wireNode{Kind: nodeHeart, ID: n.ID}
	case parser.Return:
		return &wireNode{Kind: nodeReturn}
	case parser.Equals:
		return &wireNode{Kind: nodeEquals, Left: encodeTree(n.Left), Right: encodeTree(n.Right)}
	case parser.LessThan:
		return &wireNode{Kind: nodeLessThan, Left: encodeTree(n.Left), Right: encodeTree(n.Right)}
	}
	panic(fmt.Sprintf("image: unknown heart tree node %T", tree))
}

func decodeTree(n *wireNode) (parser.HeartTree, error) {
	if n == nil {
		return parser.Nil{}, nil
	}
	switch n.Kind {
	case nodeHeart:
		if n.ID < 0 || n.ID >= len(parser.HeartMarks) {
			return nil, fmt.Errorf("heart id %d out of range", n.ID)
		}
		return parser.Heart{ID: n.ID}, nil
	case nodeReturn:
		return parser.Return{}, nil
	case nodeEquals:
		left, err := decodeTree(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeTree(n.Right)
		if err != nil {
			return nil, err
		}
		return parser.Equals{Left: left, Right: right}, nil
	case nodeLessThan:
		left, err := decodeTree(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeTree(n.Right)
		if err != nil {
			return nil, err
		}
		return parser.LessThan{Left: left, Right: right}, nil
	}
	return nil, fmt.Errorf("unknown heart node kind %d", n.Kind)
}

// Source replays a decoded program as an instruction stream, satisfying the
// processor's instruction source.
type Source struct {
	program []parser.Instruction
	next    int
}

// NewSource returns a replay source over program.
func NewSource(program []parser.Instruction) *Source {
	return &Source{program: program}
}

// Next yields the next instruction, or false once the program is replayed.
func (s *Source) Next() (parser.Instruction, bool) {
	if s.next >= len(s.program) {
		return parser.Instruction{}, false
	}
	instr := s.program[s.next]
	s.next++
	return instr, true
}
