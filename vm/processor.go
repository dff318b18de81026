package vm

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyeong-lang/hyeong/parser"
)

// InstructionSource yields instructions one at a time: a live parse or an
// image replay.
type InstructionSource interface {
	Next() (parser.Instruction, bool)
}

// labelKey identifies a jump label: the instruction's weight (count×dots)
// paired with the heart glyph id.
type labelKey struct {
	weight int
	heart  int
}

// Processor drives a StackManager over an instruction source. Instructions
// are materialized lazily and kept, so jumping backward replays them without
// re-parsing; once the source is exhausted the program becomes a loop and
// the cursor wraps to the start.
type Processor struct {
	source       InstructionSource
	stacks       *StackManager
	instructions []parser.Instruction
	position     int
	labels       map[labelKey]int
	lastJump     int  // origin of the most recent taken jump
	hasJump      bool // whether any jump has been taken yet
	jumped       bool
}

// NewProcessor returns a processor executing source against stacks.
func NewProcessor(source InstructionSource, stacks *StackManager) *Processor {
	return &Processor{
		source: source,
		stacks: stacks,
		labels: make(map[labelKey]int),
	}
}

// Run steps the processor until the program latches an exit code or ctx is
// done, then flushes the output streams. The exit code is returned even when
// flushing fails.
func (p *Processor) Run(ctx context.Context) (int, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, errors.Join(err, p.stacks.Flush())
		}
		if code, done := p.Step(); done {
			if err := p.stacks.Flush(); err != nil {
				return code, fmt.Errorf("vm: flush: %w", err)
			}
			return code, nil
		}
	}
}

// Step executes one instruction. It reports done with the latched exit code
// once the program has terminated; an empty program terminates immediately
// with code 0.
func (p *Processor) Step() (int, bool) {
	if code, ok := p.stacks.ExitCode(); ok {
		return code, true
	}

	instr, ok := p.fetch()
	if !ok {
		// Nothing was ever parsed: the empty program.
		p.stacks.halt(0)
		return 0, true
	}

	p.execute(instr)

	if code, ok := p.stacks.ExitCode(); ok {
		return code, true
	}
	if !p.jumped {
		p.position++
	}
	p.jumped = false
	return 0, false
}

// fetch returns the instruction at the cursor, materializing from the source
// as needed. When the source is exhausted the cursor wraps to the start.
func (p *Processor) fetch() (parser.Instruction, bool) {
	for p.position >= len(p.instructions) {
		instr, ok := p.source.Next()
		if !ok {
			if len(p.instructions) == 0 {
				return parser.Instruction{}, false
			}
			p.position = 0
			break
		}
		p.instructions = append(p.instructions, instr)
	}
	return p.instructions[p.position], true
}

func (p *Processor) execute(instr parser.Instruction) {
	count, dots := instr.Op.Count, instr.Dots
	switch instr.Op.Type {
	case parser.OpPush:
		p.stacks.Push(count, dots)
	case parser.OpAdd:
		p.stacks.Add(count, dots)
	case parser.OpMultiply:
		p.stacks.Multiply(count, dots)
	case parser.OpNegate:
		p.stacks.Negate(count, dots)
	case parser.OpReciprocate:
		p.stacks.Reciprocate(count, dots)
	case parser.OpDuplicate:
		p.stacks.Duplicate(count, dots)
	default:
		panic(fmt.Sprintf("vm: unknown operation %v", instr.Op.Type))
	}
	if _, exited := p.stacks.ExitCode(); exited {
		return
	}

	switch res := p.stacks.ProcessHearts(instr.Hearts, instr.Weight()); res.Kind {
	case HeartJump:
		key := labelKey{weight: instr.Weight(), heart: res.ID}
		target, bound := p.labels[key]
		if !bound {
			// First encounter binds the label to this instruction.
			p.labels[key] = p.position
			target = p.position
		}
		if target != p.position {
			p.lastJump = p.position
			p.hasJump = true
			p.position = target
			p.jumped = true
		}
	case HeartReturn:
		// A single slot, not a stack: returning twice in a row goes to the
		// same origin. Before any jump, a return falls through.
		if p.hasJump {
			p.position = p.lastJump
			p.jumped = true
		}
	}
}
