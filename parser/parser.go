// Package parser turns hyeong source text into a lazy instruction stream.
//
// Source text is scanned for the nine trigger syllables. Self-ending
// syllables are complete operations on their own; open syllables are
// resolved by scanning ahead for a matching closing syllable, counting every
// Hangul syllable passed over (the closer included) as the operation's
// repeat count. Everything between the end of one operation and the start of
// the next is classified into punctuation tokens — dots for the magnitude,
// hearts and !/? for the branch expression — and all other characters are
// inert filler.
package parser

// Parser produces instructions from source text one at a time.
//
// The parser looks one operation ahead: resolving the current instruction's
// token run requires scanning up to the start of the next operation, so the
// next operation is cached while the current instruction is assembled.
type Parser struct {
	code   []rune
	pos    int
	opNext Operation
	hasOp  bool
	tokens []token
}

// New returns a parser over source, primed with the first operation.
func New(source string) *Parser {
	p := &Parser{code: []rune(source)}
	p.opNext, p.hasOp = p.parseHangul()
	return p
}

// Parse consumes source to completion and returns all instructions.
func Parse(source string) []Instruction {
	p := New(source)
	var program []Instruction
	for {
		instr, ok := p.Next()
		if !ok {
			return program
		}
		program = append(program, instr)
	}
}

// Next returns the next instruction, or false when the source is exhausted.
func (p *Parser) Next() (Instruction, bool) {
	if !p.hasOp {
		return Instruction{}, false
	}
	op := p.opNext
	// Advancing to the next operation fills p.tokens with the punctuation
	// run that belongs to the instruction being returned now.
	p.opNext, p.hasOp = p.parseHangul()
	return Instruction{
		Op:     op,
		Dots:   leadingDots(p.tokens),
		Hearts: buildHeartTree(p.tokens),
	}, true
}

// parseHangul scans forward to the next complete operation, collecting
// punctuation tokens along the way. An open syllable whose closing syllable
// never appears yields nothing; scanning simply resumes at the next trigger
// syllable, and if none resolves the stream is over.
func (p *Parser) parseHangul() (Operation, bool) {
	p.tokens = p.tokens[:0]
	for {
		var start startSyllable
		found := false
		for p.pos < len(p.code) {
			c := p.code[p.pos]
			p.pos++
			if s, ok := startFromRune(c); ok {
				start, found = s, true
				break
			}
			if t, ok := tokenFromRune(c); ok {
				p.tokens = append(p.tokens, t)
			}
		}
		if !found {
			return Operation{}, false
		}
		if start.selfEnding() {
			return Operation{Type: start.operation(), Count: 1}, true
		}
		if count, end, ok := p.findMatchingEnd(start); ok {
			return Operation{Type: closeOperation(end), Count: count + 1}, true
		}
	}
}

// findMatchingEnd scans ahead for the first closing syllable valid for
// start, counting Hangul syllables passed over (the closer included). The
// cursor only advances when a closer is found; on failure the scan is
// abandoned and the cursor stays put, so the outer loop re-reads the same
// characters looking for the next trigger.
func (p *Parser) findMatchingEnd(start startSyllable) (count int, end rune, ok bool) {
	for i := p.pos; i < len(p.code); i++ {
		c := p.code[i]
		if isHangulSyllable(c) {
			count++
		}
		if start.closedBy(c) {
			p.pos = i + 1
			return count, c, true
		}
	}
	return 0, 0, false
}

// leadingDots sums the maximal prefix of dot/ellipsis tokens: the
// instruction's magnitude. Dots after any other token do not count.
func leadingDots(tokens []token) int {
	dots := 0
	for _, t := range tokens {
		switch t.kind {
		case tokenDot:
			dots++
		case tokenThreeDots:
			dots += 3
		default:
			return dots
		}
	}
	return dots
}

// buildHeartTree reduces the full token run (dots skipped) into the
// instruction's branch expression.
//
// A pending-leaf slot holds the first heart or return glyph seen since the
// last !/? (first wins; later glyphs are ignored). `!` flushes the pending
// leaf (Nil if empty) onto the output stack and requests one equals-fold;
// `?` flushes the pending leaf and then performs every outstanding
// equals-fold. Whatever nodes remain at the end are folded right-to-left
// into nested LessThan comparisons.
func buildHeartTree(tokens []token) HeartTree {
	var pending HeartTree
	var stack []HeartTree
	equalsPending := 0

	take := func() HeartTree {
		if pending == nil {
			return Nil{}
		}
		leaf := pending
		pending = nil
		return leaf
	}
	foldEquals := func() {
		for ; equalsPending > 0; equalsPending-- {
			right := stack[len(stack)-1]
			left := stack[len(stack)-2]
			stack = append(stack[:len(stack)-2], Equals{Left: left, Right: right})
		}
	}

	for _, t := range tokens {
		switch t.kind {
		case tokenDot, tokenThreeDots:
			// Counted by leadingDots; transparent to the heart grammar.
		case tokenHeart:
			if pending == nil {
				pending = Heart{ID: t.heart}
			}
		case tokenReturnHeart:
			if pending == nil {
				pending = Return{}
			}
		case tokenBang:
			stack = append(stack, take())
			equalsPending++
		case tokenQuestion:
			stack = append(stack, take())
			foldEquals()
		}
	}
	stack = append(stack, take())
	foldEquals()

	for len(stack) > 1 {
		right := stack[len(stack)-1]
		left := stack[len(stack)-2]
		stack = append(stack[:len(stack)-2], LessThan{Left: left, Right: right})
	}
	return stack[0]
}
