package parser

// GlyphClass classifies a single character of source text for editor
// tooling; the parser itself never needs this view.
type GlyphClass int

const (
	GlyphNone GlyphClass = iota
	GlyphSelfEnding
	GlyphOpen
	GlyphClosing
	GlyphDot
	GlyphThreeDots
	GlyphHeart
	GlyphReturnHeart
	GlyphBang
	GlyphQuestion
)

// GlyphInfo describes one character of source text. Op is set for
// self-ending and closing syllables, HeartID for heart glyphs.
type GlyphInfo struct {
	Class   GlyphClass
	Op      OpType
	HeartID int
}

// ClassifyGlyph describes the role a single character plays in source text.
func ClassifyGlyph(c rune) GlyphInfo {
	if s, ok := startFromRune(c); ok {
		if s.selfEnding() {
			return GlyphInfo{Class: GlyphSelfEnding, Op: s.operation()}
		}
		return GlyphInfo{Class: GlyphOpen}
	}
	switch c {
	case '엉', '앙', '앗', '읏', '읍', '윽':
		return GlyphInfo{Class: GlyphClosing, Op: closeOperation(c)}
	}
	t, ok := tokenFromRune(c)
	if !ok {
		return GlyphInfo{Class: GlyphNone}
	}
	switch t.kind {
	case tokenDot:
		return GlyphInfo{Class: GlyphDot}
	case tokenThreeDots:
		return GlyphInfo{Class: GlyphThreeDots}
	case tokenHeart:
		return GlyphInfo{Class: GlyphHeart, HeartID: t.heart}
	case tokenReturnHeart:
		return GlyphInfo{Class: GlyphReturnHeart}
	case tokenBang:
		return GlyphInfo{Class: GlyphBang}
	}
	return GlyphInfo{Class: GlyphQuestion}
}

// UnclosedOpens returns the rune offsets of open trigger syllables whose
// closing syllable never appears. The parser silently skips such syllables,
// so they are prime diagnostics material for editors: the operation the
// author presumably meant is never executed.
func UnclosedOpens(source string) []int {
	code := []rune(source)
	var dead []int
	pos := 0
	for pos < len(code) {
		at := pos
		c := code[pos]
		pos++
		s, ok := startFromRune(c)
		if !ok || s.selfEnding() {
			continue
		}
		closed := false
		for i := pos; i < len(code); i++ {
			if s.closedBy(code[i]) {
				pos = i + 1
				closed = true
				break
			}
		}
		if !closed {
			dead = append(dead, at)
		}
	}
	return dead
}
