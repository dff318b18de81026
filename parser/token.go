package parser

// HeartMarks is the fixed table of recognized heart glyphs. A glyph's index
// in this table is its heart id; the ids are what label lookups and branch
// results are keyed on, so the order is part of the language.
var HeartMarks = [...]rune{
	'♥',
	'❤',
	'💕',
	'💖',
	'💗',
	'💘',
	'💙',
	'💚',
	'💛',
	'💜',
	'💝',
}

// ReturnHeart is the white heart suit ♡, the distinct "return" glyph.
const ReturnHeart = '♡'

type tokenKind int

const (
	tokenDot tokenKind = iota
	tokenThreeDots
	tokenHeart
	tokenReturnHeart
	tokenBang
	tokenQuestion
)

// token is one punctuation character between operations. heart is only
// meaningful for tokenHeart.
type token struct {
	kind  tokenKind
	heart int
}

// tokenFromRune classifies a character between operations. Characters that
// are not tokens (and not trigger syllables) are inert filler.
func tokenFromRune(c rune) (token, bool) {
	switch c {
	case '.':
		return token{kind: tokenDot}, true
	case '…', '⋮', '⋯': // …, ⋮, ⋯ — the ellipsis family
		return token{kind: tokenThreeDots}, true
	case ReturnHeart:
		return token{kind: tokenReturnHeart}, true
	case '!':
		return token{kind: tokenBang}, true
	case '?':
		return token{kind: tokenQuestion}, true
	}
	for i, h := range HeartMarks {
		if h == c {
			return token{kind: tokenHeart, heart: i}, true
		}
	}
	return token{}, false
}
