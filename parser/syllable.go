package parser

// startSyllable classifies the nine trigger syllables that begin an
// operation. Three of them are "open": they do not name an operation by
// themselves and must be closed by a later syllable that does.
type startSyllable int

const (
	startHyeo   startSyllable = iota // 혀 — open, closed by 엉
	startHa                          // 하 — open, closed by 앙 or 앗
	startHeu                         // 흐 — open, closed by 읏, 읍 or 윽
	startHyeong                      // 형 — push
	startHang                        // 항 — add
	startHat                         // 핫 — multiply
	startHeut                        // 흣 — negate
	startHeup                        // 흡 — reciprocate
	startHeuk                        // 흑 — duplicate
)

func startFromRune(c rune) (startSyllable, bool) {
	switch c {
	case '혀':
		return startHyeo, true
	case '하':
		return startHa, true
	case '흐':
		return startHeu, true
	case '형':
		return startHyeong, true
	case '항':
		return startHang, true
	case '핫':
		return startHat, true
	case '흣':
		return startHeut, true
	case '흡':
		return startHeup, true
	case '흑':
		return startHeuk, true
	}
	return 0, false
}

// selfEnding reports whether the syllable alone completes an operation.
func (s startSyllable) selfEnding() bool {
	return s >= startHyeong
}

// operation returns the operation named by a self-ending syllable.
func (s startSyllable) operation() OpType {
	switch s {
	case startHyeong:
		return OpPush
	case startHang:
		return OpAdd
	case startHat:
		return OpMultiply
	case startHeut:
		return OpNegate
	case startHeup:
		return OpReciprocate
	case startHeuk:
		return OpDuplicate
	}
	panic("parser: open syllable names no operation")
}

// closedBy reports whether c is a valid closing syllable for s.
func (s startSyllable) closedBy(c rune) bool {
	switch s {
	case startHyeo:
		return c == '엉'
	case startHa:
		return c == '앙' || c == '앗'
	case startHeu:
		return c == '읏' || c == '읍' || c == '윽'
	}
	return false
}

// closeOperation returns the operation named by a closing syllable.
func closeOperation(c rune) OpType {
	switch c {
	case '엉':
		return OpPush
	case '앙':
		return OpAdd
	case '앗':
		return OpMultiply
	case '읏':
		return OpNegate
	case '읍':
		return OpReciprocate
	case '윽':
		return OpDuplicate
	}
	panic("parser: not a closing syllable")
}

// isHangulSyllable reports whether c falls in the Unicode Hangul syllable
// block; every such character counts toward an open syllable's repeat count.
func isHangulSyllable(c rune) bool {
	return c >= '가' && c <= '힣'
}
