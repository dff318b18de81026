package server

import (
	"fmt"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/hyeong-lang/hyeong/parser"
)

// positionAt converts a rune offset into an LSP position. LSP columns count
// UTF-16 code units, so astral characters (the emoji hearts) are two wide.
func positionAt(text string, offset int) protocol.Position {
	line, col := 0, 0
	for i, c := range []rune(text) {
		if i == offset {
			break
		}
		if c == '\n' {
			line++
			col = 0
			continue
		}
		col += utf16Width(c)
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col)}
}

// runeAt returns the rune at an LSP position, or 0 when the position is past
// the end of its line.
func runeAt(text string, pos protocol.Position) rune {
	lines := strings.Split(text, "\n")
	if int(pos.Line) >= len(lines) {
		return 0
	}
	col := 0
	for _, c := range lines[pos.Line] {
		if col >= int(pos.Character) {
			return c
		}
		col += utf16Width(c)
	}
	return 0
}

func utf16Width(c rune) int {
	if c > 0xffff {
		return 2
	}
	return 1
}

// diagnose analyzes a document and reports everything worth underlining:
// open syllables that are never closed (the operation silently never runs)
// and documents that parse to no instructions at all.
func diagnose(text string) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic
	source := lspName
	runes := []rune(text)

	for _, offset := range parser.UnclosedOpens(text) {
		severity := protocol.DiagnosticSeverityWarning
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: positionAt(text, offset),
				End:   positionAt(text, offset+1),
			},
			Severity: &severity,
			Source:   &source,
			Message:  fmt.Sprintf("open syllable %q is never closed, so its operation never runs", runes[offset]),
		})
	}

	if len(parser.Parse(text)) == 0 && strings.TrimSpace(text) != "" {
		severity := protocol.DiagnosticSeverityInformation
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: 0, Character: 0},
				End:   protocol.Position{Line: 0, Character: 0},
			},
			Severity: &severity,
			Source:   &source,
			Message:  "no complete operations: the program does nothing",
		})
	}

	return diagnostics
}

var openClosers = map[rune]string{
	'혀': "엉 (Push)",
	'하': "앙 (Add) or 앗 (Multiply)",
	'흐': "읏 (Negate), 읍 (Reciprocate) or 윽 (Duplicate)",
}

// describeGlyph renders hover markdown for a single character, or "" when
// the character plays no role in the language.
func describeGlyph(c rune) string {
	info := parser.ClassifyGlyph(c)
	switch info.Class {
	case parser.GlyphSelfEnding:
		return fmt.Sprintf("**%c** — %s with repeat count 1", c, info.Op)
	case parser.GlyphOpen:
		return fmt.Sprintf("**%c** — open syllable, closed by %s; every Hangul syllable up to the closer counts toward the repeat count", c, openClosers[c])
	case parser.GlyphClosing:
		return fmt.Sprintf("**%c** — closes an open syllable as %s", c, info.Op)
	case parser.GlyphDot:
		return "**.** — adds 1 to the instruction's magnitude"
	case parser.GlyphThreeDots:
		return fmt.Sprintf("**%c** — ellipsis, adds 3 to the instruction's magnitude", c)
	case parser.GlyphHeart:
		return fmt.Sprintf("**%c** — heart %d of %d: a jump label leaf in the branch expression", c, info.HeartID+1, len(parser.HeartMarks))
	case parser.GlyphReturnHeart:
		return fmt.Sprintf("**%c** — return heart: jumps back to the origin of the most recent jump", c)
	case parser.GlyphBang:
		return "**!** — groups the pending leaf for an equality comparison"
	case parser.GlyphQuestion:
		return "**?** — closes the equality group with an order comparison"
	}
	return ""
}
