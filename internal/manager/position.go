package manager

import (
	"strings"
	"unicode/utf8"

	"texsense/internal/edit"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// OffsetOf converts an LSP position, counted in UTF-16 code units, to a byte
// offset into text. Lines past the end clamp to the last line and columns
// past the end of a line clamp to its line break.
func OffsetOf(text string, pos protocol.Position) int {
	offset := 0
	for line := protocol.UInteger(0); line < pos.Line; line++ {
		i := strings.IndexByte(text[offset:], '\n')
		if i < 0 {
			break
		}
		offset += i + 1
	}

	units := protocol.UInteger(0)
	for i, r := range text[offset:] {
		if r == '\n' {
			return offset + i
		}
		n := protocol.UInteger(1)
		if r > 0xFFFF {
			n = 2
		}
		if units+n > pos.Character {
			return offset + i
		}
		units += n
	}
	return len(text)
}

// PositionOf converts a byte offset into text to an LSP position.
func PositionOf(text string, offset int) protocol.Position {
	offset = max(0, min(offset, len(text)))
	for offset > 0 && offset < len(text) && !utf8.RuneStart(text[offset]) {
		offset--
	}
	prefix := text[:offset]
	lineStart := strings.LastIndexByte(prefix, '\n') + 1

	var units protocol.UInteger
	for _, r := range prefix[lineStart:] {
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
	}
	return protocol.Position{
		Line:      protocol.UInteger(strings.Count(prefix, "\n")),
		Character: units,
	}
}

// RangeOf converts a byte range into an LSP range.
func RangeOf(text string, r edit.Range) protocol.Range {
	return protocol.Range{Start: PositionOf(text, r.From), End: PositionOf(text, r.To)}
}

// ByteRange converts an LSP range into a byte range.
func ByteRange(text string, r protocol.Range) edit.Range {
	from, to := OffsetOf(text, r.Start), OffsetOf(text, r.End)
	if to < from {
		from, to = to, from
	}
	return edit.Range{From: from, To: to}
}
