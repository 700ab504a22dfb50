package query

import (
	"regexp"
	"strings"

	"texsense/internal/edit"
)

const slotWindow = 20

var (
	openBeforeRe = regexp.MustCompile(`\\begin\{([^}]+)\}[ \t\r]*$`)
	slotGateRe   = regexp.MustCompile(`\\(begin|end)\{[^}]*$`)
	slotRe       = regexp.MustCompile(`\\(begin|end)\{([a-zA-Z*]*)$`)
	delimiterRe  = regexp.MustCompile(`\\(begin|end)\{([^}]+)\}`)
)

// OpenNameBefore returns the block name when the line text before pos ends
// with a complete opening delimiter, optionally followed by blanks or a
// carriage return.
func OpenNameBefore(text string, pos int) (string, bool) {
	line := edit.LineAt(text, pos)
	m := openBeforeRe.FindStringSubmatch(text[line.From:pos])
	if m == nil {
		return "", false
	}
	return m[1], true
}

// EnvironmentSlotBefore locates the name slot ending at pos from the text.
func EnvironmentSlotBefore(text string, pos int) (Slot, bool) {
	if !InSlotWindow(text, pos) {
		return Slot{}, false
	}
	line := edit.LineAt(text, pos)
	m := slotRe.FindStringSubmatchIndex(text[line.From:pos])
	if m == nil {
		return Slot{}, false
	}
	return Slot{
		Opening: text[line.From+m[2]:line.From+m[3]] == "begin",
		Range:   edit.Range{From: line.From + m[4], To: pos},
	}, true
}

// InSlotWindow reports whether the few bytes before pos end inside an
// unterminated name slot.
func InSlotWindow(text string, pos int) bool {
	if pos < 0 || pos > len(text) {
		return false
	}
	return slotGateRe.MatchString(text[max(0, pos-slotWindow):pos])
}

// HasClosingAfter reports whether a closing delimiter for name occurs at or
// after pos.
func HasClosingAfter(text string, pos int, name string) bool {
	if pos > len(text) {
		return false
	}
	return strings.Contains(text[pos:], `\end{`+name+`}`)
}

type textDelimiter struct {
	opening bool
	name    string
	r       edit.Range
}

func textDelimiters(text string) []textDelimiter {
	var out []textDelimiter
	for _, m := range delimiterRe.FindAllStringSubmatchIndex(text, -1) {
		out = append(out, textDelimiter{
			opening: text[m[2]:m[3]] == "begin",
			name:    text[m[4]:m[5]],
			r:       edit.Range{From: m[0], To: m[1]},
		})
	}
	return out
}

// MatchingPartnerText is the text-only counterpart of MatchingPartner. The
// partner is the nearest delimiter of the same name at the same depth.
func MatchingPartnerText(text string, pos int) (edit.Range, bool) {
	delims := textDelimiters(text)
	at := -1
	for i, d := range delims {
		if d.r.From <= pos && pos < d.r.To {
			at = i
			break
		}
	}
	if at < 0 {
		for i, d := range delims {
			if d.r.From < pos && pos <= d.r.To {
				at = i
				break
			}
		}
	}
	if at < 0 {
		return edit.Range{}, false
	}

	d := delims[at]
	step := 1
	if !d.opening {
		step = -1
	}
	depth := 0
	for i := at + step; i >= 0 && i < len(delims); i += step {
		o := delims[i]
		if o.name != d.name {
			continue
		}
		if o.opening == d.opening {
			depth++
			continue
		}
		if depth > 0 {
			depth--
			continue
		}
		return edit.Range{From: min(d.r.From, o.r.From), To: max(d.r.To, o.r.To)}, true
	}
	return edit.Range{}, false
}
