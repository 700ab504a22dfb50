package completion

import (
	"strings"

	"texsense/internal/catalog"
	"texsense/internal/edit"
)

// CandidateKind tells the shell how to present a candidate.
type CandidateKind int

const (
	EnvironmentCandidate CandidateKind = iota
	CommandCandidate
	MathCandidate
	SnippetCandidate
	PackageCandidate
)

// Candidate is one completion option. Apply computes the transaction that
// inserts it over the matched range of doc.
type Candidate struct {
	Label  string
	Kind   CandidateKind
	Detail string
	Info   string

	apply func(doc edit.Document, r edit.Range) edit.Transaction
}

func (c Candidate) Apply(doc edit.Document, r edit.Range) edit.Transaction {
	if c.apply == nil {
		return edit.NewTransaction(edit.OriginComplete, edit.Change{From: r.From, To: r.To, Insert: c.Label}).
			WithCursor(r.From + len(c.Label))
	}
	return c.apply(doc, r)
}

func (c *Classifier) environment(name string, opening bool) Candidate {
	cand := Candidate{Label: name, Kind: EnvironmentCandidate, Detail: "environment"}
	if info, ok := c.catalog.EnvironmentInfo(name); ok {
		cand.Info = info.Description
		if info.Package != "" {
			cand.Detail = info.Package
		}
	}
	cand.apply = func(doc edit.Document, r edit.Range) edit.Transaction {
		to := r.To
		if doc.Slice(to, to+1) == "}" {
			to++
		}
		tx := edit.NewTransaction(edit.OriginComplete, edit.Change{From: r.From, To: to, Insert: name + "}"}).
			WithCursor(r.From + len(name) + 1)
		if opening && c.closer != nil {
			tx = c.closer.Propose(doc, tx)
		}
		return tx
	}
	return cand
}

func (c *Classifier) command(cmd string, kind CandidateKind) Candidate {
	cand := Candidate{Label: cmd, Kind: kind, Detail: "command"}
	if kind == MathCandidate {
		cand.Detail = "math"
	}
	if info, ok := c.catalog.CommandInfo(cmd); ok {
		cand.Info = info.Description
	}
	opens := strings.HasPrefix(cmd, `\begin{`)
	cand.apply = func(doc edit.Document, r edit.Range) edit.Transaction {
		tx := edit.NewTransaction(edit.OriginComplete, edit.Change{From: r.From, To: r.To, Insert: cmd}).
			WithCursor(r.From + len(cmd))
		if opens && c.closer != nil {
			tx = c.closer.Propose(doc, tx)
		}
		return tx
	}
	return cand
}

func (c *Classifier) snippet(s catalog.Snippet) Candidate {
	return Candidate{
		Label:  s.Label,
		Kind:   SnippetCandidate,
		Detail: s.Detail,
		Info:   s.Info,
		apply: func(doc edit.Document, r edit.Range) edit.Transaction {
			indent := edit.Indentation(doc.LineAt(r.From).Text)
			text, slots := Expand(s.Template, indent, c.unit)

			tx := edit.NewTransaction(edit.OriginComplete, edit.Change{From: r.From, To: r.To, Insert: text})
			for _, slot := range slots {
				tx.Tabstops = append(tx.Tabstops, r.From+slot)
			}
			if len(slots) > 0 {
				return tx.WithCursor(r.From + slots[0])
			}
			return tx.WithCursor(r.From + len(text))
		},
	}
}

func packageCandidate(name string) Candidate {
	return Candidate{Label: name, Kind: PackageCandidate, Detail: "package"}
}

// Expand renders a snippet template for a line indented by indent. Leading
// tabs of continuation lines become indent plus one unit per tab. slots are
// the offsets inside every "{}" of the result.
func Expand(template, indent, unit string) (text string, slots []int) {
	var b strings.Builder
	for i, line := range strings.Split(template, "\n") {
		if i > 0 {
			b.WriteByte('\n')
			b.WriteString(indent)
			for strings.HasPrefix(line, "\t") {
				b.WriteString(unit)
				line = line[1:]
			}
		}
		for {
			j := strings.Index(line, "{}")
			if j < 0 {
				break
			}
			b.WriteString(line[:j+1])
			slots = append(slots, b.Len())
			b.WriteByte('}')
			line = line[j+2:]
		}
		b.WriteString(line)
	}
	return b.String(), slots
}
