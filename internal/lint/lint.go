// Package lint reports structural problems: unbalanced blocks, references
// to undefined labels, and documents without a document block.
package lint

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"texsense/internal/edit"
	"texsense/internal/matcher"
	"texsense/internal/syntax"
)

// Source is attached to every diagnostic.
const Source = "LaTeX"

const (
	// A document shorter than this never gets the missing document warning.
	missingRootThreshold = 100
	missingRootSpan      = 200
)

type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

type Diagnostic struct {
	Range    edit.Range
	Severity Severity
	Message  string
	Source   string
}

// Options toggles the individual checks.
type Options struct {
	CheckMissingDocumentEnv    bool `json:"check_missing_document_env" yaml:"check_missing_document_env"`
	CheckUnmatchedEnvironments bool `json:"check_unmatched_environments" yaml:"check_unmatched_environments"`
	CheckMissingReferences     bool `json:"check_missing_references" yaml:"check_missing_references"`
}

// DefaultOptions enables every check.
func DefaultOptions() Options {
	return Options{
		CheckMissingDocumentEnv:    true,
		CheckUnmatchedEnvironments: true,
		CheckMissingReferences:     true,
	}
}

var (
	documentRe = regexp.MustCompile(`\\begin\{document\}`)
	labelRe    = regexp.MustCompile(`\\label\{([^}]*)\}`)
	refRe      = regexp.MustCompile(`\\(?:ref|eqref|pageref|vref|autoref|nameref|cref|Cref|cpageref|Cpageref)\*?(?:\[[^\]\n]*\])?\{([^}]*)\}`)
)

type Linter struct {
	opts Options
}

func New(opts Options) *Linter {
	return &Linter{opts: opts}
}

// Lint checks text. tree is used when it was built from text; otherwise
// every check falls back to regular expressions over the text.
func (l *Linter) Lint(text string, tree *syntax.Tree) []Diagnostic {
	if tree.StaleFor(text) {
		tree = nil
	}

	var out []Diagnostic
	if l.opts.CheckMissingDocumentEnv {
		out = append(out, missingDocument(text, tree)...)
	}
	if l.opts.CheckUnmatchedEnvironments {
		out = append(out, unbalanced(text, tree)...)
	}
	if l.opts.CheckMissingReferences {
		out = append(out, undefinedReferences(text, tree)...)
	}

	slices.SortStableFunc(out, func(a, b Diagnostic) int {
		if c := cmp.Compare(a.Range.From, b.Range.From); c != 0 {
			return c
		}
		return cmp.Compare(a.Range.To, b.Range.To)
	})
	return out
}

func missingDocument(text string, tree *syntax.Tree) []Diagnostic {
	if len(text) <= missingRootThreshold || hasDocument(text, tree) {
		return nil
	}
	return []Diagnostic{{
		Range:    edit.Range{From: 0, To: min(len(text), missingRootSpan)},
		Severity: SeverityWarning,
		Message:  `Missing document environment. LaTeX documents should be enclosed in \begin{document}...\end{document}`,
		Source:   Source,
	}}
}

func hasDocument(text string, tree *syntax.Tree) bool {
	if tree == nil {
		return documentRe.MatchString(text)
	}
	found := false
	tree.Walk(func(n *syntax.Node) bool {
		if n.Tag == syntax.DocumentEnvironment || n.Tag == syntax.DocumentEnvName {
			found = true
		}
		return !found
	})
	return found
}

func unbalanced(text string, tree *syntax.Tree) []Diagnostic {
	var out []Diagnostic
	for _, u := range matcher.Build(text, tree).Unmatched() {
		msg := fmt.Sprintf(`Missing \end{%s}`, u.Name)
		if !u.Opening {
			msg = fmt.Sprintf(`Missing \begin{%s}`, u.Name)
		}
		out = append(out, Diagnostic{
			Range:    u.Range,
			Severity: SeverityError,
			Message:  msg,
			Source:   Source,
		})
	}
	return out
}

// reference is one identifier consumed by a reference command. Range covers
// the whole command.
type reference struct {
	id string
	r  edit.Range
}

func undefinedReferences(text string, tree *syntax.Tree) []Diagnostic {
	var labels map[string]struct{}
	var refs []reference
	if tree != nil {
		labels, refs = crossReferencesFromTree(tree)
	} else {
		labels, refs = crossReferencesFromText(text)
	}

	var out []Diagnostic
	for _, ref := range refs {
		if _, ok := labels[ref.id]; ok {
			continue
		}
		out = append(out, Diagnostic{
			Range:    ref.r,
			Severity: SeverityWarning,
			Message:  "Reference to undefined label: " + ref.id,
			Source:   Source,
		})
	}
	return out
}

func crossReferencesFromTree(tree *syntax.Tree) (map[string]struct{}, []reference) {
	labels := make(map[string]struct{})
	var refs []reference
	tree.Walk(func(n *syntax.Node) bool {
		switch n.Tag {
		case syntax.LabelCtrlSeq:
			if _, text, ok := argumentOf(n, syntax.LabelArgument); ok {
				if id := strings.TrimSpace(text); id != "" {
					labels[id] = struct{}{}
				}
			}
		case syntax.RefCtrlSeq, syntax.RefStarrableCtrlSeq:
			if arg, text, ok := argumentOf(n, syntax.RefArgument); ok {
				r := edit.Range{From: n.From, To: arg.To}
				for _, id := range splitIDs(text) {
					refs = append(refs, reference{id: id, r: r})
				}
			}
		}
		return true
	})
	return labels, refs
}

// argumentOf returns the text inside the closed braced argument of kind tag
// following cmd, skipping an optional argument.
func argumentOf(cmd *syntax.Node, tag syntax.Tag) (*syntax.Node, string, bool) {
	arg := cmd.NextSibling()
	for arg != nil && arg.Tag == syntax.OptionalArgument {
		arg = arg.NextSibling()
	}
	if arg == nil || arg.Tag != tag || arg.Child(syntax.CloseBrace) == nil {
		return nil, "", false
	}
	text := arg.Text()
	return arg, text[1 : len(text)-1], true
}

func crossReferencesFromText(text string) (map[string]struct{}, []reference) {
	labels := make(map[string]struct{})
	for _, m := range labelRe.FindAllStringSubmatch(text, -1) {
		if id := strings.TrimSpace(m[1]); id != "" {
			labels[id] = struct{}{}
		}
	}

	var refs []reference
	for _, m := range refRe.FindAllStringSubmatchIndex(text, -1) {
		r := edit.Range{From: m[0], To: m[1]}
		for _, id := range splitIDs(text[m[2]:m[3]]) {
			refs = append(refs, reference{id: id, r: r})
		}
	}
	return labels, refs
}

func splitIDs(arg string) []string {
	var ids []string
	for _, id := range strings.Split(arg, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
