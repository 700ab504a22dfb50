package parser

import (
	"context"
	"strings"
	"unicode/utf8"

	"texsense/internal/syntax"
)

// checkpointEvery is the number of scanned tokens between two checks of
// the context.
const checkpointEvery = 1024

const (
	nameStop     = "}{\\%$\n"
	argumentStop = "}{\\%$"
)

type frameKind uint8

const (
	frameRoot frameKind = iota
	frameEnv
	frameGroup
	frameInlineDollar
	frameDisplayDollar
	frameInlineParen
	frameDisplayBracket
)

type frame struct {
	kind frameKind
	name string // environment name of a frameEnv
}

// stop describes how a content run ended. An unclosed run ended at EOF or
// at a terminator that belongs to an enclosing frame.
type stop struct {
	closed bool
	node   *syntax.Node // EndEnv or CloseBrace, when the frame has one
}

type scanner struct {
	ctx   context.Context
	src   string
	pos   int
	stack []frame
	steps int
	err   error
}

func (s *scanner) canceled() bool {
	if s.err != nil {
		return true
	}
	s.steps++
	if s.steps%checkpointEvery == 0 && s.ctx != nil {
		s.err = s.ctx.Err()
	}
	return s.err != nil
}

func (s *scanner) peek(offset int) byte {
	if s.pos+offset >= len(s.src) {
		return 0
	}
	return s.src[s.pos+offset]
}

// envOpenAbove reports whether an environment called name is open in a
// frame enclosing the current one.
func (s *scanner) envOpenAbove(name string) bool {
	for i := len(s.stack) - 2; i >= 0; i-- {
		if s.stack[i].kind == frameEnv && s.stack[i].name == name {
			return true
		}
	}
	return false
}

func (s *scanner) groupOpenAbove() bool {
	for i := len(s.stack) - 2; i >= 0; i-- {
		if s.stack[i].kind == frameGroup {
			return true
		}
	}
	return false
}

// content scans until the terminator of f, EOF, or a terminator that closes
// an enclosing frame. The latter is left unconsumed.
func (s *scanner) content(f frame) ([]*syntax.Node, stop) {
	s.stack = append(s.stack, f)
	defer func() { s.stack = s.stack[:len(s.stack)-1] }()

	var nodes []*syntax.Node
	for s.pos < len(s.src) && !s.canceled() {
		switch s.src[s.pos] {
		case '%':
			nodes = append(nodes, s.comment())
		case '{':
			nodes = append(nodes, s.group())
		case '}':
			if f.kind == frameGroup {
				brace := syntax.NewNode(syntax.CloseBrace, s.pos, s.pos+1)
				s.pos++
				return nodes, stop{closed: true, node: brace}
			}
			if s.groupOpenAbove() {
				return nodes, stop{}
			}
			s.pos++
		case '$':
			switch {
			case f.kind == frameInlineDollar:
				s.pos++
				return nodes, stop{closed: true}
			case s.peek(1) == '$' && f.kind == frameDisplayDollar:
				s.pos += 2
				return nodes, stop{closed: true}
			case s.peek(1) == '$':
				nodes = append(nodes, s.math(syntax.DisplayMath, frameDisplayDollar, 2))
			case f.kind == frameDisplayDollar:
				s.pos++
			default:
				nodes = append(nodes, s.math(syntax.InlineMath, frameInlineDollar, 1))
			}
		case '\\':
			found, st, done := s.command(f)
			if done {
				return nodes, st
			}
			nodes = append(nodes, found...)
		default:
			s.pos++
		}
	}
	return nodes, stop{}
}

func (s *scanner) command(f frame) ([]*syntax.Node, stop, bool) {
	start := s.pos
	s.pos++
	name := s.commandName()

	switch name {
	case "begin":
		return []*syntax.Node{s.environment(start)}, stop{}, false
	case "end":
		end, envName, ok := s.delimiter(start, syntax.End, syntax.EndEnv)
		if ok {
			if f.kind == frameEnv && envName == f.name {
				return nil, stop{closed: true, node: end}, true
			}
			if s.envOpenAbove(envName) {
				s.pos = start
				return nil, stop{}, true
			}
		}
		return []*syntax.Node{end}, stop{}, false
	case "(":
		s.pos = start
		return []*syntax.Node{s.math(syntax.InlineMath, frameInlineParen, 2)}, stop{}, false
	case "[":
		s.pos = start
		return []*syntax.Node{s.math(syntax.DisplayMath, frameDisplayBracket, 2)}, stop{}, false
	case ")":
		if f.kind == frameInlineParen {
			return nil, stop{closed: true}, true
		}
	case "]":
		if f.kind == frameDisplayBracket {
			return nil, stop{closed: true}, true
		}
	}

	tag := commandTag(name)
	nodes := []*syntax.Node{syntax.NewNode(tag, start, s.pos)}
	if arg := argumentTag(tag); arg != syntax.Invalid {
		nodes = append(nodes, s.arguments(arg)...)
	}
	return nodes, stop{}, false
}

// commandName reads a run of letters, or a single other character.
func (s *scanner) commandName() string {
	from := s.pos
	for s.pos < len(s.src) && isLetter(s.src[s.pos]) {
		s.pos++
	}
	if s.pos == from && s.pos < len(s.src) {
		_, size := utf8.DecodeRuneInString(s.src[s.pos:])
		s.pos += size
	}
	return s.src[from:s.pos]
}

// delimiter reads the `{name}` slot following \begin or \end. ok is true
// only for a non-empty, closed slot.
func (s *scanner) delimiter(start int, keyword, wrapper syntax.Tag) (*syntax.Node, string, bool) {
	node := syntax.NewNode(wrapper, start, s.pos)
	node.Append(syntax.NewNode(keyword, start, s.pos))
	if s.peek(0) != '{' {
		return node, "", false
	}

	open := s.pos
	s.pos++
	nameFrom := s.pos
	for s.pos < len(s.src) && strings.IndexByte(nameStop, s.src[s.pos]) < 0 {
		s.pos++
	}
	name := s.src[nameFrom:s.pos]

	group := syntax.NewNode(syntax.EnvNameGroup, open, s.pos)
	group.Append(syntax.NewNode(syntax.OpenBrace, open, open+1))
	if name != "" {
		_, nameTag := EnvironmentKind(name)
		group.Append(syntax.NewNode(nameTag, nameFrom, s.pos))
	}
	ok := false
	if s.peek(0) == '}' {
		group.Append(syntax.NewNode(syntax.CloseBrace, s.pos, s.pos+1))
		s.pos++
		ok = name != ""
	}
	group.To = s.pos
	node.Append(group)
	node.To = s.pos
	return node, name, ok
}

func (s *scanner) environment(start int) *syntax.Node {
	begin, name, ok := s.delimiter(start, syntax.Begin, syntax.BeginEnv)
	if !ok {
		return begin
	}

	envTag, _ := EnvironmentKind(name)
	env := syntax.NewNode(envTag, start, s.pos)
	env.Append(begin)
	if envTag == syntax.VerbatimEnvironment {
		s.verbatim(env, name)
	} else {
		children, st := s.content(frame{kind: frameEnv, name: name})
		end := s.pos
		if st.closed {
			end = st.node.From
		}
		env.Append(s.nestSections(children, end)...)
		if st.closed {
			env.Append(st.node)
		}
	}
	env.To = s.pos
	return env
}

// verbatim takes everything up to the closing delimiter as raw content.
func (s *scanner) verbatim(env *syntax.Node, name string) {
	from := s.pos
	idx := strings.Index(s.src[from:], `\end{`+name+`}`)
	if idx < 0 {
		s.pos = len(s.src)
		env.Append(syntax.NewNode(syntax.VerbatimContent, from, s.pos))
		return
	}
	to := from + idx
	env.Append(syntax.NewNode(syntax.VerbatimContent, from, to))
	s.pos = to + len(`\end`)
	end, _, _ := s.delimiter(to, syntax.End, syntax.EndEnv)
	env.Append(end)
}

func (s *scanner) group() *syntax.Node {
	start := s.pos
	s.pos++
	g := syntax.NewNode(syntax.Group, start, s.pos)
	g.Append(syntax.NewNode(syntax.OpenBrace, start, start+1))
	children, st := s.content(frame{kind: frameGroup})
	g.Append(children...)
	if st.closed {
		g.Append(st.node)
	}
	g.To = s.pos
	return g
}

func (s *scanner) math(tag syntax.Tag, kind frameKind, open int) *syntax.Node {
	start := s.pos
	s.pos += open
	children, _ := s.content(frame{kind: kind})
	n := syntax.NewNode(tag, start, s.pos)
	n.Append(children...)
	return n
}

func (s *scanner) comment() *syntax.Node {
	start := s.pos
	if end := strings.IndexByte(s.src[start:], '\n'); end >= 0 {
		s.pos = start + end
	} else {
		s.pos = len(s.src)
	}
	return syntax.NewNode(syntax.Comment, start, s.pos)
}

// arguments reads the optional star, the optional bracket argument and the
// braced key list of a label, reference or package command.
func (s *scanner) arguments(tag syntax.Tag) []*syntax.Node {
	var nodes []*syntax.Node
	if s.peek(0) == '*' {
		s.pos++
	}
	if s.peek(0) == '[' {
		start := s.pos
		if end := strings.IndexAny(s.src[start:], "]\n"); end >= 0 && s.src[start+end] == ']' {
			s.pos = start + end + 1
			nodes = append(nodes, syntax.NewNode(syntax.OptionalArgument, start, s.pos))
		}
	}
	if s.peek(0) != '{' {
		return nodes
	}

	start := s.pos
	s.pos++
	for s.pos < len(s.src) && strings.IndexByte(argumentStop, s.src[s.pos]) < 0 {
		s.pos++
	}
	arg := syntax.NewNode(tag, start, s.pos)
	arg.Append(syntax.NewNode(syntax.OpenBrace, start, start+1))
	if s.peek(0) == '}' {
		arg.Append(syntax.NewNode(syntax.CloseBrace, s.pos, s.pos+1))
		s.pos++
	}
	arg.To = s.pos
	return append(nodes, arg)
}

// nestSections wraps runs of siblings into sectioning units. A unit runs from
// its heading command to the next heading of the same or a higher level, or
// to end.
func (s *scanner) nestSections(nodes []*syntax.Node, end int) []*syntax.Node {
	var out []*syntax.Node
	for i := 0; i < len(nodes); {
		tag, level, ok := s.sectionOf(nodes[i])
		if !ok {
			out = append(out, nodes[i])
			i++
			continue
		}
		j := i + 1
		for ; j < len(nodes); j++ {
			if _, l, ok := s.sectionOf(nodes[j]); ok && l <= level {
				break
			}
		}
		to := end
		if j < len(nodes) {
			to = nodes[j].From
		}
		unit := syntax.NewNode(tag, nodes[i].From, to)
		unit.Append(nodes[i])
		unit.Append(s.nestSections(nodes[i+1:j], to)...)
		out = append(out, unit)
		i = j
	}
	return out
}

func (s *scanner) sectionOf(n *syntax.Node) (syntax.Tag, int, bool) {
	if n.Tag != syntax.SectioningCtrlSeq {
		return syntax.Invalid, 0, false
	}
	return syntax.SectionLevel(s.src[n.From+1 : n.To])
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}
