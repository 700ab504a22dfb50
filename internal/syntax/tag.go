package syntax

// Tag is the closed set of node kinds produced by the parser.
type Tag uint8

const (
	Invalid Tag = iota
	Root
	Comment
	Group
	OpenBrace
	CloseBrace
	OptionalArgument

	// Control sequences.
	CtrlSeq
	LabelCtrlSeq
	RefCtrlSeq
	RefStarrableCtrlSeq
	UsePackageCtrlSeq
	SectioningCtrlSeq
	LabelArgument
	RefArgument
	PackageArgument

	// Delimiters of named blocks.
	Begin
	End
	BeginEnv
	EndEnv
	EnvNameGroup

	// Name slot kinds.
	EnvName
	DocumentEnvName
	TabularEnvName
	EquationEnvName
	EquationArrayEnvName
	VerbatimEnvName
	TikzPictureEnvName
	FigureEnvName
	ListEnvName
	TableEnvName

	// Block kinds.
	Environment
	DocumentEnvironment
	TabularEnvironment
	EquationEnvironment
	EquationArrayEnvironment
	VerbatimEnvironment
	TikzPictureEnvironment
	FigureEnvironment
	ListEnvironment
	TableEnvironment
	VerbatimContent

	// Math.
	InlineMath
	DisplayMath

	// Sectioning units.
	Book
	Part
	Chapter
	Section
	SubSection
	SubSubSection
	Paragraph
	SubParagraph

	tagCount
)

type tagClass uint8

const classNone tagClass = 0

const (
	classEnvironment tagClass = 1 << iota
	classEnvName
	classCommand
	classGroup
	classSectioning
	classMath
)

type tagInfo struct {
	name  string
	class tagClass
}

var tags = [tagCount]tagInfo{
	Invalid:          {"Invalid", classNone},
	Root:             {"LaTeX", classNone},
	Comment:          {"Comment", classNone},
	Group:            {"Group", classGroup},
	OpenBrace:        {"OpenBrace", classNone},
	CloseBrace:       {"CloseBrace", classNone},
	OptionalArgument: {"OptionalArgument", classGroup},

	CtrlSeq:             {"CtrlSeq", classCommand},
	LabelCtrlSeq:        {"LabelCtrlSeq", classCommand},
	RefCtrlSeq:          {"RefCtrlSeq", classCommand},
	RefStarrableCtrlSeq: {"RefStarrableCtrlSeq", classCommand},
	UsePackageCtrlSeq:   {"UsePackageCtrlSeq", classCommand},
	SectioningCtrlSeq:   {"SectioningCtrlSeq", classCommand},
	LabelArgument:       {"LabelArgument", classGroup},
	RefArgument:         {"RefArgument", classGroup},
	PackageArgument:     {"PackageArgument", classGroup},

	Begin:        {"Begin", classCommand},
	End:          {"End", classCommand},
	BeginEnv:     {"BeginEnv", classNone},
	EndEnv:       {"EndEnv", classNone},
	EnvNameGroup: {"EnvNameGroup", classNone},

	EnvName:              {"EnvName", classEnvName},
	DocumentEnvName:      {"DocumentEnvName", classEnvName},
	TabularEnvName:       {"TabularEnvName", classEnvName},
	EquationEnvName:      {"EquationEnvName", classEnvName},
	EquationArrayEnvName: {"EquationArrayEnvName", classEnvName},
	VerbatimEnvName:      {"VerbatimEnvName", classEnvName},
	TikzPictureEnvName:   {"TikzPictureEnvName", classEnvName},
	FigureEnvName:        {"FigureEnvName", classEnvName},
	ListEnvName:          {"ListEnvName", classEnvName},
	TableEnvName:         {"TableEnvName", classEnvName},

	Environment:              {"Environment", classEnvironment},
	DocumentEnvironment:      {"DocumentEnvironment", classEnvironment},
	TabularEnvironment:       {"TabularEnvironment", classEnvironment},
	EquationEnvironment:      {"EquationEnvironment", classEnvironment | classMath},
	EquationArrayEnvironment: {"EquationArrayEnvironment", classEnvironment | classMath},
	VerbatimEnvironment:      {"VerbatimEnvironment", classEnvironment},
	TikzPictureEnvironment:   {"TikzPictureEnvironment", classEnvironment},
	FigureEnvironment:        {"FigureEnvironment", classEnvironment},
	ListEnvironment:          {"ListEnvironment", classEnvironment},
	TableEnvironment:         {"TableEnvironment", classEnvironment},
	VerbatimContent:          {"VerbatimContent", classNone},

	InlineMath:  {"InlineMath", classMath},
	DisplayMath: {"DisplayMath", classMath},

	Book:          {"Book", classSectioning},
	Part:          {"Part", classSectioning},
	Chapter:       {"Chapter", classSectioning},
	Section:       {"Section", classSectioning},
	SubSection:    {"SubSection", classSectioning},
	SubSubSection: {"SubSubSection", classSectioning},
	Paragraph:     {"Paragraph", classSectioning},
	SubParagraph:  {"SubParagraph", classSectioning},
}

func (t Tag) String() string {
	if t >= tagCount {
		return tags[Invalid].name
	}
	return tags[t].name
}

func (t Tag) is(c tagClass) bool {
	return t < tagCount && tags[t].class&c != 0
}

// IsEnvironment reports whether t is one of the block kinds.
func (t Tag) IsEnvironment() bool { return t.is(classEnvironment) }

// IsEnvName reports whether t is one of the name slot kinds.
func (t Tag) IsEnvName() bool { return t.is(classEnvName) }

// IsCommand reports whether t is a control sequence, including the
// delimiter keywords.
func (t Tag) IsCommand() bool { return t.is(classCommand) }

// IsGroup reports whether t is a brace or bracket group.
func (t Tag) IsGroup() bool { return t.is(classGroup) }

// IsSectioning reports whether t is a sectioning unit.
func (t Tag) IsSectioning() bool { return t.is(classSectioning) }

// IsMath reports whether t opens math content.
func (t Tag) IsMath() bool { return t.is(classMath) }

// Foldable reports whether nodes of kind t span a foldable region.
func (t Tag) Foldable() bool {
	return t.is(classEnvironment) || t.is(classSectioning) || t == Group
}

// EnvNamePriority is the order in which name slot kinds are searched.
var EnvNamePriority = [...]Tag{
	EnvName,
	DocumentEnvName,
	TabularEnvName,
	EquationEnvName,
	EquationArrayEnvName,
	VerbatimEnvName,
	TikzPictureEnvName,
	FigureEnvName,
	ListEnvName,
	TableEnvName,
}

// SectionLevel returns the unit kind and depth of a sectioning command name,
// lower depth being more significant. ok is false for other names.
func SectionLevel(command string) (Tag, int, bool) {
	switch command {
	case "book":
		return Book, 0, true
	case "part":
		return Part, 1, true
	case "chapter":
		return Chapter, 2, true
	case "section":
		return Section, 3, true
	case "subsection":
		return SubSection, 4, true
	case "subsubsection":
		return SubSubSection, 5, true
	case "paragraph":
		return Paragraph, 6, true
	case "subparagraph":
		return SubParagraph, 7, true
	}
	return Invalid, 0, false
}
