package syntax_test

import (
	"testing"

	"texsense/internal/syntax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagTables(t *testing.T) {
	for _, tag := range syntax.EnvNamePriority {
		assert.True(t, tag.IsEnvName(), "%s", tag)
		assert.False(t, tag.IsEnvironment(), "%s", tag)
	}
	assert.True(t, syntax.Environment.Foldable())
	assert.True(t, syntax.SubSection.Foldable())
	assert.True(t, syntax.Group.Foldable())
	assert.False(t, syntax.CtrlSeq.Foldable())
	assert.True(t, syntax.RefStarrableCtrlSeq.IsCommand())
	assert.True(t, syntax.Begin.IsCommand())
	assert.True(t, syntax.EquationEnvironment.IsMath())
	assert.Equal(t, "Invalid", syntax.Tag(255).String())

	tag, level, ok := syntax.SectionLevel("subsection")
	require.True(t, ok)
	assert.Equal(t, syntax.SubSection, tag)
	assert.Equal(t, 4, level)
	_, _, ok = syntax.SectionLevel("textbf")
	assert.False(t, ok)
}

// buildTree builds the tree of `\begin{x}a\end{x}` by hand.
func buildTree() *syntax.Tree {
	src := `\begin{x}a\end{x}`
	root := syntax.NewNode(syntax.Root, 0, len(src))
	env := syntax.NewNode(syntax.Environment, 0, len(src))

	begin := syntax.NewNode(syntax.BeginEnv, 0, 9)
	nameGroup := syntax.NewNode(syntax.EnvNameGroup, 6, 9)
	nameGroup.Append(
		syntax.NewNode(syntax.OpenBrace, 6, 7),
		syntax.NewNode(syntax.EnvName, 7, 8),
		syntax.NewNode(syntax.CloseBrace, 8, 9),
	)
	begin.Append(syntax.NewNode(syntax.Begin, 0, 6), nameGroup)

	end := syntax.NewNode(syntax.EndEnv, 10, 17)
	endGroup := syntax.NewNode(syntax.EnvNameGroup, 14, 17)
	endGroup.Append(
		syntax.NewNode(syntax.OpenBrace, 14, 15),
		syntax.NewNode(syntax.EnvName, 15, 16),
		syntax.NewNode(syntax.CloseBrace, 16, 17),
	)
	end.Append(syntax.NewNode(syntax.End, 10, 14), endGroup)

	env.Append(begin, end)
	root.Append(env)
	return syntax.NewTree(src, root)
}

func TestTree(t *testing.T) {
	tree := buildTree()

	t.Run("Links", func(t *testing.T) {
		env := tree.Root().FirstChild()
		require.NotNil(t, env)
		begin := env.FirstChild()
		assert.Equal(t, env, begin.Parent())
		assert.Equal(t, syntax.EndEnv, begin.NextSibling().Tag)
		assert.Nil(t, begin.PrevSibling())
		assert.Equal(t, `\begin{x}`, begin.Text())
		assert.Equal(t, "x", begin.Child(syntax.EnvNameGroup).Child(syntax.EnvName).Text())
	})

	t.Run("Resolve", func(t *testing.T) {
		assert.Equal(t, syntax.EnvName, tree.Resolve(8, -1).Tag)
		assert.Equal(t, syntax.CloseBrace, tree.Resolve(8, 1).Tag)
		assert.Equal(t, syntax.Begin, tree.Resolve(3, 0).Tag)
		assert.Equal(t, syntax.Environment, tree.Resolve(9, 1).Tag)
		assert.Equal(t, syntax.Root, tree.Resolve(0, -1).Tag)
	})

	t.Run("Walk", func(t *testing.T) {
		var names []string
		tree.Walk(func(n *syntax.Node) bool {
			if n.Tag.IsEnvName() {
				names = append(names, n.Text())
			}
			return n.Tag != syntax.EndEnv
		})
		assert.Equal(t, []string{"x"}, names)
	})

	t.Run("Stale", func(t *testing.T) {
		assert.False(t, tree.StaleFor(`\begin{x}a\end{x}`))
		assert.True(t, tree.StaleFor(`\begin{x}ab\end{x}`))
		var missing *syntax.Tree
		assert.True(t, missing.StaleFor(""))
	})
}
