package obsidian

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontmatterKeepsInsertionOrder(t *testing.T) {
	fm := NewFrontmatter()
	fm.Set("title", "Dune")
	fm.Set("author", "Frank Herbert")
	fm.Set("title", "Dune Messiah")

	assert.Equal(t, []string{"title", "author"}, fm.Keys())

	val, ok := fm.Get("title")
	require.True(t, ok)
	assert.Equal(t, "Dune Messiah", val)

	_, ok = fm.Get("isbn13")
	assert.False(t, ok)
}

func TestNoteBuild(t *testing.T) {
	fm := NewFrontmatter()
	fm.Set("title", "Dune")
	fm.Set("isbn13", "9780441013593")
	fm.Set("tags", []string{"book", "sci-fi"})

	content, err := (&Note{Frontmatter: fm, Body: "\n# Dune\n\n"}).Build()
	require.NoError(t, err)

	assert.Equal(t, "---\n"+
		"title: Dune\n"+
		"isbn13: \"9780441013593\"\n"+
		"tags: [book, sci-fi]\n"+
		"---\n"+
		"\n"+
		"# Dune\n", string(content))
}

func TestNoteBuildWithoutFrontmatter(t *testing.T) {
	content, err := (&Note{Frontmatter: NewFrontmatter(), Body: "just text"}).Build()
	require.NoError(t, err)
	assert.Equal(t, "\njust text\n", string(content))

	content, err = (&Note{}).Build()
	require.NoError(t, err)
	assert.Empty(t, content)
}
