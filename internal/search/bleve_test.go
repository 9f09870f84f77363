package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchScopedByUser(t *testing.T) {
	index, err := NewMemIndex()
	assert.NoError(t, err)
	defer index.Close()

	assert.NoError(t, index.IndexStudy("s-1", "user-a", "A criação do mundo", "No princípio criou Deus os céus e a terra", []string{"gênesis"}))
	assert.NoError(t, index.IndexStudy("s-2", "user-a", "O dilúvio", "Noé construiu uma arca", []string{"gênesis"}))
	assert.NoError(t, index.IndexStudy("s-3", "user-b", "A criação segundo João", "No princípio era o Verbo", nil))

	hits, err := index.Search("user-a", "princípio", 10)
	assert.NoError(t, err)
	assert.Len(t, hits, 1)
	assert.Equal(t, "s-1", hits[0].StudyID)
	assert.Equal(t, "A criação do mundo", hits[0].Title)
	assert.Greater(t, hits[0].Score, 0.0)
}

func TestSearchRankedDescending(t *testing.T) {
	index, err := NewMemIndex()
	assert.NoError(t, err)
	defer index.Close()

	assert.NoError(t, index.IndexStudy("s-1", "u", "arca", "arca arca arca", nil))
	assert.NoError(t, index.IndexStudy("s-2", "u", "outro", "a arca apareceu uma vez entre muitas outras palavras do texto", nil))

	hits, err := index.Search("u", "arca", 10)
	assert.NoError(t, err)
	assert.Len(t, hits, 2)
	assert.GreaterOrEqual(t, hits[0].Score, hits[1].Score)
}

func TestDeleteStudy(t *testing.T) {
	index, err := NewMemIndex()
	assert.NoError(t, err)
	defer index.Close()

	assert.NoError(t, index.IndexStudy("s-1", "u", "arca", "arca", nil))
	assert.NoError(t, index.DeleteStudy("s-1"))

	hits, err := index.Search("u", "arca", 10)
	assert.NoError(t, err)
	assert.Empty(t, hits)
}
