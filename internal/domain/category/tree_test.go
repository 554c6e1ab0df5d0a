package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func cat(id, name string, parentID *string) Category {
	return Category{ID: id, Name: name, ParentID: parentID}
}

func TestBuildForest_Empty(t *testing.T) {
	forest := BuildForest(nil)
	assert.Empty(t, forest)
}

func TestBuildForest_Nesting(t *testing.T) {
	forest := BuildForest([]Category{
		cat("electronics", "Electronics", nil),
		cat("audio", "Audio", ptr("electronics")),
		cat("headphones", "Headphones", ptr("audio")),
		cat("speakers", "Speakers", ptr("audio")),
		cat("home", "Home", nil),
	})

	require.Len(t, forest, 2)
	assert.Equal(t, 5, CountNodes(forest))

	// Roots sorted by name.
	assert.Equal(t, "Electronics", forest[0].Name)
	assert.Equal(t, "Home", forest[1].Name)
	assert.Empty(t, forest[1].Subcategories)

	audio := forest[0].Subcategories
	require.Len(t, audio, 1)
	assert.Equal(t, "audio", audio[0].ID)

	leaves := audio[0].Subcategories
	require.Len(t, leaves, 2)
	assert.Equal(t, "Headphones", leaves[0].Name)
	assert.Equal(t, "Speakers", leaves[1].Name)
	assert.Empty(t, leaves[0].Subcategories)
}

func TestBuildForest_SiblingOrder(t *testing.T) {
	forest := BuildForest([]Category{
		cat("c", "Cameras", nil),
		cat("a", "Audio", nil),
		cat("b", "Books", nil),
	})

	require.Len(t, forest, 3)
	assert.Equal(t, []string{"Audio", "Books", "Cameras"},
		[]string{forest[0].Name, forest[1].Name, forest[2].Name})
}

func TestBuildForest_DanglingParentPruned(t *testing.T) {
	// A parent reference to a deleted category makes the subtree
	// unreachable; it must vanish rather than break the build.
	forest := BuildForest([]Category{
		cat("root", "Root", nil),
		cat("orphan", "Orphan", ptr("deleted")),
		cat("orphan-child", "Orphan child", ptr("orphan")),
	})

	require.Len(t, forest, 1)
	assert.Equal(t, "root", forest[0].ID)
	assert.Equal(t, 1, CountNodes(forest))
}

func TestBuildForest_CyclePruned(t *testing.T) {
	forest := BuildForest([]Category{
		cat("root", "Root", nil),
		cat("a", "A", ptr("b")),
		cat("b", "B", ptr("a")),
	})

	require.Len(t, forest, 1)
	assert.Equal(t, 1, CountNodes(forest), "cycle members are unreachable from roots")
}

func TestBuildForest_DuplicateIDsExpandOnce(t *testing.T) {
	forest := BuildForest([]Category{
		cat("root", "Root", nil),
		cat("child", "Child", ptr("root")),
		cat("child", "Child again", ptr("root")),
	})

	require.Len(t, forest, 1)
	assert.Equal(t, 2, CountNodes(forest))
}
