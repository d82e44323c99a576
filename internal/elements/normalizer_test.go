package elements

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmsbulk/t4bulk/internal/logger"
	"github.com/cmsbulk/t4bulk/internal/t4"
	"github.com/cmsbulk/t4bulk/internal/types"
)

func newsType() *t4.ContentType {
	return &t4.ContentType{
		ID:   12,
		Name: "News",
		Elements: []t4.ElementDefinition{
			{ID: 1, Name: "Title", Type: 1},
			{ID: 2, Name: "Date", Type: int(KindDate)},
			{ID: 3, Name: "Colours", Type: int(KindMultiSelect), ListID: 7},
			{ID: 4, Name: "Tag", Type: int(KindDropdown), ListID: 7},
			{ID: 5, Name: "Image", Type: int(KindMedia)},
			{ID: 6, Name: "Related", Type: int(KindServerSideLink)},
		},
	}
}

func buildRow(pairs ...string) *types.Row {
	row := types.NewRow(3)
	for i := 0; i+1 < len(pairs); i += 2 {
		row.Set(pairs[i], types.Cell{Value: pairs[i+1], DataType: types.DefaultDataType})
	}
	return row
}

func TestNormalize(t *testing.T) {
	api := &fakeAPI{lists: map[int]*t4.List{7: colours()}}
	n := NewNormalizer(api, nil, t.TempDir(), "en", logger.Discard())

	row := buildRow(
		types.ColumnContentTypeID, "12",
		types.ColumnSectionID, "100",
		types.ColumnContentID, "",
		types.ColumnPublishDate, "2024-01-01",
		"Title", "Hello",
		"Date", "12345",
		"Colours", "red|blue",
		"Tag", "purple",
		"Image", "8998965",
		"Related", LinkTag(9),
		"Unknown", "value",
		"Summary", "",
	)

	got, issues := n.Normalize(context.Background(), row, newsType(), Target{SectionID: 100, ContentID: 5})

	assert.Equal(t, Elements{
		"Title#1:1":    "Hello",
		"Date#2:5":     int64(1234500000000),
		"Colours#3:8":  "7:1, 2",
		"Image#5:11":   "8998965",
		"Related#6:14": LinkTag(9),
	}, got)

	require.Len(t, issues, 2)
	byColumn := map[string]Issue{}
	for _, issue := range issues {
		byColumn[issue.Column] = issue
	}
	assert.True(t, byColumn["Tag"].Dropped)
	assert.Contains(t, byColumn["Tag"].Message, "no list value matched")
	assert.True(t, byColumn["Unknown"].Dropped)
	assert.Zero(t, api.uploadCalls.Load())
}

func TestNormalize_ElementNamesAreCaseSensitive(t *testing.T) {
	n := NewNormalizer(&fakeAPI{}, nil, t.TempDir(), "en", nil)

	got, issues := n.Normalize(context.Background(), buildRow("title", "Hello"), newsType(), Target{})
	assert.Empty(t, got)
	require.Len(t, issues, 1)
	assert.Equal(t, "title", issues[0].Column)
}

func TestNormalize_FallbackKeepsColumn(t *testing.T) {
	n := NewNormalizer(&fakeAPI{}, nil, t.TempDir(), "en", nil)

	got, issues := n.Normalize(context.Background(), buildRow("Date", "someday"), newsType(), Target{})
	assert.Equal(t, Elements{"Date#2:5": "someday"}, got)
	require.Len(t, issues, 1)
	assert.False(t, issues[0].Dropped)
}

func TestNormalize_SkippedMediaIsDropped(t *testing.T) {
	n := NewNormalizer(&fakeAPI{}, nil, t.TempDir(), "en", nil)

	got, issues := n.Normalize(context.Background(), buildRow("Image", "missing.jpg", "Title", "x"), newsType(), Target{})
	assert.Equal(t, Elements{"Title#1:1": "x"}, got)
	require.Len(t, issues, 1)
	assert.True(t, issues[0].Dropped)
}

func TestNormalize_SharedCache(t *testing.T) {
	api := &fakeAPI{lists: map[int]*t4.List{7: colours()}}
	cache := NewListCache(api)
	n := NewNormalizer(api, cache, t.TempDir(), "en", nil)

	for i := 0; i < 3; i++ {
		_, issues := n.Normalize(context.Background(), buildRow("Colours", "blue", "Tag", "red"), newsType(), Target{})
		assert.Empty(t, issues)
	}
	assert.EqualValues(t, 1, api.listCalls.Load())
	assert.Equal(t, 1, cache.Len())
}

func TestListCache_Concurrent(t *testing.T) {
	api := &fakeAPI{lists: map[int]*t4.List{7: colours()}}
	cache := NewListCache(api)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l, err := cache.GetOrFetch(context.Background(), 7)
			assert.NoError(t, err)
			assert.Equal(t, 7, l.ID)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, cache.Len())
	assert.GreaterOrEqual(t, api.listCalls.Load(), int32(1))
}

func TestListCache_ErrorsAreNotCached(t *testing.T) {
	api := &fakeAPI{lists: map[int]*t4.List{}}
	cache := NewListCache(api)

	_, err := cache.GetOrFetch(context.Background(), 7)
	require.Error(t, err)

	api.lists[7] = colours()
	l, err := cache.GetOrFetch(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, l.Items, 3)
}
