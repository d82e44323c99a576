package installer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmsbulk/t4bulk/internal/logger"
	"github.com/cmsbulk/t4bulk/internal/t4"
	"github.com/cmsbulk/t4bulk/internal/types"
	"github.com/cmsbulk/t4bulk/pkg/utils"
)

// fakeCMS records calls and answers from canned values.
type fakeCMS struct {
	mu sync.Mutex

	createID      int
	createErrText string
	modifyErrText map[int]string
	approveErr    error

	creates  []t4.CreateRequest
	modifies map[int]t4.ModifyRequest
	approved []int
	links    []t4.ServerSideLink
}

func newFakeCMS() *fakeCMS {
	return &fakeCMS{createID: -55, modifies: map[int]t4.ModifyRequest{}}
}

func (f *fakeCMS) GetContentType(_ context.Context, id int) (*t4.ContentType, error) {
	if id != 12 {
		return nil, fmt.Errorf("content type %d not found", id)
	}
	return &t4.ContentType{ID: 12, Name: "News", Elements: []t4.ElementDefinition{
		{ID: 1, Name: "Title", Type: 1},
		{ID: 2, Name: "Colour", Type: 9, ListID: 7},
		{ID: 3, Name: "Related", Type: 14},
	}}, nil
}

func (f *fakeCMS) CreateContent(_ context.Context, _ int, req t4.CreateRequest) (*t4.CreateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, req)
	return &t4.CreateResult{ID: f.createID, ErrorText: f.createErrText}, nil
}

func (f *fakeCMS) ModifyContent(_ context.Context, contentID, _ int, req t4.ModifyRequest, _ string) (*t4.ModifyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modifies[contentID] = req
	return &t4.ModifyResult{ID: contentID, Version: 2, ErrorText: f.modifyErrText[contentID]}, nil
}

func (f *fakeCMS) ApproveContent(_ context.Context, contentID, _ int) (*t4.ApproveResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.approved = append(f.approved, contentID)
	if f.approveErr != nil {
		return nil, f.approveErr
	}
	return &t4.ApproveResult{}, nil
}

func (f *fakeCMS) GetList(context.Context, int) (*t4.List, error) {
	return &t4.List{ID: 7, Items: []t4.ListItem{{ID: 1, Name: "Red", Value: "red"}}}, nil
}

func (f *fakeCMS) Upload(context.Context, t4.UploadRequest) (*t4.UploadResult, error) {
	return nil, errors.New("no uploads in tests")
}

func (f *fakeCMS) GetContentWithoutSection(_ context.Context, id int, _ string) (*t4.Content, error) {
	return &t4.Content{ID: id, Name: "Target"}, nil
}

func (f *fakeCMS) GetSection(_ context.Context, id int) (*t4.Section, error) {
	return &t4.Section{ID: id, Name: "Section"}, nil
}

func (f *fakeCMS) SetServerSideLink(_ context.Context, link t4.ServerSideLink) (*t4.ServerSideLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.links = append(f.links, link)
	link.ID = 300 + len(f.links)
	return &link, nil
}

func makeRow(n int, pairs ...string) *types.Row {
	r := types.NewRow(n)
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i], types.Cell{Value: pairs[i+1], DataType: types.DefaultDataType})
	}
	return r
}

func threeRowSheet() *types.Sheet {
	return &types.Sheet{Name: "News", Rows: []*types.Row{
		makeRow(3, types.ColumnContentTypeID, "12", types.ColumnSectionID, "", "Title", "No section"),
		makeRow(4, types.ColumnContentTypeID, "12", types.ColumnSectionID, "100", "Title", "New item", "Colour", "red"),
		makeRow(5, types.ColumnContentTypeID, "12", types.ColumnSectionID, "100", types.ColumnContentID, "900",
			types.ColumnPublishDate, "2024-01-15", "Title", "Updated"),
	}}
}

func TestProcessSheet_EndToEnd(t *testing.T) {
	cms := newFakeCMS()
	in := New(cms, Options{BatchSize: 20})

	summary := in.ProcessSheet(context.Background(), threeRowSheet())

	assert.Equal(t, 2, summary.Success)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, in.Totals().Success())
	assert.Equal(t, 1, in.Totals().Errors())

	assert.Equal(t, []int{55}, cms.approved)
	require.Len(t, cms.creates, 1)
	assert.Equal(t, 12, cms.creates[0].ContentTypeID)
	assert.Empty(t, cms.creates[0].Elements)
	assert.Equal(t, t4.StatusNew, cms.creates[0].Status)
	assert.Zero(t, cms.creates[0].Status)

	// Created item is modified with the id returned by create.
	created, ok := cms.modifies[-55]
	require.True(t, ok)
	assert.Equal(t, "New item", created.Elements["Title#1:1"])
	assert.Equal(t, "7:1", created.Elements["Colour#2:9"])

	updated, ok := cms.modifies[900]
	require.True(t, ok)
	assert.Equal(t, "Updated", updated.Elements["Title#1:1"])
	assert.Equal(t, "2024-01-15T00:00:00.000Z", updated.PublishDate)

	invalid := summary.Outcomes[0]
	assert.Equal(t, StatusError, invalid.Status)
	assert.Equal(t, types.ColumnSectionID, invalid.Field)
	assert.Equal(t, "Invalid Section ID", invalid.Message)

	assert.Equal(t, ActionCreated, summary.Outcomes[1].Action)
	assert.Equal(t, 55, summary.Outcomes[1].ContentID)
	assert.True(t, summary.Outcomes[1].Approved)
	assert.Equal(t, ActionUpdated, summary.Outcomes[2].Action)
}

func TestProcessRow_InvalidRowsMakeNoCalls(t *testing.T) {
	cms := newFakeCMS()
	in := New(cms, Options{})

	rows := []*types.Row{
		makeRow(3, types.ColumnSectionID, "100"),
		makeRow(4, types.ColumnContentTypeID, "abc", types.ColumnSectionID, "100"),
		makeRow(5, types.ColumnContentTypeID, "12", types.ColumnSectionID, "x"),
	}
	for _, row := range rows {
		o := in.ProcessRow(context.Background(), "s", row)
		assert.Equal(t, StatusError, o.Status)
	}

	assert.Empty(t, cms.creates)
	assert.Empty(t, cms.modifies)
	assert.Equal(t, 3, in.Totals().Errors())
}

func TestProcessRow_CreateErrors(t *testing.T) {
	t.Run("error text", func(t *testing.T) {
		cms := newFakeCMS()
		cms.createErrText = "no permission"
		o := New(cms, Options{}).ProcessRow(context.Background(), "s", makeRow(3, types.ColumnContentTypeID, "12", types.ColumnSectionID, "100"))

		assert.Equal(t, StatusError, o.Status)
		assert.Contains(t, o.Message, "no permission")
		assert.Empty(t, cms.modifies)
	})

	t.Run("missing id", func(t *testing.T) {
		cms := newFakeCMS()
		cms.createID = 0
		o := New(cms, Options{}).ProcessRow(context.Background(), "s", makeRow(3, types.ColumnContentTypeID, "12", types.ColumnSectionID, "100"))

		assert.Equal(t, StatusError, o.Status)
		assert.Contains(t, o.Message, "no ID returned")
	})

	t.Run("modify error text", func(t *testing.T) {
		cms := newFakeCMS()
		cms.modifyErrText = map[int]string{-55: "locked"}
		o := New(cms, Options{}).ProcessRow(context.Background(), "s", makeRow(3, types.ColumnContentTypeID, "12", types.ColumnSectionID, "100"))

		assert.Equal(t, StatusError, o.Status)
		assert.Contains(t, o.Message, "locked")
		assert.Empty(t, cms.approved)
	})
}

func TestProcessRow_ApprovalFailureIsSoft(t *testing.T) {
	var buf bytes.Buffer
	cms := newFakeCMS()
	cms.approveErr = errors.New("workflow error")
	in := New(cms, Options{Logger: logger.New("info", &buf)})

	o := in.ProcessRow(context.Background(), "s", makeRow(3, types.ColumnContentTypeID, "12", types.ColumnSectionID, "100"))

	assert.Equal(t, StatusSuccess, o.Status)
	assert.False(t, o.Approved)
	assert.Equal(t, []int{55}, cms.approved)
	assert.Contains(t, buf.String(), "workflow error")
}

func TestProcessRow_PositiveIDSkipsApproval(t *testing.T) {
	cms := newFakeCMS()
	cms.createID = 77
	o := New(cms, Options{}).ProcessRow(context.Background(), "s", makeRow(3, types.ColumnContentTypeID, "12", types.ColumnSectionID, "100"))

	assert.Equal(t, StatusSuccess, o.Status)
	assert.Empty(t, cms.approved)
	assert.Equal(t, 77, o.ContentID)
}

func TestProcessRow_LinksStartFromAbsoluteID(t *testing.T) {
	cms := newFakeCMS()
	o := New(cms, Options{}).ProcessRow(context.Background(), "s", makeRow(3,
		types.ColumnContentTypeID, "12", types.ColumnSectionID, "100", "Related", "200,8"))

	require.Equal(t, StatusSuccess, o.Status)
	require.Len(t, cms.links, 1)
	assert.Equal(t, 55, cms.links[0].FromContent)
	assert.Equal(t, 100, cms.links[0].FromSection)
	assert.Equal(t, `<t4 sslink_id="301" type="sslink" />`, cms.modifies[-55].Elements["Related#3:14"])
}

func TestProcessRow_ColumnErrorsDoNotFailRow(t *testing.T) {
	cms := newFakeCMS()
	o := New(cms, Options{}).ProcessRow(context.Background(), "s", makeRow(3,
		types.ColumnContentTypeID, "12", types.ColumnSectionID, "100", types.ColumnContentID, "900",
		"Title", "ok", "Colour", "purple", "Missing", "x"))

	assert.Equal(t, StatusSuccess, o.Status)
	assert.Len(t, o.Issues, 2)
	assert.Equal(t, map[string]any{"Title#1:1": "ok"}, map[string]any(cms.modifies[900].Elements))
}

type sheets map[string]*types.Sheet

func (s sheets) Sheet(name string) (*types.Sheet, error) {
	sheet, ok := s[name]
	if !ok {
		return nil, errors.New("sheet not found")
	}
	return sheet, nil
}

func TestRun_ContinuesPastBadSheets(t *testing.T) {
	cms := newFakeCMS()
	in := New(cms, Options{})

	summary, err := in.Run(context.Background(), sheets{"News": threeRowSheet()}, []string{"Missing", "News"})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Success)
	assert.Equal(t, 1, summary.Errors)
	require.Len(t, summary.SheetErrors, 1)
	assert.Equal(t, "Missing", summary.SheetErrors[0].Sheet)
	require.Len(t, summary.Sheets, 1)

	entries := summary.ErrorLogEntries("book.xlsx")
	require.Len(t, entries, 2)
	assert.Equal(t, "sheet", entries[0].ErrorType)
	assert.Equal(t, "validation", entries[1].ErrorType)
	assert.Equal(t, 3, entries[1].RowNumber)

	rendered := summary.Render()
	assert.Contains(t, rendered, "Final Summary")
	assert.Contains(t, summary.Sheets[0].Render(), `Sheet "News" Summary`)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := New(newFakeCMS(), Options{})
	summary, err := in.Run(ctx, sheets{"News": threeRowSheet()}, []string{"News"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, summary.Sheets)
}

func TestProcessSheet_CancelledRowsStillGetOutcomes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := New(newFakeCMS(), Options{BatchSize: 1})
	summary := in.ProcessSheet(ctx, threeRowSheet())

	require.Len(t, summary.Outcomes, 3)
	assert.Equal(t, 3, summary.Errors)
	for _, o := range summary.Outcomes {
		assert.True(t, strings.HasPrefix(o.Message, "not processed"))
	}
}

func TestErrorLogEntries_CarryInvalidValue(t *testing.T) {
	in := New(newFakeCMS(), Options{})
	sheet := &types.Sheet{Name: "News", Rows: []*types.Row{
		makeRow(3, types.ColumnContentTypeID, "12", types.ColumnSectionID, "abc"),
	}}

	summary, err := in.Run(context.Background(), sheets{"News": sheet}, []string{"News"})
	require.NoError(t, err)
	require.Len(t, summary.Sheets[0].Outcomes, 1)
	assert.Equal(t, "abc", summary.Sheets[0].Outcomes[0].Value)

	entries := summary.ErrorLogEntries("book.xlsx")
	require.Len(t, entries, 1)
	assert.Equal(t, types.ColumnSectionID, entries[0].FieldName)
	assert.Equal(t, "abc", entries[0].FieldValue)

	path, err := utils.WriteErrorLog(entries, t.TempDir())
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Value:          abc")
}
