package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmsbulk/t4bulk/internal/t4"
	"github.com/cmsbulk/t4bulk/internal/types"
)

func row(pairs ...string) *types.Row {
	r := types.NewRow(4)
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i], types.Cell{Value: pairs[i+1]})
	}
	return r
}

func TestValidateRow_Update(t *testing.T) {
	res := ValidateRow(row(
		types.ColumnContentTypeID, "12",
		types.ColumnSectionID, " 100 ",
		types.ColumnContentID, "901",
		types.ColumnPublishDate, "2024-01-15",
		types.ColumnReviewDate, "1700000000000",
	))

	require.True(t, res.IsValid, "%v", res.Errors)
	assert.Equal(t, Target{
		ContentTypeID: 12,
		SectionID:     100,
		ContentID:     901,
		PublishDate:   "2024-01-15T00:00:00.000Z",
		ReviewDate:    "2023-11-14T22:13:20.000Z",
	}, res.Target)
	assert.False(t, res.Target.IsCreate())
}

func TestValidateRow_DateTimes(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2024-01-15 10:30", "2024-01-15T10:30:00.000Z"},
		{"2024-01-15T10:30", "2024-01-15T10:30:00.000Z"},
		{"2024-01-15T10:30:45", "2024-01-15T10:30:45.000Z"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			res := ValidateRow(row(
				types.ColumnContentTypeID, "12",
				types.ColumnSectionID, "100",
				types.ColumnPublishDate, tt.raw,
				types.ColumnExpiryDate, tt.raw,
			))
			require.True(t, res.IsValid, "%v", res.Errors)
			assert.Equal(t, tt.want, res.Target.PublishDate)
			assert.Equal(t, tt.want, res.Target.ExpiryDate)
		})
	}
}

func TestValidateRow_Create(t *testing.T) {
	for _, contentID := range []string{"", "0"} {
		res := ValidateRow(row(
			types.ColumnContentTypeID, "12.0",
			types.ColumnSectionID, "100",
			types.ColumnContentID, contentID,
		))
		require.True(t, res.IsValid)
		assert.True(t, res.Target.IsCreate())
		assert.Equal(t, 12, res.Target.ContentTypeID)
	}
}

func TestValidateRow_Errors(t *testing.T) {
	tests := []struct {
		name  string
		row   *types.Row
		field string
		rule  string
	}{
		{"missing section", row(types.ColumnContentTypeID, "12"), types.ColumnSectionID, RuleRequired},
		{"text section", row(types.ColumnContentTypeID, "12", types.ColumnSectionID, "news"), types.ColumnSectionID, RuleInteger},
		{"zero section", row(types.ColumnContentTypeID, "12", types.ColumnSectionID, "0"), types.ColumnSectionID, RuleInteger},
		{"missing content type", row(types.ColumnSectionID, "100"), types.ColumnContentTypeID, RuleRequired},
		{"fractional content type", row(types.ColumnContentTypeID, "1.5", types.ColumnSectionID, "100"), types.ColumnContentTypeID, RuleInteger},
		{"text content id", row(types.ColumnContentTypeID, "12", types.ColumnSectionID, "100", types.ColumnContentID, "abc"), types.ColumnContentID, RuleInteger},
		{"bad date", row(types.ColumnContentTypeID, "12", types.ColumnSectionID, "100", types.ColumnExpiryDate, "soon"), types.ColumnExpiryDate, RuleDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateRow(tt.row)
			assert.False(t, res.IsValid)
			first := res.FirstError()
			require.NotNil(t, first)
			assert.Equal(t, tt.field, first.Field)
			assert.Equal(t, tt.rule, first.Rule)
			assert.Equal(t, 4, first.RowNumber)
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Severity: SeverityError, Field: "Section ID", Value: "x", Message: "Invalid Section ID", RowNumber: 3}
	assert.Equal(t, "[ERROR] Row 3, Field 'Section ID': Invalid Section ID (value: 'x')", err.Error())
}

func TestCheckLengths(t *testing.T) {
	ct := &t4.ContentType{Elements: []t4.ElementDefinition{
		{ID: 1, Name: "Title", Type: 1, MaxSize: 5},
		{ID: 2, Name: "Body", Type: 2},
		{ID: 3, Name: "Tags", Type: 8, MaxSize: 2},
	}}

	problems := CheckLengths(row(
		types.ColumnSectionID, "100000000",
		"Title", "Héllo world",
		"Body", strings.Repeat("x", 1000),
		"Tags", "red|blue",
	), ct)

	require.Len(t, problems, 1)
	assert.Equal(t, "Title", problems[0].Field)
	assert.Equal(t, SeverityWarning, problems[0].Severity)
	assert.Equal(t, RuleMaxLength, problems[0].Rule)
}
