// =============================================================================
// t4bulk - Row Normalizer
// =============================================================================
//
// This package converts spreadsheet rows into the element map of a
// content item.
//
// The Normalizer walks the columns of a row, finds the matching element of
// the content type and hands the cell to the encoder for that element's
// kind. A column that cannot be encoded is dropped (or replaced by a
// fallback value) and reported as an Issue. It never fails the row.
//
// =============================================================================

package elements

import (
	"context"
	"fmt"

	"github.com/cmsbulk/t4bulk/internal/logger"
	"github.com/cmsbulk/t4bulk/internal/t4"
	"github.com/cmsbulk/t4bulk/internal/types"
)

// API is the CMS surface used while encoding a row.
type API interface {
	ListFetcher
	Uploader
	LinkService
}

// Elements maps wire keys to encoded values.
type Elements map[string]any

// Issue is a problem with a single column.
type Issue struct {
	Column string
	// Dropped is true when the column is missing from the element map.
	Dropped bool
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Column, i.Message)
}

// Normalizer builds element maps. One Normalizer serves a whole run; its
// list cache is shared by all rows.
type Normalizer struct {
	lists *ListEncoder
	media *MediaEncoder
	links *LinkEncoder
	log   *logger.Logger
}

// NewNormalizer wires the encoders to the API. mediaDir is where media file
// names are resolved.
func NewNormalizer(api API, cache *ListCache, mediaDir, language string, log *logger.Logger) *Normalizer {
	if cache == nil {
		cache = NewListCache(api)
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Normalizer{
		lists: &ListEncoder{Lists: cache},
		media: &MediaEncoder{Dir: mediaDir, Uploader: api},
		links: &LinkEncoder{Links: api, Language: language},
		log:   log,
	}
}

// Normalize encodes every element column of row. Reserved and empty columns
// are ignored. target is the content item that links start from.
func (n *Normalizer) Normalize(ctx context.Context, row *types.Row, schema *t4.ContentType, target Target) (Elements, []Issue) {
	out := make(Elements)
	var issues []Issue

	report := func(column string, dropped bool, format string, args ...any) {
		issue := Issue{Column: column, Dropped: dropped, Message: fmt.Sprintf(format, args...)}
		issues = append(issues, issue)
		n.log.Warnf("row %d: %s", row.Number, issue)
	}

	for _, column := range row.Columns {
		if types.IsReserved(column) {
			continue
		}
		raw := row.Value(column)
		if raw == "" {
			continue
		}

		el := schema.Element(column)
		if el == nil {
			report(column, true, "could not find element %q in content type", column)
			continue
		}

		key := WireKey(*el)
		kind := Kind(el.Type)
		n.log.Debugf("row %d: processing %q as %s (type %d)", row.Number, column, kind.Class(), el.Type)

		res, err := n.encode(ctx, raw, *el, kind, target)
		if err != nil {
			report(column, true, "%v", err)
			continue
		}
		for _, w := range res.Warnings {
			report(column, false, "%s", w)
		}

		switch res.Outcome {
		case Skipped:
			report(column, true, "%s", res.Note)
			continue
		case Fallback:
			report(column, false, "%s", res.Note)
		case Encoded:
		}
		out[key] = res.Value
	}

	return out, issues
}

// =============================================================================
// ENCODER DISPATCH
// =============================================================================

func (n *Normalizer) encode(ctx context.Context, raw string, el t4.ElementDefinition, kind Kind, target Target) (Result, error) {
	switch kind.Class() {
	case ClassDate:
		return EncodeDate(raw), nil
	case ClassMedia:
		return n.media.Encode(ctx, raw, el), nil
	case ClassList:
		return n.lists.Encode(ctx, raw, el)
	case ClassLink:
		return n.links.Encode(ctx, raw, target), nil
	case ClassText:
		return encoded(raw), nil
	default:
		return Result{}, fmt.Errorf("no encoder for class %s", kind.Class())
	}
}
