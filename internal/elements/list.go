// =============================================================================
// t4bulk - List Encoder
// =============================================================================
//
// Resolves selection cells (radio, multi-select, dropdown, checkbox,
// button) against the element's list.
//
// OUTPUT FORMAT:
//   Multi-select:  <listId>:<id>, <id>, ...
//   Other kinds:   <listId>:<id>;<listId>:<id>...
//
// =============================================================================

package elements

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cmsbulk/t4bulk/internal/t4"
)

var lowercaseLetter = regexp.MustCompile(`[a-z]`)

// ListEncoder turns option names or values into "<listId>:<itemId>"
// selections.
type ListEncoder struct {
	Lists *ListCache
}

// Encode resolves raw against the element's list. Several options may be
// given separated by "|". Values that already look encoded (for example
// "7:1" from an export) are passed through.
func (e *ListEncoder) Encode(ctx context.Context, raw string, el t4.ElementDefinition) (Result, error) {
	if raw == "" {
		return encoded(""), nil
	}
	if IsEncodedSelection(raw) {
		return encoded(raw), nil
	}

	if el.ListID == 0 {
		return Result{}, fmt.Errorf("element %q has no list", el.Name)
	}
	list, err := e.Lists.GetOrFetch(ctx, el.ListID)
	if err != nil {
		return Result{}, fmt.Errorf("loading list %d: %w", el.ListID, err)
	}

	var (
		ids      []int
		warnings []string
	)
	parts := strings.Split(strings.ToLower(raw), "|")
	for _, part := range parts {
		opt := strings.TrimSpace(part)
		if opt == "" {
			continue
		}
		item, ok := matchItem(list.Items, opt)
		if !ok {
			if len(parts) > 1 {
				warnings = append(warnings, fmt.Sprintf("couldn't add %q to content element %s", opt, el.Name))
			}
			continue
		}
		ids = append(ids, item.ID)
	}

	if len(ids) == 0 {
		return Result{}, fmt.Errorf("%w: %q in list %d", ErrNoListMatch, raw, el.ListID)
	}

	res := encoded(formatSelection(el.ListID, Kind(el.Type), ids))
	res.Warnings = warnings
	return res, nil
}

// IsEncodedSelection reports whether raw already has the "<listId>:<itemId>"
// shape, i.e. contains ':' and its first token has no lowercase letter.
func IsEncodedSelection(raw string) bool {
	tokens := strings.Split(raw, ":")
	return len(tokens) >= 2 && !lowercaseLetter.MatchString(tokens[0])
}

// matchItem returns the first item whose name or value equals opt, ignoring
// case. opt must already be lower-cased.
func matchItem(items []t4.ListItem, opt string) (t4.ListItem, bool) {
	for _, item := range items {
		if strings.ToLower(item.Name) == opt || strings.ToLower(item.Value) == opt {
			return item, true
		}
	}
	return t4.ListItem{}, false
}

// formatSelection writes the first id as "<listId>:<id>". Multi-select
// appends the rest as ", <id>"; other kinds append ";<listId>:<id>".
func formatSelection(listID int, kind Kind, ids []int) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(listID))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(ids[0]))

	for _, id := range ids[1:] {
		if kind == KindMultiSelect {
			b.WriteString(", ")
		} else {
			b.WriteByte(';')
			b.WriteString(strconv.Itoa(listID))
			b.WriteByte(':')
		}
		b.WriteString(strconv.Itoa(id))
	}
	return b.String()
}
