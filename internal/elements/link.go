// =============================================================================
// t4bulk - Server-Side Link Encoder
// =============================================================================
//
// Turns "<sectionId>[,<contentId>]" cells into server-side link tags.
//
// FLOW:
//   1. Existing link tags are passed through unchanged
//   2. The target name is looked up (placeholder text on failure)
//   3. The link is created in the CMS and its tag returned
//
// Creation failures never fail the row: the value becomes an HTML comment.
//
// =============================================================================

package elements

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cmsbulk/t4bulk/internal/t4"
)

// linkMarker identifies an already-encoded server-side link.
const linkMarker = `type="sslink"`

// LinkService is the part of the CMS API used to create server-side links.
type LinkService interface {
	GetContentWithoutSection(ctx context.Context, id int, lang string) (*t4.Content, error)
	GetSection(ctx context.Context, id int) (*t4.Section, error)
	SetServerSideLink(ctx context.Context, link t4.ServerSideLink) (*t4.ServerSideLink, error)
}

// Target is the content item a row writes to. Links created while encoding
// the row start from it.
type Target struct {
	SectionID int
	ContentID int
}

// LinkEncoder turns "<sectionId>,<contentId>" cells into server-side link
// tags, creating the link in the CMS.
type LinkEncoder struct {
	Links    LinkService
	Language string
}

// Encode never fails. Creation problems produce a Fallback whose value is
// an HTML comment describing the failure.
func (e *LinkEncoder) Encode(ctx context.Context, raw string, from Target) Result {
	if strings.Contains(raw, linkMarker) {
		return encoded(raw)
	}
	// Tags written by hand may use other quoting or attribute order.
	if strings.Contains(raw, "<") {
		if _, err := LinkID(raw); !errors.Is(err, errNoLinkTag) {
			if err != nil {
				return fallback(raw, err.Error())
			}
			return encoded(raw)
		}
	}
	if raw == "" {
		return encoded("")
	}

	toSection, toContent := parseLinkTarget(raw)
	if toSection == 0 {
		return fallback("", fmt.Sprintf("%q is not a section reference", raw))
	}

	var warnings []string
	name, err := e.targetName(ctx, toSection, toContent)
	if err != nil {
		warnings = append(warnings, "could not fetch name for link, using default text")
		if toContent != 0 {
			name = fmt.Sprintf("Content %d", toContent)
		} else {
			name = fmt.Sprintf("Section %d", toSection)
		}
	}

	link, err := e.Links.SetServerSideLink(ctx, t4.ServerSideLink{
		Active:             true,
		Attributes:         nil,
		FromSection:        from.SectionID,
		FromContent:        from.ContentID,
		ToSection:          toSection,
		ToContent:          toContent,
		Language:           e.Language,
		LinkText:           name,
		UseDefaultLinkText: true,
	})
	if err == nil && (link == nil || link.ID == 0) {
		err = fmt.Errorf("failed to create link for content %d", from.ContentID)
	}
	if err != nil {
		res := fallback(linkFailure(err), fmt.Sprintf("creating server-side link: %v", err))
		res.Warnings = warnings
		return res
	}

	res := encoded(LinkTag(link.ID))
	res.Warnings = warnings
	return res
}

func (e *LinkEncoder) targetName(ctx context.Context, section, content int) (string, error) {
	if content != 0 {
		c, err := e.Links.GetContentWithoutSection(ctx, content, e.Language)
		if err != nil {
			return "", err
		}
		return c.Name, nil
	}
	s, err := e.Links.GetSection(ctx, section)
	if err != nil {
		return "", err
	}
	return s.Name, nil
}

// parseLinkTarget reads "<sectionId>[,<contentId>]". Unparseable parts are 0.
func parseLinkTarget(raw string) (section, content int) {
	parts := strings.Split(raw, ",")
	section, _ = strconv.Atoi(strings.TrimSpace(parts[0]))
	if len(parts) > 1 {
		content, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	}
	return section, content
}

// LinkTag returns the markup that references a server-side link.
func LinkTag(id int) string {
	return fmt.Sprintf(`<t4 sslink_id="%d" type="sslink" />`, id)
}

func linkFailure(err error) string {
	// "--" would end the comment early.
	msg := strings.ReplaceAll(err.Error(), "--", "- -")
	return fmt.Sprintf("<!-- Failed to create server-side link: %s -->", msg)
}

var errNoLinkTag = errors.New("no server-side link tag")

// LinkID extracts the link id from a server-side link tag.
func LinkID(fragment string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return 0, fmt.Errorf("parsing link fragment: %w", err)
	}

	sel := doc.Find(`t4[type="sslink"]`).First()
	if sel.Length() == 0 {
		return 0, errNoLinkTag
	}
	val, ok := sel.Attr("sslink_id")
	if !ok {
		return 0, errNoLinkTag
	}
	id, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return 0, fmt.Errorf("invalid sslink_id %q: %w", val, err)
	}
	return id, nil
}
