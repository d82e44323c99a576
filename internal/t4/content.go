// =============================================================================
// t4bulk - Content API
// =============================================================================
//
// Content types, content items, sections, lists and server-side links.
//
// =============================================================================

package t4

import (
	"context"
	"fmt"
	"net/http"
)

// GetContentType fetches a content type schema.
func (c *Client) GetContentType(ctx context.Context, id int) (*ContentType, error) {
	var ct ContentType
	if err := c.getJSON(ctx, fmt.Sprintf("contentType/%d", id), &ct); err != nil {
		return nil, err
	}
	return &ct, nil
}

// CreateContent creates a content item in a section.
func (c *Client) CreateContent(ctx context.Context, sectionID int, req CreateRequest) (*CreateResult, error) {
	if req.Language == "" {
		req.Language = c.language
	}
	if req.Elements == nil {
		req.Elements = map[string]any{}
	}

	var res CreateResult
	path := fmt.Sprintf("content/%d/%s", sectionID, req.Language)
	if err := c.doJSON(ctx, http.MethodPost, path, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ModifyContent updates the elements and dates of a content item.
// An empty lang uses the client's language.
func (c *Client) ModifyContent(ctx context.Context, contentID, sectionID int, req ModifyRequest, lang string) (*ModifyResult, error) {
	if lang == "" {
		lang = c.language
	}
	if req.Elements == nil {
		req.Elements = map[string]any{}
	}

	var res ModifyResult
	path := fmt.Sprintf("content/%d/%d/%s", sectionID, contentID, lang)
	if err := c.doJSON(ctx, http.MethodPut, path, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ApproveContent approves a pending content item.
func (c *Client) ApproveContent(ctx context.Context, contentID, sectionID int) (*ApproveResult, error) {
	var res ApproveResult
	path := fmt.Sprintf("content/%d/%d/%s/approve", sectionID, contentID, c.language)
	if err := c.doJSON(ctx, http.MethodPut, path, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetContentWithoutSection fetches a content item by id alone.
func (c *Client) GetContentWithoutSection(ctx context.Context, id int, lang string) (*Content, error) {
	if lang == "" {
		lang = c.language
	}
	var content Content
	if err := c.getJSON(ctx, fmt.Sprintf("content/%d/%s", id, lang), &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// GetSection fetches a hierarchy node.
func (c *Client) GetSection(ctx context.Context, id int) (*Section, error) {
	var s Section
	if err := c.getJSON(ctx, fmt.Sprintf("hierarchy/%d/%s", id, c.language), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetList fetches an enumerated list with its items.
func (c *Client) GetList(ctx context.Context, id int) (*List, error) {
	var l List
	if err := c.getJSON(ctx, fmt.Sprintf("list/%d", id), &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// SetServerSideLink creates (ID zero) or updates a server-side link and
// returns the stored link.
func (c *Client) SetServerSideLink(ctx context.Context, link ServerSideLink) (*ServerSideLink, error) {
	if link.Language == "" {
		link.Language = c.language
	}
	var res ServerSideLink
	if err := c.doJSON(ctx, http.MethodPost, "serverSideLink", link, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
