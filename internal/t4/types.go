// =============================================================================
// t4bulk - API Types
// =============================================================================
//
// Request and response bodies of the CMS REST API.
//
// =============================================================================

package t4

// Profile is the authenticated user.
type Profile struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ContentType is a content type schema.
type ContentType struct {
	ID       int                 `json:"id"`
	Name     string              `json:"name"`
	Elements []ElementDefinition `json:"contentTypeElements"`
}

// Element returns the element whose name matches exactly, or nil.
func (ct *ContentType) Element(name string) *ElementDefinition {
	for i := range ct.Elements {
		if ct.Elements[i].Name == name {
			return &ct.Elements[i]
		}
	}
	return nil
}

// ElementDefinition is one element of a content type.
type ElementDefinition struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Type    int    `json:"type"`
	ListID  int    `json:"listId,omitempty"`
	MaxSize int    `json:"maxSize,omitempty"`
}

// List is an enumerated list used by selection elements.
type List struct {
	ID    int        `json:"id"`
	Name  string     `json:"name"`
	Items []ListItem `json:"items"`
}

// ListItem is one option of a List.
type ListItem struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Section is a hierarchy node.
type Section struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ParentID int    `json:"parentId,omitempty"`
}

// Content is a content item as returned by the API.
type Content struct {
	ID            int            `json:"id"`
	Name          string         `json:"name"`
	ContentTypeID int            `json:"contentTypeID"`
	Status        int            `json:"status"`
	Elements      map[string]any `json:"elements,omitempty"`
}

// Content status codes.
const (
	StatusApproved = 0
	StatusPending  = 1
	StatusInactive = 2
)

// StatusNew is sent when creating an item. It is the approved code on the
// wire, but the CMS may still create a draft and return a negative id.
const StatusNew = StatusApproved

// CreateRequest is the body of a create-content call.
type CreateRequest struct {
	Elements      map[string]any `json:"elements"`
	ContentTypeID int            `json:"contentTypeID"`
	Language      string         `json:"language"`
	Status        int            `json:"status"`
	PublishDate   string         `json:"publishDate,omitempty"`
	ExpiryDate    string         `json:"expiryDate,omitempty"`
	ReviewDate    string         `json:"reviewDate,omitempty"`
}

// CreateResult is the response of a create-content call. A negative ID
// means the item was created as a draft and still needs approval.
type CreateResult struct {
	ID        int    `json:"id"`
	ErrorText string `json:"errorText,omitempty"`
}

// ModifyRequest is the body of a modify-content call.
type ModifyRequest struct {
	Elements    map[string]any `json:"elements"`
	PublishDate string         `json:"publishDate,omitempty"`
	ExpiryDate  string         `json:"expiryDate,omitempty"`
	ReviewDate  string         `json:"reviewDate,omitempty"`
}

// ModifyResult is the response of a modify-content call.
type ModifyResult struct {
	ID        int    `json:"id"`
	Version   any    `json:"version,omitempty"`
	ErrorText string `json:"errorText,omitempty"`
}

// ApproveResult is the response of an approve call.
type ApproveResult struct {
	ErrorText string `json:"errorText,omitempty"`
}

// UploadRequest describes a media file to add to the media library.
type UploadRequest struct {
	// File is the local path of the file to send.
	File string
	// Filename is the name the CMS should store.
	Filename string
	// ElementID is the media element the file is uploaded for.
	ElementID int
}

// UploadResult identifies an uploaded file awaiting attachment.
type UploadResult struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// ServerSideLink is a CMS-managed link between two sections or content items.
type ServerSideLink struct {
	ID                 int     `json:"id,omitempty"`
	Active             bool    `json:"active"`
	Attributes         *string `json:"attributes"`
	FromSection        int     `json:"fromSection"`
	FromContent        int     `json:"fromContent"`
	ToSection          int     `json:"toSection"`
	ToContent          int     `json:"toContent"`
	Language           string  `json:"language"`
	LinkText           string  `json:"linkText"`
	UseDefaultLinkText bool    `json:"useDefaultLinkText"`
}
