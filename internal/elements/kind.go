// =============================================================================
// t4bulk - Element Kinds
// =============================================================================
//
// Element kinds as the CMS numbers them, and the closed set of encoder
// classes they map to.
//
// WIRE KEY:
//   <elementName>#<elementId>:<kind>
//
// =============================================================================

package elements

import (
	"fmt"

	"github.com/cmsbulk/t4bulk/internal/t4"
)

// Kind is the element type code used on the wire.
type Kind int

// Element kinds with special encoding. Every other code is treated as text.
const (
	KindDate           Kind = 5
	KindRadio          Kind = 6
	KindMultiSelect    Kind = 8
	KindDropdown       Kind = 9
	KindCheckbox       Kind = 10
	KindMedia          Kind = 11
	KindServerSideLink Kind = 14
	KindButton         Kind = 15
)

// Class groups kinds that share an encoder.
type Class int

const (
	ClassText Class = iota
	ClassDate
	ClassMedia
	ClassList
	ClassLink
)

// Class maps a kind to its encoder class.
func (k Kind) Class() Class {
	switch k {
	case KindDate:
		return ClassDate
	case KindMedia:
		return ClassMedia
	case KindRadio, KindMultiSelect, KindDropdown, KindCheckbox, KindButton:
		return ClassList
	case KindServerSideLink:
		return ClassLink
	default:
		return ClassText
	}
}

// String returns the label written to the type row of import templates.
func (k Kind) String() string {
	switch k {
	case KindDate:
		return "Date"
	case KindRadio:
		return "Radio Button"
	case KindMultiSelect:
		return "Multiple Select"
	case KindDropdown:
		return "Select Box"
	case KindCheckbox:
		return "Check Box"
	case KindMedia:
		return "Image"
	case KindServerSideLink:
		return "Server Side Link"
	case KindButton:
		return "Button"
	default:
		return "Plain Text"
	}
}

func (c Class) String() string {
	switch c {
	case ClassDate:
		return "date"
	case ClassMedia:
		return "media"
	case ClassList:
		return "list"
	case ClassLink:
		return "link"
	default:
		return "text"
	}
}

// WireKey builds the element map key "<name>#<id>:<kind>".
func WireKey(el t4.ElementDefinition) string {
	return fmt.Sprintf("%s#%d:%d", el.Name, el.ID, el.Type)
}
