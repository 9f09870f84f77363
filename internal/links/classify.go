package links

import "github.com/Tiag8/bible-study-sub001/internal/model"

// Kind is the presentation type of a reference.
type Kind int

const (
	// KindReferences is a forward link the user authored.
	KindReferences Kind = iota
	// KindReferencedBy is the materialized reverse side of someone else's
	// forward link.
	KindReferencedBy
	// KindExternal is a link to an arbitrary http/https URL.
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindReferencedBy:
		return "referenced_by"
	case KindExternal:
		return "external"
	default:
		return "references"
	}
}

// Classification pairs a reference kind with its display color tokens and
// label. Colors come from a fixed three family palette: a light background
// shade, a border one step darker and a hover background variant.
type Classification struct {
	Kind  Kind   `json:"kind"`
	Color string `json:"color"`
	Label string `json:"label"`
}

const (
	colorReferences   = "background-green-50 border-green-200 hover:background-green-100"
	colorReferencedBy = "background-red-50 border-red-200 hover:background-red-100"
	colorExternal     = "background-blue-50 border-blue-200 hover:background-blue-100"

	labelReferences   = "Referência"
	labelReferencedBy = "Referenciado por"
	labelExternal     = "Link Externo"
)

// Classify maps a reference to its presentation type. An unrecognized link
// type falls back to the forward/green classification, never an error.
func Classify(ref *model.Reference) Classification {
	switch ref.LinkType {
	case model.LinkTypeExternal:
		return Classification{
			Kind:  KindExternal,
			Color: colorExternal,
			Label: labelExternal,
		}
	case model.LinkTypeInternal:
		if !ref.IsBidirectional {
			return Classification{
				Kind:  KindReferencedBy,
				Color: colorReferencedBy,
				Label: labelReferencedBy,
			}
		}
		fallthrough
	default:
		return Classification{
			Kind:  KindReferences,
			Color: colorReferences,
			Label: labelReferences,
		}
	}
}
