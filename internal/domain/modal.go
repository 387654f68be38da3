package domain

import "fmt"

// ModalState is the lifecycle state of a modal instance
type ModalState int

const (
	ModalClosed ModalState = iota
	ModalOpen
	ModalSubmitting
)

func (s ModalState) String() string {
	switch s {
	case ModalClosed:
		return "closed"
	case ModalOpen:
		return "open"
	case ModalSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("ModalState(%d)", int(s))
	}
}

// MarshalText renders the state as its lowercase name
func (s ModalState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Purchase button labels
const (
	LabelAddToCart   = "Add to Cart"
	LabelSoldOut     = "Sold Out"
	LabelUnavailable = "Unavailable"
	LabelAdding      = "Adding..."
	LabelAdded       = "Added!"
)

// ButtonState is the label and enabled state of the purchase action
type ButtonState struct {
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// Display is the state derived from the last variant resolution
type Display struct {
	Price     string      `json:"price"`
	ImageURL  string      `json:"imageUrl"`
	VariantID int64       `json:"variantId,omitempty"`
	Button    ButtonState `json:"button"`
}

// OptionControl is one rendered option selector
type OptionControl struct {
	Index    int      `json:"index"`
	Name     string   `json:"name"`
	Values   []string `json:"values"`
	Selected string   `json:"selected"`
}

// ModalView is a point-in-time snapshot of a modal instance
type ModalView struct {
	ModalID         string          `json:"modalId"`
	SessionID       string          `json:"sessionId,omitempty"`
	State           ModalState      `json:"state"`
	ScrollLocked    bool            `json:"scrollLocked"`
	Title           string          `json:"title,omitempty"`
	DescriptionHTML string          `json:"descriptionHtml,omitempty"`
	ImageAlt        string          `json:"imageAlt,omitempty"`
	Options         []OptionControl `json:"options,omitempty"`
	Display         Display         `json:"display"`
	Error           string          `json:"error,omitempty"`
}

// IsOpen reports whether the modal is visible
func (v ModalView) IsOpen() bool {
	return v.State != ModalClosed
}

// ModalEventType names a UI event delivered to a modal
type ModalEventType string

const (
	EventOpen         ModalEventType = "open"
	EventSelect       ModalEventType = "select"
	EventSubmit       ModalEventType = "submit"
	EventClose        ModalEventType = "close"
	EventOverlayClick ModalEventType = "overlay_click"
	EventKeyDown      ModalEventType = "keydown"
)

// KeyEscape is the key name that dismisses an open modal
const KeyEscape = "Escape"

// ModalEvent is a UI event. Only the fields relevant to Type are read.
type ModalEvent struct {
	Type      ModalEventType `json:"type" binding:"required"`
	Product   *Product       `json:"-"`
	Index     int            `json:"index"`
	Value     string         `json:"value"`
	Key       string         `json:"key"`
	CartToken string         `json:"-"`
}
