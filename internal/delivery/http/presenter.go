package http

import (
	"html/template"
	"log"
	"strconv"
	"strings"

	"github.com/giftguide/backend/internal/domain"
)

// Page element ids the modal markup exposes
const (
	targetModal       = "gg-modal"
	targetImage       = "modal-img"
	targetTitle       = "modal-title"
	targetPrice       = "modal-price"
	targetDescription = "modal-description"
	targetVariants    = "modal-variants"
	targetVariantID   = "modal-variant-id"
	targetButton      = "gg-atc-btn"
	targetError       = "gg-error-msg"
	targetBody        = "body"
)

// DOMPatch is one property assignment the page script applies to an element
type DOMPatch struct {
	Target   string      `json:"target"`
	Property string      `json:"property"`
	Value    interface{} `json:"value"`
}

// ModalResponse is the body of every modal endpoint
type ModalResponse struct {
	View    domain.ModalView `json:"view"`
	Patches []DOMPatch       `json:"patches"`
}

// NewModalResponse pairs a view with the patches that render it
func NewModalResponse(view domain.ModalView) ModalResponse {
	return ModalResponse{View: view, Patches: RenderPatches(view)}
}

// RenderPatches translates a modal view into element updates. A closed
// modal only toggles visibility and scroll; an open one rewrites every field.
func RenderPatches(view domain.ModalView) []DOMPatch {
	overflow := ""
	if view.ScrollLocked {
		overflow = "hidden"
	}

	patches := []DOMPatch{
		{Target: targetModal, Property: "classList.is-open", Value: view.IsOpen()},
		{Target: targetBody, Property: "style.overflow", Value: overflow},
	}

	if !view.IsOpen() || view.SessionID == "" {
		return patches
	}

	display := view.Display
	patches = append(patches,
		DOMPatch{Target: targetTitle, Property: "textContent", Value: view.Title},
		DOMPatch{Target: targetDescription, Property: "innerHTML", Value: view.DescriptionHTML},
		DOMPatch{Target: targetImage, Property: "src", Value: display.ImageURL},
		DOMPatch{Target: targetImage, Property: "alt", Value: view.ImageAlt},
		DOMPatch{Target: targetVariants, Property: "innerHTML", Value: renderOptionControls(view.Options)},
		DOMPatch{Target: targetPrice, Property: "textContent", Value: display.Price},
		DOMPatch{Target: targetVariantID, Property: "value", Value: variantIDValue(display.VariantID)},
		DOMPatch{Target: targetButton, Property: "textContent", Value: display.Button.Label},
		DOMPatch{Target: targetButton, Property: "disabled", Value: display.Button.Disabled},
	)

	if view.Error != "" {
		patches = append(patches,
			DOMPatch{Target: targetError, Property: "textContent", Value: view.Error},
			DOMPatch{Target: targetError, Property: "style.display", Value: "block"},
		)
	} else {
		patches = append(patches, DOMPatch{Target: targetError, Property: "style.display", Value: "none"})
	}

	return patches
}

// optionControlsTmpl renders one labelled select per option
var optionControlsTmpl = template.Must(template.New("option_controls").Parse(
	`{{range .}}<div class="gg-variant-group"><label>{{.Name}}</label>` +
		`<select data-index="{{.Index}}">{{$selected := .Selected}}` +
		`{{range .Values}}<option value="{{.}}"{{if eq . $selected}} selected{{end}}>{{.}}</option>{{end}}` +
		`</select></div>{{end}}`,
))

func renderOptionControls(controls []domain.OptionControl) string {
	if len(controls) == 0 {
		return ""
	}
	var b strings.Builder
	if err := optionControlsTmpl.Execute(&b, controls); err != nil {
		log.Printf("[HTTP] failed to render option controls: %v", err)
		return ""
	}
	return b.String()
}

func variantIDValue(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
