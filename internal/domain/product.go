package domain

import (
	"encoding/json"
	"fmt"
)

// DefaultOptionName is the option name the storefront gives single-SKU products
const DefaultOptionName = "Title"

// Product is the snapshot embedded in a product card.
// Description is trusted HTML rendered as-is by the page.
type Product struct {
	Title         string    `json:"title" validate:"required"`
	Description   string    `json:"description"`
	FeaturedImage string    `json:"featured_image"`
	Options       []Option  `json:"options" validate:"required,min=1,max=3,dive"`
	Variants      []Variant `json:"variants" validate:"required,min=1,dive"`
}

// Option is a named axis of customization. Its position in Product.Options
// selects the positional slot (option1, option2, option3) on a Variant.
type Option struct {
	Name   string   `json:"name" validate:"required"`
	Values []string `json:"values" validate:"required,min=1"`
}

// Variant is a single purchasable SKU
type Variant struct {
	ID            int64     `json:"id" validate:"gt=0"`
	Option1       *string   `json:"option1"`
	Option2       *string   `json:"option2"`
	Option3       *string   `json:"option3"`
	Price         int64     `json:"price" validate:"gte=0"` // minor currency units
	Available     bool      `json:"available"`
	FeaturedImage *ImageRef `json:"featured_image,omitempty"`
}

// OptionValue returns the value in the given zero-based positional slot
func (v *Variant) OptionValue(index int) (string, bool) {
	var slot *string
	switch index {
	case 0:
		slot = v.Option1
	case 1:
		slot = v.Option2
	case 2:
		slot = v.Option3
	}
	if slot == nil {
		return "", false
	}
	return *slot, true
}

// HasOptionControls reports whether the modal renders option selectors.
// Single-SKU products carry one variant and the default "Title" option.
func (p *Product) HasOptionControls() bool {
	return len(p.Variants) > 1 || (len(p.Options) > 0 && p.Options[0].Name != DefaultOptionName)
}

// ImageRef is an image reference that decodes from either a bare URL
// string or an object with a "src" field.
type ImageRef struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// UnmarshalJSON accepts "url" and {"src": "url"} forms
func (r *ImageRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.Src = s
		return nil
	}

	type plain ImageRef
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("image must be a URL or an object with src: %w", err)
	}
	*r = ImageRef(obj)
	return nil
}

// Card is a product card found in collection markup
type Card struct {
	Index    int      `json:"index"`
	Handle   string   `json:"handle,omitempty"`
	Product  *Product `json:"product,omitempty"`
	Disabled bool     `json:"disabled"`
	Error    string   `json:"error,omitempty"`
}
