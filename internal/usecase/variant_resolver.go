package usecase

import (
	"github.com/giftguide/backend/internal/domain"
)

// maxOptionSlots is the number of positional option slots on a variant
const maxOptionSlots = 3

// ResolveVariant finds the variant whose positional option values equal the
// selections, compared exactly and case-sensitively. The first match in list
// order wins. A product with a single variant resolves to it whatever the
// selections are. The boolean is false when the combination is unavailable.
func ResolveVariant(selections []string, variants []domain.Variant) (*domain.Variant, bool) {
	for i := range variants {
		if matchesSelections(&variants[i], selections) {
			return &variants[i], true
		}
	}

	if len(variants) == 1 {
		return &variants[0], true
	}

	return nil, false
}

// matchesSelections reports whether every selection equals the variant's
// value in the same slot. An empty selection list matches any variant.
func matchesSelections(variant *domain.Variant, selections []string) bool {
	if len(selections) > maxOptionSlots {
		return false
	}
	for i, selected := range selections {
		value, ok := variant.OptionValue(i)
		if !ok || value != selected {
			return false
		}
	}
	return true
}

// DeriveDisplay computes the price, image and purchase action shown after a
// resolution. On NotFound only the button changes; the rest of prev stays.
func DeriveDisplay(prev domain.Display, product *domain.Product, variant *domain.Variant, found bool, money *MoneyFormatter) domain.Display {
	if !found || variant == nil {
		prev.Button = domain.ButtonState{Label: domain.LabelUnavailable, Disabled: true}
		return prev
	}

	display := domain.Display{
		Price:     money.Format(variant.Price),
		ImageURL:  product.FeaturedImage,
		VariantID: variant.ID,
	}
	if variant.FeaturedImage != nil && variant.FeaturedImage.Src != "" {
		display.ImageURL = variant.FeaturedImage.Src
	}

	if variant.Available {
		display.Button = domain.ButtonState{Label: domain.LabelAddToCart}
	} else {
		display.Button = domain.ButtonState{Label: domain.LabelSoldOut, Disabled: true}
	}

	return display
}
