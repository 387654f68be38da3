package usecase

import (
	"strings"

	"github.com/giftguide/backend/internal/domain"
)

// Option values that trigger the bonus item when selected together
const (
	bonusColorValue = "black"
	bonusSizeValue  = "medium"
)

// BundleItems returns the bonus line item to append to a submission.
// The match is on raw option value labels in any slot, ignoring case; it
// does not check which option a value belongs to. A zero bonus id disables it.
func BundleItems(selections []string, bonusVariantID int64) []domain.LineItem {
	if bonusVariantID == 0 {
		return nil
	}

	var hasColor, hasSize bool
	for _, selected := range selections {
		switch strings.ToLower(selected) {
		case bonusColorValue:
			hasColor = true
		case bonusSizeValue:
			hasSize = true
		}
	}

	if !hasColor || !hasSize {
		return nil
	}

	return []domain.LineItem{{ID: bonusVariantID, Quantity: 1}}
}

// BuildLineItems assembles the add-to-cart items for a resolved variant
func BuildLineItems(variantID int64, selections []string, bonusVariantID int64) []domain.LineItem {
	items := []domain.LineItem{{ID: variantID, Quantity: 1}}
	return append(items, BundleItems(selections, bonusVariantID)...)
}
