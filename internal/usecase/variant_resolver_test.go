package usecase

import (
	"testing"

	"github.com/giftguide/backend/internal/domain"
)

func strPtr(s string) *string { return &s }

func variant(id int64, price int64, available bool, opts ...string) domain.Variant {
	v := domain.Variant{ID: id, Price: price, Available: available}
	if len(opts) > 0 {
		v.Option1 = strPtr(opts[0])
	}
	if len(opts) > 1 {
		v.Option2 = strPtr(opts[1])
	}
	if len(opts) > 2 {
		v.Option3 = strPtr(opts[2])
	}
	return v
}

// teeProduct covers all six Size x Color combinations, all available
func teeProduct() *domain.Product {
	return &domain.Product{
		Title:         "Gift Tee",
		Description:   "<p>Soft cotton</p>",
		FeaturedImage: "//cdn.example.com/tee.jpg",
		Options: []domain.Option{
			{Name: "Size", Values: []string{"Small", "Medium", "Large"}},
			{Name: "Color", Values: []string{"Black", "White"}},
		},
		Variants: []domain.Variant{
			variant(101, 1999, true, "Small", "Black"),
			variant(102, 1999, true, "Small", "White"),
			variant(103, 1999, true, "Medium", "Black"),
			variant(104, 1999, true, "Medium", "White"),
			variant(105, 2199, true, "Large", "Black"),
			variant(106, 2199, true, "Large", "White"),
		},
	}
}

func singleProduct() *domain.Product {
	return &domain.Product{
		Title:         "Gift Card",
		FeaturedImage: "//cdn.example.com/card.jpg",
		Options:       []domain.Option{{Name: "Title", Values: []string{"Default Title"}}},
		Variants:      []domain.Variant{variant(7, 2500, true, "Default Title")},
	}
}

func TestResolveVariant(t *testing.T) {
	tee := teeProduct()

	tests := []struct {
		name       string
		selections []string
		variants   []domain.Variant
		wantID     int64
		wantFound  bool
	}{
		{
			name:       "exact match",
			selections: []string{"Medium", "Black"},
			variants:   tee.Variants,
			wantID:     103,
			wantFound:  true,
		},
		{
			name:       "last combination",
			selections: []string{"Large", "White"},
			variants:   tee.Variants,
			wantID:     106,
			wantFound:  true,
		},
		{
			name:       "case sensitive",
			selections: []string{"medium", "black"},
			variants:   tee.Variants,
			wantFound:  false,
		},
		{
			name:       "unknown value",
			selections: []string{"XL", "Black"},
			variants:   tee.Variants,
			wantFound:  false,
		},
		{
			name:       "missing combination",
			selections: []string{"Large", "White"},
			variants:   tee.Variants[:4],
			wantFound:  false,
		},
		{
			name:       "prefix selection matches first variant with that prefix",
			selections: []string{"Medium"},
			variants:   tee.Variants,
			wantID:     103,
			wantFound:  true,
		},
		{
			name:       "empty selections match first variant",
			selections: nil,
			variants:   tee.Variants,
			wantID:     101,
			wantFound:  true,
		},
		{
			name:       "single variant ignores selections",
			selections: []string{"Anything", "Goes"},
			variants:   singleProduct().Variants,
			wantID:     7,
			wantFound:  true,
		},
		{
			name:       "selection beyond third slot never matches",
			selections: []string{"Small", "Black", "Cotton", "Extra"},
			variants:   []domain.Variant{variant(1, 1, true, "Small", "Black", "Cotton"), variant(2, 1, true, "Large", "Black", "Cotton")},
			wantFound:  false,
		},
		{
			name:       "unset slot never matches a selection",
			selections: []string{"Small", "Black"},
			variants:   []domain.Variant{variant(1, 1, true, "Small"), variant(2, 1, true, "Large")},
			wantFound:  false,
		},
		{
			name:       "duplicate combination first wins",
			selections: []string{"Small"},
			variants:   []domain.Variant{variant(10, 1, true, "Small"), variant(11, 1, true, "Small")},
			wantID:     10,
			wantFound:  true,
		},
		{
			name:       "no variants",
			selections: []string{"Small"},
			variants:   nil,
			wantFound:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ResolveVariant(tt.selections, tt.variants)
			if found != tt.wantFound {
				t.Fatalf("found = %v, want %v", found, tt.wantFound)
			}
			if !found {
				if got != nil {
					t.Errorf("variant = %+v, want nil", got)
				}
				return
			}
			if got.ID != tt.wantID {
				t.Errorf("variant id = %d, want %d", got.ID, tt.wantID)
			}
		})
	}
}

func TestResolveVariant_Pure(t *testing.T) {
	tee := teeProduct()
	selections := []string{"Small", "White"}

	first, _ := ResolveVariant(selections, tee.Variants)
	second, _ := ResolveVariant(selections, tee.Variants)

	if first != second {
		t.Errorf("repeated resolution returned different variants: %p vs %p", first, second)
	}
	if selections[0] != "Small" || selections[1] != "White" {
		t.Errorf("selections mutated: %v", selections)
	}
}

func TestDeriveDisplay(t *testing.T) {
	money := DefaultMoneyFormatter()
	product := teeProduct()

	t.Run("matched and available", func(t *testing.T) {
		v := product.Variants[2]
		got := DeriveDisplay(domain.Display{}, product, &v, true, money)

		if got.Price != "$19.99" {
			t.Errorf("Price = %q, want $19.99", got.Price)
		}
		if got.ImageURL != product.FeaturedImage {
			t.Errorf("ImageURL = %q, want product image", got.ImageURL)
		}
		if got.VariantID != 103 {
			t.Errorf("VariantID = %d, want 103", got.VariantID)
		}
		if got.Button != (domain.ButtonState{Label: domain.LabelAddToCart}) {
			t.Errorf("Button = %+v, want enabled Add to Cart", got.Button)
		}
	})

	t.Run("variant image wins", func(t *testing.T) {
		v := product.Variants[0]
		v.FeaturedImage = &domain.ImageRef{Src: "//cdn.example.com/tee-black.jpg"}
		got := DeriveDisplay(domain.Display{ImageURL: "//old.jpg"}, product, &v, true, money)

		if got.ImageURL != "//cdn.example.com/tee-black.jpg" {
			t.Errorf("ImageURL = %q, want variant image", got.ImageURL)
		}
	})

	t.Run("matched but sold out", func(t *testing.T) {
		v := variant(200, 2199, false, "Large", "Black")
		got := DeriveDisplay(domain.Display{}, product, &v, true, money)

		if got.Price != "$21.99" {
			t.Errorf("Price = %q, want $21.99", got.Price)
		}
		if got.Button != (domain.ButtonState{Label: domain.LabelSoldOut, Disabled: true}) {
			t.Errorf("Button = %+v, want disabled Sold Out", got.Button)
		}
		if got.VariantID != 200 {
			t.Errorf("VariantID = %d, want 200", got.VariantID)
		}
	})

	t.Run("not found keeps previous price and image", func(t *testing.T) {
		prev := domain.Display{
			Price:     "$19.99",
			ImageURL:  "//cdn.example.com/prev.jpg",
			VariantID: 101,
			Button:    domain.ButtonState{Label: domain.LabelAddToCart},
		}
		got := DeriveDisplay(prev, product, nil, false, money)

		if got.Price != prev.Price || got.ImageURL != prev.ImageURL || got.VariantID != prev.VariantID {
			t.Errorf("display = %+v, want price/image/id unchanged from %+v", got, prev)
		}
		if got.Button != (domain.ButtonState{Label: domain.LabelUnavailable, Disabled: true}) {
			t.Errorf("Button = %+v, want disabled Unavailable", got.Button)
		}
	})
}
