package storefront

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/giftguide/backend/internal/domain"
	"github.com/go-playground/validator/v10"
)

// SnapshotDecoder turns the JSON embedded in a product card into a
// validated domain.Product
type SnapshotDecoder struct {
	validate *validator.Validate
}

// NewSnapshotDecoder creates a decoder
func NewSnapshotDecoder() *SnapshotDecoder {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateVariantSlots, domain.Variant{})
	return &SnapshotDecoder{validate: v}
}

// DecodeProduct parses and validates a snapshot. Every failure wraps
// domain.ErrInvalidSnapshot so callers can fail closed.
func (d *SnapshotDecoder) DecodeProduct(raw []byte) (*domain.Product, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty snapshot", domain.ErrInvalidSnapshot)
	}

	var product domain.Product
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&product); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSnapshot, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after snapshot", domain.ErrInvalidSnapshot)
	}

	if err := d.validate.Struct(&product); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidSnapshot, describeValidation(err))
	}

	return &product, nil
}

// validateVariantSlots rejects variants with a gap in their option slots
func validateVariantSlots(sl validator.StructLevel) {
	v := sl.Current().Interface().(domain.Variant)
	if v.Option1 == nil && (v.Option2 != nil || v.Option3 != nil) {
		sl.ReportError(v.Option2, "Option2", "option2", "slotgap", "")
	}
	if v.Option2 == nil && v.Option3 != nil {
		sl.ReportError(v.Option3, "Option3", "option3", "slotgap", "")
	}
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
