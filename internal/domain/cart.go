package domain

import "time"

// CartRefreshEvent is the name of the signal emitted after a successful add
const CartRefreshEvent = "cart:refresh"

// LineItem is one entry of an add-to-cart request
type LineItem struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

// AddToCartRequest is the payload sent to the storefront cart endpoint
type AddToCartRequest struct {
	Items []LineItem `json:"items"`

	// CartToken is the shopper's cart cookie, forwarded so the items land
	// in their cart. Not part of the JSON body.
	CartToken string `json:"-"`
}

// CartLine is a line returned by the storefront after an add
type CartLine struct {
	ID        int64  `json:"id"`
	VariantID int64  `json:"variant_id"`
	Key       string `json:"key,omitempty"`
	Title     string `json:"title,omitempty"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

// CartAddResponse is the successful storefront response
type CartAddResponse struct {
	Items []CartLine `json:"items"`
}

// CartEvent notifies external listeners (cart badge, drawer) to refresh
type CartEvent struct {
	Name       string     `json:"name"`
	ModalID    string     `json:"modalId"`
	SessionID  string     `json:"sessionId"`
	Items      []LineItem `json:"items"`
	OccurredAt time.Time  `json:"occurredAt"`
}
