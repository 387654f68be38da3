package storefront

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/giftguide/backend/internal/domain"
)

// Card markup hooks shared with the theme
const (
	CardSelector     = ".gg-card"
	SnapshotSelector = ".gg-product-json"
	HandleAttribute  = "data-product-handle"
)

// CardExtractor finds product cards in collection markup and decodes their
// embedded snapshots
type CardExtractor struct {
	decoder domain.ProductDecoder
}

// NewCardExtractor creates an extractor backed by the given decoder
func NewCardExtractor(decoder domain.ProductDecoder) *CardExtractor {
	return &CardExtractor{decoder: decoder}
}

// ExtractCards returns every card in document order. Cards whose snapshot
// is missing or invalid come back disabled with the reason attached.
func (e *CardExtractor) ExtractCards(r io.Reader) ([]domain.Card, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse card markup: %w", err)
	}

	cards := []domain.Card{}
	doc.Find(CardSelector).Each(func(i int, sel *goquery.Selection) {
		card := domain.Card{Index: i}
		if handle, ok := sel.Attr(HandleAttribute); ok {
			card.Handle = strings.TrimSpace(handle)
		}

		script := sel.Find(SnapshotSelector).First()
		if script.Length() == 0 {
			card.Disabled = true
			card.Error = "product snapshot missing"
			cards = append(cards, card)
			return
		}

		product, err := e.decoder.DecodeProduct([]byte(script.Text()))
		if err != nil {
			log.Printf("[Storefront] card %d disabled: %v", i, err)
			card.Disabled = true
			card.Error = err.Error()
			cards = append(cards, card)
			return
		}

		card.Product = product
		cards = append(cards, card)
	})

	return cards, nil
}
