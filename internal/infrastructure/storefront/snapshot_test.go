package storefront

import (
	"testing"

	"github.com/giftguide/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const teeSnapshot = `{
  "title": "Gift Tee",
  "description": "<p>Soft <strong>cotton</strong></p>",
  "featured_image": "//cdn.example.com/tee.jpg",
  "options": [
    {"name": "Size", "values": ["Small", "Medium", "Large"]},
    {"name": "Color", "values": ["Black", "White"]}
  ],
  "variants": [
    {"id": 101, "option1": "Small", "option2": "Black", "price": 1999, "available": true},
    {"id": 102, "option1": "Medium", "option2": "Black", "price": 1999, "available": true,
     "featured_image": {"src": "//cdn.example.com/tee-black.jpg"}},
    {"id": 103, "option1": "Large", "option2": "Black", "price": 2199, "available": false, "featured_image": null}
  ]
}`

const singleSnapshot = `{
  "title": "Gift Card",
  "description": "",
  "featured_image": "//cdn.example.com/card.jpg",
  "options": [{"name": "Title", "values": ["Default Title"]}],
  "variants": [{"id": 7, "option1": "Default Title", "option2": null, "option3": null, "price": 2500, "available": true}]
}`

func TestDecodeProduct_Valid(t *testing.T) {
	decoder := NewSnapshotDecoder()

	product, err := decoder.DecodeProduct([]byte(teeSnapshot))

	require.NoError(t, err)
	assert.Equal(t, "Gift Tee", product.Title)
	assert.Equal(t, "<p>Soft <strong>cotton</strong></p>", product.Description)
	require.Len(t, product.Options, 2)
	assert.Equal(t, []string{"Small", "Medium", "Large"}, product.Options[0].Values)
	require.Len(t, product.Variants, 3)
	assert.Nil(t, product.Variants[0].FeaturedImage)
	require.NotNil(t, product.Variants[1].FeaturedImage)
	assert.Equal(t, "//cdn.example.com/tee-black.jpg", product.Variants[1].FeaturedImage.Src)
	assert.Nil(t, product.Variants[2].FeaturedImage)
	assert.True(t, product.HasOptionControls())
}

func TestDecodeProduct_SingleSKU(t *testing.T) {
	decoder := NewSnapshotDecoder()

	product, err := decoder.DecodeProduct([]byte(singleSnapshot))

	require.NoError(t, err)
	assert.False(t, product.HasOptionControls())
	assert.Equal(t, int64(2500), product.Variants[0].Price)
}

func TestDecodeProduct_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: "  "},
		{name: "not json", raw: "product | json"},
		{name: "trailing data", raw: singleSnapshot + ` {}`},
		{name: "missing title", raw: `{"options":[{"name":"Title","values":["x"]}],"variants":[{"id":1,"price":1}]}`},
		{name: "no options", raw: `{"title":"t","options":[],"variants":[{"id":1,"price":1}]}`},
		{name: "too many options", raw: `{"title":"t","options":[{"name":"a","values":["1"]},{"name":"b","values":["1"]},{"name":"c","values":["1"]},{"name":"d","values":["1"]}],"variants":[{"id":1,"price":1}]}`},
		{name: "option without values", raw: `{"title":"t","options":[{"name":"Size","values":[]}],"variants":[{"id":1,"price":1}]}`},
		{name: "no variants", raw: `{"title":"t","options":[{"name":"Title","values":["x"]}],"variants":[]}`},
		{name: "zero variant id", raw: `{"title":"t","options":[{"name":"Title","values":["x"]}],"variants":[{"id":0,"price":1}]}`},
		{name: "negative price", raw: `{"title":"t","options":[{"name":"Title","values":["x"]}],"variants":[{"id":1,"price":-5}]}`},
		{name: "price as string", raw: `{"title":"t","options":[{"name":"Title","values":["x"]}],"variants":[{"id":1,"price":"19.99"}]}`},
		{name: "slot gap", raw: `{"title":"t","options":[{"name":"Size","values":["S"]}],"variants":[{"id":1,"option2":"S","price":1}]}`},
		{name: "bad image", raw: `{"title":"t","options":[{"name":"Title","values":["x"]}],"variants":[{"id":1,"price":1,"featured_image":5}]}`},
	}

	decoder := NewSnapshotDecoder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := decoder.DecodeProduct([]byte(tt.raw))
			assert.Nil(t, product)
			assert.ErrorIs(t, err, domain.ErrInvalidSnapshot)
		})
	}
}
