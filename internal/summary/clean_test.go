package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"expensebot/internal/labels"
)

func TestClean(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Groceries 🍅🥛", "groceries"},
		{"Fun 🏝️🍹🍰", "fun"},
		{"House 🛖📱💡", "house"},
		{"🔥 -fighting", "fighting"},
		{"Cost 💵", "cost"},
		{"भोजन 🥘", "भोजन"},
		{"  Plain  ", "plain"},
		{"wheat", "wheat"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Clean(c.in), "Clean(%q)", c.in)
	}
}

func TestFlatResolver(t *testing.T) {
	resolve := FlatResolver(labels.Finance)

	label, ok := resolve("groceries")
	assert.True(t, ok)
	assert.Equal(t, labels.Finance.Get("c1"), label)

	// The sanitized report row and a fresh Clean of the label must agree.
	label, ok = resolve(Clean(labels.Finance.Get("c4")))
	assert.True(t, ok)
	assert.Equal(t, labels.Finance.Get("c4"), label)

	_, ok = resolve("shrugs")
	assert.False(t, ok)
	_, ok = resolve("")
	assert.False(t, ok)
}

func TestCatalogResolver(t *testing.T) {
	resolve := CatalogResolver("en")

	label, ok := resolve("food")
	assert.True(t, ok)
	assert.Equal(t, labels.ButtonText(labels.Food, "en"), label)

	_, ok = resolve("wheat")
	assert.False(t, ok)

	hindi := CatalogResolver("hi")
	label, ok = hindi(Clean(labels.ButtonText(labels.Fuel, "hi")))
	assert.True(t, ok)
	assert.Equal(t, labels.ButtonText(labels.Fuel, "hi"), label)
}
