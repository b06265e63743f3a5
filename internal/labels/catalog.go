package labels

// Selection-token vocabulary for the hierarchical menu.
const (
	Food      = "food"
	Household = "household"
	Fuel      = "fuel"

	Vegetables = "vegetables"
	Fruits     = "fruits"
	Meats      = "meats"
	Rice       = "rice"
	Dairy      = "dairy"

	Soap       = "soap"
	Clothes    = "clothes"
	Stationary = "stationary"
	Cosmetics  = "cosmetics"

	Petrol = "petrol"
	Gas    = "gas"
	Diesel = "diesel"

	WithinVillage  = "within"
	OutsideVillage = "outside"

	Price0To50    = "0-50"
	Price50To100  = "50-100"
	Price100To200 = "100-200"
	PriceCustom   = "custom"
)

// Categories in menu order.
var Categories = []string{Food, Household, Fuel}

// Subcategories maps a category token to its subcategory tokens, in menu order.
var Subcategories = map[string][]string{
	Food:      {Vegetables, Fruits, Meats, Rice, Dairy},
	Household: {Soap, Clothes, Stationary, Cosmetics},
	Fuel:      {Petrol, Gas, Diesel},
}

// Sources in menu order.
var Sources = []string{WithinVillage, OutsideVillage}

// PriceBuckets are the fixed range buckets, in menu order. PriceCustom is
// offered separately and leads to free-text entry.
var PriceBuckets = []string{Price0To50, Price50To100, Price100To200}

var emoji = map[string]string{
	Food:       "🥘",
	Household:  "🏠",
	Fuel:       "⛽",
	Vegetables: "🥔🍅",
	Fruits:     "🍌🍉",
	Meats:      "🍗🥚",
	Rice:       "🍚",
	Dairy:      "🐮🥛",
	Soap:       "🧼",
	Clothes:    "👚👖",
	Stationary: "📚📝",
	Cosmetics:  "💄",
	Petrol:     "⛽",
	Gas:        "⛽",
	Diesel:     "🛢️",
}

var translations = map[string]map[string]string{
	"en": {
		Food:      "Food",
		Household: "Household Items",
		Fuel:      "Fuel",

		Vegetables: "Vegetables",
		Fruits:     "Fruits",
		Meats:      "Meats",
		Rice:       "Rice",
		Dairy:      "Dairy Products",

		Soap:       "Soap",
		Clothes:    "Clothes",
		Stationary: "Stationary",
		Cosmetics:  "Cosmetics",

		Petrol: "Petrol",
		Gas:    "Gas",
		Diesel: "Diesel",

		WithinVillage:  "Produced within the village",
		OutsideVillage: "Produced outside the village",

		Price0To50:    "0-50",
		Price50To100:  "50-100",
		Price100To200: "100-200",
		PriceCustom:   "Custom",
	},
	"hi": {
		Food:      "भोजन",
		Household: "घरेलू सामान",
		Fuel:      "ईंधन",

		Vegetables: "सब्जियां",
		Fruits:     "फल",
		Meats:      "मांस",
		Rice:       "चावल",
		Dairy:      "दूध के उत्पाद",

		Soap:       "साबुन",
		Clothes:    "कपड़े",
		Stationary: "लेखन सामग्री",
		Cosmetics:  "सौंदर्य प्रसाधन",

		Petrol: "पेट्रोल",
		Gas:    "गैस",
		Diesel: "डीजल",

		WithinVillage:  "गांव के भीतर उत्पादित",
		OutsideVillage: "गांव के बाहर उत्पादित",

		Price0To50:    "0-50",
		Price50To100:  "50-100",
		Price100To200: "100-200",
		PriceCustom:   "अन्य",
	},
}

// ButtonText returns the display text for a token in the given language, with
// the token's emoji suffix when one exists. Unknown tokens come back verbatim
// so free-text descriptions survive translation lookups.
func ButtonText(key, lang string) string {
	table, ok := translations[lang]
	if !ok {
		table = translations["en"]
	}
	text, ok := table[key]
	if !ok {
		if text, ok = translations["en"][key]; !ok {
			return key
		}
	}
	if e := emoji[key]; e != "" {
		return text + " " + e
	}
	return text
}

// IsCategoryToken reports whether the token is a hierarchical menu category.
func IsCategoryToken(token string) bool {
	_, ok := Subcategories[token]
	return ok
}

// IsSubcategoryOf reports whether sub belongs to the given category.
func IsSubcategoryOf(category, sub string) bool {
	for _, s := range Subcategories[category] {
		if s == sub {
			return true
		}
	}
	return false
}

// IsSource reports whether the token is a produce-source selection.
func IsSource(token string) bool {
	return token == WithinVillage || token == OutsideVillage
}

// IsPriceBucket reports whether the token is one of the fixed range buckets.
func IsPriceBucket(token string) bool {
	for _, p := range PriceBuckets {
		if p == token {
			return true
		}
	}
	return false
}
