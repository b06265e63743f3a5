package labels

import "testing"

func TestFlatTableLookups(t *testing.T) {
	if got := Finance.Get("c1"); got != "Groceries 🍅🥛" {
		t.Fatalf("unexpected c1 label: %q", got)
	}
	if got := Finance.GetLower(KeySummary); got != "summary" {
		t.Fatalf("unexpected summary label: %q", got)
	}
	if Finance.IsCategory("cost 💵") {
		t.Fatalf("cost button must not count as a category")
	}
	if !Finance.IsCategory("groceries 🍅🥛") {
		t.Fatalf("groceries must count as a category")
	}
	if !Finance.IsCategory("other..📃") {
		t.Fatalf("the other button counts as a category")
	}
	if Finance.IsCategory("random text") {
		t.Fatalf("free text must not count as a category")
	}
}

func TestKeyboardLayout(t *testing.T) {
	kb := Finance.Keyboard()
	if len(kb) != 5 {
		t.Fatalf("expected 5 keyboard rows, got %d", len(kb))
	}
	if kb[3][0] != "Cost 💵" || kb[4][0] != "Summary" {
		t.Fatalf("unexpected bottom rows: %v %v", kb[3], kb[4])
	}
}

func TestByName(t *testing.T) {
	if _, ok := ByName("finance"); !ok {
		t.Fatalf("finance table missing")
	}
	if _, ok := ByName("time"); !ok {
		t.Fatalf("time table missing")
	}
	if _, ok := ByName("nope"); ok {
		t.Fatalf("unknown table resolved")
	}
}

func TestButtonText(t *testing.T) {
	if got := ButtonText(Food, "en"); got != "Food 🥘" {
		t.Fatalf("unexpected food label: %q", got)
	}
	if got := ButtonText(WithinVillage, "en"); got != "Produced within the village" {
		t.Fatalf("unexpected source label: %q", got)
	}
	// Unknown language falls back to English.
	if got := ButtonText(Fuel, "xx"); got != "Fuel ⛽" {
		t.Fatalf("unexpected fallback label: %q", got)
	}
	// Unknown tokens (free-text descriptions) pass through untouched.
	if got := ButtonText("wheat", "en"); got != "wheat" {
		t.Fatalf("unexpected passthrough: %q", got)
	}
	if got := ButtonText(Food, "hi"); got != "भोजन 🥘" {
		t.Fatalf("unexpected hindi label: %q", got)
	}
}

func TestCatalogShape(t *testing.T) {
	if !IsCategoryToken(Food) || IsCategoryToken(Vegetables) {
		t.Fatalf("category classification broken")
	}
	if !IsSubcategoryOf(Food, Rice) || IsSubcategoryOf(Fuel, Rice) {
		t.Fatalf("subcategory classification broken")
	}
	if !IsSource(WithinVillage) || IsSource("elsewhere") {
		t.Fatalf("source classification broken")
	}
	if !IsPriceBucket(Price50To100) || IsPriceBucket(PriceCustom) {
		t.Fatalf("price bucket classification broken")
	}
}
