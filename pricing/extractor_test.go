package pricing

import (
	"reflect"
	"testing"
)

const scenarioText = "Pricing Details:\n**Free**\nPrice: Free\nBest For: individuals\n**Pro**\nPrice: $20/mo\nKey Features:\n- Feature A\n- Feature B\nValue Rating: Good"

func TestExtractScenario(t *testing.T) {
	e := New()
	tiers := e.Extract(scenarioText)

	if len(tiers) != 2 {
		t.Fatalf("got %d tiers, want 2: %+v", len(tiers), tiers)
	}

	free := tiers[0]
	if free.Name != "Free" || free.Price != "Free" {
		t.Errorf("first tier = %q/%q, want Free/Free", free.Name, free.Price)
	}
	if free.Description != "individuals" {
		t.Errorf("free description = %q, want %q", free.Description, "individuals")
	}

	pro := tiers[1]
	if pro.Name != "Pro" || pro.Price != "$20/mo" {
		t.Errorf("second tier = %q/%q, want Pro/$20/mo", pro.Name, pro.Price)
	}
	if !reflect.DeepEqual(pro.Features, []string{"Feature A", "Feature B"}) {
		t.Errorf("pro features = %v", pro.Features)
	}
	if pro.ValueRating != RatingGood {
		t.Errorf("pro value rating = %q, want %q", pro.ValueRating, RatingGood)
	}
}

func TestExtractEmptyAndMissingSection(t *testing.T) {
	e := New()
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "whitespace", text: "  \n\t "},
		{name: "no pricing heading", text: "This tool does many things.\n**Pro** costs $20."},
		{name: "binary garbage", text: "\x00\xff\xfe***$$$***\n\x01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Extract(tt.text); len(got) != 0 {
				t.Errorf("got %d tiers, want 0: %+v", len(got), got)
			}
		})
	}
}

func TestExtractIdempotent(t *testing.T) {
	e := New()
	first := e.Extract(scenarioText)
	second := e.Extract(scenarioText)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestExtractLengthInvariant(t *testing.T) {
	e := New()
	text := "Pricing Plans:\n" +
		"**Basic**\nPrice: $5\n" +
		"**Standard**\nPrice: $10\n" +
		"**Pro**\nPrice: $20\n" +
		"**Ultra**\nPrice: $40\n" +
		"**Mega**\nPrice: $80\n" +
		"**Giga**\nPrice: $160\n"

	tiers := e.Extract(text)
	if len(tiers) != 4 {
		t.Fatalf("got %d tiers, want 4 (truncated)", len(tiers))
	}
	if tiers[0].Price != "$5" || tiers[3].Price != "$40" {
		t.Errorf("expected cheapest four tiers, got %+v", tiers)
	}
}

func TestExtractSortFreeFirst(t *testing.T) {
	e := New()
	text := "Pricing:\n**Enterprise**\nPrice: Custom\nBest For: big teams\n**Pro**\nPrice: $49/mo\n**Free**\nPrice: Free\nBest For: trials\n**Plus**\nPrice: $9/mo\n"

	tiers := e.Extract(text)
	if len(tiers) != 4 {
		t.Fatalf("got %d tiers, want 4", len(tiers))
	}
	if tiers[0].Price != PriceFree {
		t.Errorf("first tier price = %q, want Free", tiers[0].Price)
	}
	if tiers[1].Name != "Plus" || tiers[2].Name != "Pro" {
		t.Errorf("numeric tiers out of order: %+v", tiers)
	}
	if tiers[3].Name != "Enterprise" {
		t.Errorf("custom-priced tier should sort last: %+v", tiers)
	}
}

func TestExtractDeduplicates(t *testing.T) {
	e := New()
	text := "Pricing Details:\n**Pro**\nPrice: $20\n**Pro**\nPrice: $20\n**Pro (annual)**\nPrice: $200\n"

	tiers := e.Extract(text)
	if len(tiers) != 2 {
		t.Fatalf("got %d tiers, want 2: %+v", len(tiers), tiers)
	}
	if tiers[0].Name != "Pro" || tiers[0].Price != "$20" {
		t.Errorf("unexpected first tier: %+v", tiers[0])
	}
	// Trailing parenthetical stripped, so the annual plan keeps the same
	// name but a distinct price.
	if tiers[1].Name != "Pro" || tiers[1].Price != "$200" {
		t.Errorf("unexpected second tier: %+v", tiers[1])
	}
}

func TestExtractBoldLabelsAndRescan(t *testing.T) {
	e := New()
	text := "Pricing Information:\n**Starter (best value)**\n**Price:** $12/month\nKey Features:\n• **Fast** responses\n✓ Unlimited projects\n- ok\nLimits:\n- 5 seats\n"

	tiers := e.Extract(text)
	if len(tiers) != 1 {
		t.Fatalf("got %d tiers, want 1: %+v", len(tiers), tiers)
	}

	tier := tiers[0]
	if tier.Name != "Starter" {
		t.Errorf("name = %q, want Starter (parenthetical stripped)", tier.Name)
	}
	if tier.Price != "$12/month" {
		t.Errorf("price = %q, want $12/month", tier.Price)
	}
	// "ok" is under 4 characters and the Limits block is excluded.
	want := []string{"Fast responses", "Unlimited projects"}
	if !reflect.DeepEqual(tier.Features, want) {
		t.Errorf("features = %v, want %v", tier.Features, want)
	}
}

func TestExtractPriceRescanPrefersToken(t *testing.T) {
	// The label text does not look like a price, so the block is re-scanned
	// for the nearest dollar token.
	block := "Price: starts at only\nBilled $15/mo after trial"
	if got := extractPrice(block); got != "$15/mo" {
		t.Errorf("price = %q, want $15/mo", got)
	}
}

func TestExtractPriceDefaultsToCustom(t *testing.T) {
	if got := extractPrice("contact our sales team"); got != PriceCustom {
		t.Errorf("price = %q, want Custom", got)
	}
}

func TestFeatureCap(t *testing.T) {
	block := "Key Features:\n- one one\n- two two\n- three three\n- four four\n- five five\n- six six\n- seven seven\n"
	features := extractFeatures(block)
	if len(features) != maxFeatures {
		t.Errorf("got %d features, want %d", len(features), maxFeatures)
	}
}

func TestValueRatingVocabulary(t *testing.T) {
	tests := []struct {
		block string
		want  string
	}{
		{block: "Value Rating: Very Good", want: RatingVeryGood},
		{block: "Value Rating: **Excellent**", want: RatingExcellent},
		{block: "a fair deal overall", want: RatingFair},
		{block: "nothing qualitative here", want: ""},
	}

	for _, tt := range tests {
		if got := extractValueRating(tt.block); got != tt.want {
			t.Errorf("extractValueRating(%q) = %q, want %q", tt.block, got, tt.want)
		}
	}
}

func TestVocabularyFallback(t *testing.T) {
	e := New()
	// No bold headings at all; the vocabulary scanner takes over.
	text := "Pricing: the Free plan includes basics at $0. The Pro plan is $29/mo with extras. Enterprise has custom terms:\n- dedicated support\n"

	tiers := e.Extract(text)
	if len(tiers) < 2 {
		t.Fatalf("got %d tiers, want at least 2: %+v", len(tiers), tiers)
	}
	if tiers[0].Name != "Free" {
		t.Errorf("first tier = %q, want Free", tiers[0].Name)
	}

	foundPro := false
	for _, tier := range tiers {
		if tier.Name == "Pro" {
			foundPro = true
			if tier.Price != "$29/mo" {
				t.Errorf("pro price = %q, want $29/mo", tier.Price)
			}
		}
	}
	if !foundPro {
		t.Errorf("missing Pro tier: %+v", tiers)
	}
}

func TestVocabularyFallbackOnlyInsidePricingText(t *testing.T) {
	e := New()
	// Common tier names outside any pricing section must not produce tiers.
	text := "Our Pro users love the Free trial. Enterprise ready for $99."
	if got := e.Extract(text); len(got) != 0 {
		t.Errorf("got %d tiers without a pricing heading, want 0: %+v", len(got), got)
	}
}

func TestNoiseHeadingsDropped(t *testing.T) {
	e := New()
	text := "Pricing Details:\n**Why choose us**\nWe are great.\n**Pro**\nPrice: $10\n"

	tiers := e.Extract(text)
	if len(tiers) != 1 || tiers[0].Name != "Pro" {
		t.Errorf("expected only the Pro tier, got %+v", tiers)
	}
}

func TestPriceRank(t *testing.T) {
	tests := []struct {
		a, b string // a must rank before b
	}{
		{a: "Free", b: "$0"},
		{a: "$9/mo", b: "$20/mo"},
		{a: "$1,000", b: "Custom"},
		{a: "$20", b: "garbage"},
	}

	for _, tt := range tests {
		if priceRank(tt.a) >= priceRank(tt.b) {
			t.Errorf("priceRank(%q)=%v should be less than priceRank(%q)=%v",
				tt.a, priceRank(tt.a), tt.b, priceRank(tt.b))
		}
	}
}
