package pricing

import (
	"regexp"
	"strings"
)

// Primitive per-field extractors shared by both tier block parsers. Each field
// is resolved by an ordered list of strategies; the first match wins.

var (
	rePriceToken  = regexp.MustCompile(`\$\d[\d,]*(?:\.\d+)?(?:\s*/\s*[A-Za-z]+)?`)
	rePriceRescue = regexp.MustCompile(`(?i)\$\d[\d,]*(?:\.\d+)?(?:\s*/\s*[A-Za-z]+)?|\bfree\b|\bcustom\b`)

	reBestFor       = regexp.MustCompile(`(?i)best\s+for\s*:\**\s*([^\n]+)`)
	reFeaturesLabel = regexp.MustCompile(`(?i)key\s+features\s*:`)
	reFeatureStop   = regexp.MustCompile(`(?i)\b(?:limits|best\s+for|price)\s*:`)
	reLabelItem     = regexp.MustCompile(`(?i)^(?:key\s+features|limits|best\s+for|price)\b`)

	reValueLabel = regexp.MustCompile(`(?i)value\s+rating\s*:\**\s*([^\n]+)`)
	reValueWord  = regexp.MustCompile(`(?i)\b(excellent|very\s+good|good|fair|poor)\b`)

	emphasisReplacer = strings.NewReplacer("**", "", "*", "", "__", "")
)

// priceStrategy is one entry in the ordered price extraction cascade.
type priceStrategy struct {
	name  string
	re    *regexp.Regexp
	group int
}

var priceStrategies = []priceStrategy{
	{name: "bold label", re: regexp.MustCompile(`(?i)\*\*\s*price\s*:?\s*\*\*\s*:?\s*([^\n]+)`), group: 1},
	{name: "plain label", re: regexp.MustCompile(`(?i)price\s*:\s*([^\n]+)`), group: 1},
	{name: "dollar amount", re: rePriceToken, group: 0},
	{name: "free or custom", re: regexp.MustCompile(`(?i)\b(free|custom)\b`), group: 1},
}

func stripEmphasis(s string) string {
	return strings.TrimSpace(emphasisReplacer.Replace(s))
}

// extractPrice resolves the tier price through the strategy cascade. When the
// winning strategy yields label text that is not itself a price token, the
// block is re-scanned for the nearest dollar/Free/Custom token. Anything
// unparsable collapses to "Custom".
func extractPrice(block string) string {
	raw := ""
	for _, st := range priceStrategies {
		if m := st.re.FindStringSubmatch(block); m != nil {
			raw = stripEmphasis(m[st.group])
			break
		}
	}
	if raw == "" {
		return PriceCustom
	}
	if price, ok := canonicalPrice(raw); ok {
		return price
	}
	if price, ok := scanPriceToken(block); ok {
		return price
	}
	return PriceCustom
}

// scanPriceToken finds the first dollar/Free/Custom token in the text.
func scanPriceToken(text string) (string, bool) {
	if m := rePriceRescue.FindString(text); m != "" {
		return canonicalPrice(m)
	}
	return "", false
}

// canonicalPrice normalizes a candidate into a dollar token, "Free", or
// "Custom". Reports false when the candidate does not start with any of them.
func canonicalPrice(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(raw, "$"):
		if tok := rePriceToken.FindString(raw); tok != "" {
			return tok, true
		}
		return raw, true
	case strings.HasPrefix(lower, "free"):
		return PriceFree, true
	case strings.HasPrefix(lower, "custom"):
		return PriceCustom, true
	}
	return "", false
}

// extractDescription returns the "Best For:" one-liner, or "".
func extractDescription(block string) string {
	if m := reBestFor.FindStringSubmatch(block); m != nil {
		return stripEmphasis(m[1])
	}
	return ""
}

// extractFeatures returns up to maxFeatures bullet items under a
// "Key Features:" label, stopping before the next field label.
func extractFeatures(block string) []string {
	loc := reFeaturesLabel.FindStringIndex(block)
	if loc == nil {
		return nil
	}
	rest := block[loc[1]:]
	if stop := reFeatureStop.FindStringIndex(rest); stop != nil {
		rest = rest[:stop[0]]
	}
	return bulletItems(rest)
}

// bulletItems splits text into bullet-point entries on leading glyphs.
func bulletItems(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "•") &&
			!strings.HasPrefix(line, "✓") && !strings.HasPrefix(line, "*") {
			continue
		}
		item := stripEmphasis(strings.TrimLeft(line, "-•✓* \t"))
		if len(item) < 4 || reLabelItem.MatchString(item) {
			continue
		}
		items = append(items, item)
		if len(items) == maxFeatures {
			break
		}
	}
	return items
}

// extractValueRating returns one of the fixed rating vocabulary words, or "".
func extractValueRating(block string) string {
	if m := reValueLabel.FindStringSubmatch(block); m != nil {
		if w := reValueWord.FindString(m[1]); w != "" {
			return canonicalRating(w)
		}
		return ""
	}
	if w := reValueWord.FindString(block); w != "" {
		return canonicalRating(w)
	}
	return ""
}

func canonicalRating(word string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(word)), " ")
	switch normalized {
	case "excellent":
		return RatingExcellent
	case "very good":
		return RatingVeryGood
	case "good":
		return RatingGood
	case "fair":
		return RatingFair
	case "poor":
		return RatingPoor
	}
	return ""
}
