package pricing

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	reSectionPrimary  = regexp.MustCompile(`(?i)pricing\s+details\s*:`)
	reSectionFallback = regexp.MustCompile(`(?i)pricing(?:\s+information|\s+plans)?\s*:`)

	reBoldSpan      = regexp.MustCompile(`\*\*([^*\n]+?)\*\*`)
	reTrailingParen = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	reFieldLabel    = regexp.MustCompile(`(?i)^(?:price|key\s+features|limits|best\s+for|value\s+rating)$`)
	reDollarValue   = regexp.MustCompile(`\$(\d[\d,]*(?:\.\d+)?)`)
)

// Bold spans longer than this are treated as emphasized prose, not tier names.
const maxTierNameLen = 48

// TierBlockParser turns located pricing text into candidate tiers. Two
// implementations exist: a structured parser keyed on bold tier headings, and
// a vocabulary scanner used only when the structured pass finds nothing.
type TierBlockParser interface {
	Parse(section string) []Tier
}

// Extractor parses a capabilities text blob into at most four pricing tiers.
// It holds no state; Extract is pure and idempotent for a given input.
type Extractor struct {
	structured TierBlockParser
	fallback   TierBlockParser
}

// New creates a new Extractor instance.
func New() *Extractor {
	return &Extractor{
		structured: &structuredBlockParser{},
		fallback:   &vocabularyScanParser{},
	}
}

// Extract locates a pricing section in the text and parses its tier blocks.
// Malformed or absent input degrades to an empty result, never an error.
func (e *Extractor) Extract(text string) []Tier {
	if strings.TrimSpace(text) == "" {
		return []Tier{}
	}

	section, ok := locateSection(text)
	if !ok {
		return []Tier{}
	}

	tiers := e.structured.Parse(section)
	if len(tiers) == 0 {
		tiers = e.fallback.Parse(section)
	}

	return finalize(tiers)
}

// locateSection finds the pricing heading and returns everything after it.
func locateSection(text string) (string, bool) {
	if loc := reSectionPrimary.FindStringIndex(text); loc != nil {
		return text[loc[1]:], true
	}
	if loc := reSectionFallback.FindStringIndex(text); loc != nil {
		return text[loc[1]:], true
	}
	return "", false
}

// structuredBlockParser segments the pricing text on bold tier headings and
// runs the field extractor cascade over each block.
type structuredBlockParser struct{}

func (p *structuredBlockParser) Parse(section string) []Tier {
	type heading struct {
		name  string
		start int // index of the opening marker
		end   int // index just past the closing marker
	}

	var headings []heading
	for _, m := range reBoldSpan.FindAllStringSubmatchIndex(section, -1) {
		inner := strings.TrimSpace(section[m[2]:m[3]])
		if inner == "" || len(inner) > maxTierNameLen {
			continue
		}
		// Bold field labels ("**Price:**") are not tier headings.
		if strings.Contains(inner, ":") || reFieldLabel.MatchString(inner) {
			continue
		}
		// A tier heading sits alone on its line; bold emphasis inside prose
		// ("the **fastest** model") must not start a new block.
		if !aloneOnLine(section, m[0], m[1]) {
			continue
		}
		headings = append(headings, heading{name: inner, start: m[0], end: m[1]})
	}

	var tiers []Tier
	for i, h := range headings {
		blockEnd := len(section)
		if i+1 < len(headings) {
			blockEnd = headings[i+1].start
		}
		block := section[h.end:blockEnd]

		tier := Tier{
			Name:        strings.TrimSpace(reTrailingParen.ReplaceAllString(h.name, "")),
			Price:       extractPrice(block),
			Description: extractDescription(block),
			Features:    extractFeatures(block),
			ValueRating: extractValueRating(block),
		}
		if keepTier(tier) {
			tiers = append(tiers, tier)
		}
	}
	return tiers
}

// aloneOnLine reports whether the span [start, end) has only whitespace
// around it on its own line.
func aloneOnLine(text string, start, end int) bool {
	lineStart := strings.LastIndexByte(text[:start], '\n') + 1
	if strings.TrimSpace(text[lineStart:start]) != "" {
		return false
	}
	lineEnd := strings.IndexByte(text[end:], '\n')
	if lineEnd == -1 {
		lineEnd = len(text)
	} else {
		lineEnd += end
	}
	return strings.TrimSpace(text[end:lineEnd]) == ""
}

// keepTier drops noise headings that produced no extractable data.
func keepTier(t Tier) bool {
	if t.Name == "" {
		return false
	}
	return t.Price != PriceCustom || t.Description != "" || len(t.Features) > 0
}

// vocabularyScanParser scans for a fixed ordered vocabulary of common tier
// names; used only when the structured pass produced zero tiers.
type vocabularyScanParser struct{}

var tierVocabulary = []struct {
	name string
	re   *regexp.Regexp
}{
	{name: "Free", re: regexp.MustCompile(`(?i)\bfree\b`)},
	{name: "Hobby", re: regexp.MustCompile(`(?i)\bhobby\b`)},
	{name: "Starter", re: regexp.MustCompile(`(?i)\bstarter\b`)},
	{name: "Pro", re: regexp.MustCompile(`(?i)\bpro\b`)},
	{name: "Pro+", re: regexp.MustCompile(`(?i)\bpro\+`)},
	{name: "Plus", re: regexp.MustCompile(`(?i)\bplus\b`)},
	{name: "Ultra", re: regexp.MustCompile(`(?i)\bultra\b`)},
	{name: "Enterprise", re: regexp.MustCompile(`(?i)\benterprise\b`)},
	{name: "Business", re: regexp.MustCompile(`(?i)\bbusiness\b`)},
	{name: "Premium", re: regexp.MustCompile(`(?i)\bpremium\b`)},
}

func (p *vocabularyScanParser) Parse(section string) []Tier {
	type occurrence struct {
		name   string
		start  int
		length int
	}

	byStart := make(map[int]occurrence)
	for _, entry := range tierVocabulary {
		loc := entry.re.FindStringIndex(section)
		if loc == nil {
			continue
		}
		occ := occurrence{name: entry.name, start: loc[0], length: loc[1] - loc[0]}
		// "Pro" and "Pro+" match at the same offset; the longer name wins.
		if existing, ok := byStart[occ.start]; !ok || occ.length > existing.length {
			byStart[occ.start] = occ
		}
	}

	occurrences := make([]occurrence, 0, len(byStart))
	for _, occ := range byStart {
		occurrences = append(occurrences, occ)
	}
	sort.Slice(occurrences, func(i, j int) bool { return occurrences[i].start < occurrences[j].start })

	var tiers []Tier
	for i, occ := range occurrences {
		blockEnd := len(section)
		if i+1 < len(occurrences) {
			blockEnd = occurrences[i+1].start
		}
		block := section[occ.start+occ.length : blockEnd]

		price, priceFound := scanPriceToken(block)
		features := bulletItems(block)
		if !priceFound && len(features) == 0 {
			continue
		}
		if !priceFound {
			price = PriceCustom
		}
		tiers = append(tiers, Tier{Name: occ.name, Price: price, Features: features})
	}
	return tiers
}

// finalize deduplicates by (name, price), price-sorts, and truncates.
func finalize(tiers []Tier) []Tier {
	seen := make(map[string]struct{}, len(tiers))
	kept := make([]Tier, 0, len(tiers))
	for _, t := range tiers {
		key := t.Name + "\x00" + t.Price
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, t)
	}

	// Free sorts first, numeric prices ascending, Custom and unparsable
	// prices last; ties keep input order.
	sort.SliceStable(kept, func(i, j int) bool {
		return priceRank(kept[i].Price) < priceRank(kept[j].Price)
	})

	if len(kept) > maxTiers {
		kept = kept[:maxTiers]
	}
	return kept
}

func priceRank(price string) float64 {
	if price == PriceFree {
		return -1
	}
	if m := reDollarValue.FindStringSubmatch(price); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			return v
		}
	}
	return math.MaxFloat64
}
