package domain

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

var patternCache sync.Map // pattern template -> *regexp.Regexp (nil when invalid)

// MatchTaxRule returns the rule whose prefix and pattern fully describe taxID.
//
// Rules are tried longest prefix first, then by country, then by ID, and the
// first hit wins, so overlapping rules resolve the same way regardless of the
// order the store returned them in.
func MatchTaxRule(taxID string, rules []TaxRule) (TaxRule, error) {
	for _, rule := range orderedRules(rules) {
		if matchesRule(taxID, rule) {
			return rule, nil
		}
	}
	return TaxRule{}, TaxNumberNotRecognized()
}

func matchesRule(taxID string, rule TaxRule) bool {
	if !strings.HasPrefix(taxID, rule.Prefix) {
		return false
	}
	re := compilePattern(rule.Pattern)
	if re == nil {
		return false
	}
	return re.MatchString(taxID[len(rule.Prefix):])
}

func orderedRules(rules []TaxRule) []TaxRule {
	ordered := make([]TaxRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if len(a.Prefix) != len(b.Prefix) {
			return len(a.Prefix) > len(b.Prefix)
		}
		if a.Country != b.Country {
			return a.Country < b.Country
		}
		return a.ID < b.ID
	})
	return ordered
}

// compilePattern turns a template such as "YYXXXXXXXXX" into an anchored
// regexp. X is one ASCII digit, Y one uppercase ASCII letter, anything else
// is literal.
func compilePattern(pattern string) *regexp.Regexp {
	if cached, ok := patternCache.Load(pattern); ok {
		re, _ := cached.(*regexp.Regexp)
		return re
	}

	var b strings.Builder
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case 'X':
			b.WriteString("[0-9]")
		case 'Y':
			b.WriteString("[A-Z]")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		re = nil
	}
	patternCache.Store(pattern, re)
	return re
}

// ValidPattern reports whether a template only uses placeholders and ASCII
// letters or digits.
func ValidPattern(pattern string) bool {
	if pattern == "" {
		return false
	}
	for _, r := range pattern {
		isDigit := r >= '0' && r <= '9'
		isLetter := (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
		if !isDigit && !isLetter {
			return false
		}
	}
	return true
}
