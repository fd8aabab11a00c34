package services

import "strings"

// findBestCardMatch picks the single best candidate from one query's
// result set. Rules are tried in order, case-insensitive, and the first
// rule with a hit wins:
//
//  1. exact name, candidate set contains target set
//  2. exact name
//  3. name contains target, candidate set contains target set
//  4. name contains target
//  5. first candidate
//
// A non-empty candidate list always yields a match; rule 5 can hand back a
// semantically poor record, which callers accept over returning nothing.
func findBestCardMatch(cards []catalogCard, targetName, targetSet string) *catalogCard {
	nameLower := strings.ToLower(targetName)
	setLower := strings.ToLower(targetSet)

	if match := findCard(cards, func(c *catalogCard) bool {
		return strings.ToLower(c.Name) == nameLower && strings.Contains(strings.ToLower(c.Set.Name), setLower)
	}); match != nil {
		return match
	}

	if match := findCard(cards, func(c *catalogCard) bool {
		return strings.ToLower(c.Name) == nameLower
	}); match != nil {
		return match
	}

	if setLower != "" {
		if match := findCard(cards, func(c *catalogCard) bool {
			return strings.Contains(strings.ToLower(c.Name), nameLower) &&
				strings.Contains(strings.ToLower(c.Set.Name), setLower)
		}); match != nil {
			return match
		}
	}

	if match := findCard(cards, func(c *catalogCard) bool {
		return strings.Contains(strings.ToLower(c.Name), nameLower)
	}); match != nil {
		return match
	}

	return &cards[0]
}

func findCard(cards []catalogCard, pred func(*catalogCard) bool) *catalogCard {
	for i := range cards {
		if pred(&cards[i]) {
			return &cards[i]
		}
	}
	return nil
}
