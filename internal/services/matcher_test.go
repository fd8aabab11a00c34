package services

import "testing"

func card(id, name, set string) catalogCard {
	return catalogCard{ID: id, Name: name, Set: catalogSet{Name: set}}
}

func TestFindBestCardMatchExactNameAndSetWins(t *testing.T) {
	cards := []catalogCard{
		card("1", "Charizard ex", "Base Set"),
		card("2", "Charizard", "Base Set 2"),
		card("3", "Charizard", "Base Set"),
	}

	got := findBestCardMatch(cards, "Charizard", "Base Set")
	if got.ID != "3" {
		t.Errorf("got card %s, want 3 (exact name in matching set)", got.ID)
	}
}

func TestFindBestCardMatchExactNameBeatsSubstring(t *testing.T) {
	cards := []catalogCard{
		card("1", "Dark Charizard", "Team Rocket"),
		card("2", "Charizard", "Jungle"),
	}

	// No candidate is in the target set; an exact name match in the wrong
	// set still beats a substring match.
	got := findBestCardMatch(cards, "Charizard", "Base Set")
	if got.ID != "2" {
		t.Errorf("got card %s, want 2 (exact name)", got.ID)
	}
}

func TestFindBestCardMatchSubstringWithSet(t *testing.T) {
	cards := []catalogCard{
		card("1", "Charizard VMAX", "Darkness Ablaze"),
		card("2", "Charizard ex", "Obsidian Flames"),
	}

	got := findBestCardMatch(cards, "Charizard", "Obsidian Flames")
	if got.ID != "2" {
		t.Errorf("got card %s, want 2 (substring match in target set)", got.ID)
	}
}

func TestFindBestCardMatchSubstringOnly(t *testing.T) {
	cards := []catalogCard{
		card("1", "Pidgey", "Base Set"),
		card("2", "Charizard VMAX", "Darkness Ablaze"),
	}

	got := findBestCardMatch(cards, "Charizard", "Base Set")
	if got.ID != "2" {
		t.Errorf("got card %s, want 2 (name substring)", got.ID)
	}
}

func TestFindBestCardMatchFirstCandidateFallback(t *testing.T) {
	cards := []catalogCard{
		card("1", "Pidgey", "Base Set"),
		card("2", "Rattata", "Base Set"),
	}

	got := findBestCardMatch(cards, "Charizard", "Base Set")
	if got.ID != "1" {
		t.Errorf("got card %s, want first candidate 1", got.ID)
	}
}

func TestFindBestCardMatchCaseInsensitive(t *testing.T) {
	cards := []catalogCard{
		card("1", "CHARIZARD", "BASE SET"),
	}

	got := findBestCardMatch(cards, "charizard", "base set")
	if got.ID != "1" {
		t.Errorf("case-insensitive exact match failed, got %s", got.ID)
	}
}

func TestFindBestCardMatchEmptyTargetSet(t *testing.T) {
	cards := []catalogCard{
		card("1", "Charizard ex", "Obsidian Flames"),
		card("2", "Charizard", "Jungle"),
	}

	// An empty set string matches any candidate set, so the exact name
	// rule still resolves correctly.
	got := findBestCardMatch(cards, "Charizard", "")
	if got.ID != "2" {
		t.Errorf("got card %s, want 2", got.ID)
	}
}
