package model

import "testing"

func TestDominantMoodEmptyWindow(t *testing.T) {
	if got := DominantMood(nil); got != MoodNeutral {
		t.Fatalf("empty window: got %s, want neutral", got)
	}
}

func TestDominantMoodSingleMessage(t *testing.T) {
	for _, m := range []Mood{MoodHappy, MoodSad, MoodNeutral} {
		if got := DominantMood([]Mood{m}); got != m {
			t.Fatalf("single %s: got %s", m, got)
		}
	}
}

func TestDominantMoodPlurality(t *testing.T) {
	cases := []struct {
		name   string
		window []Mood
		want   Mood
	}{
		{"majority tail", []Mood{MoodNeutral, MoodSad, MoodSad, MoodHappy, MoodSad}, MoodSad},
		{"majority head", []Mood{MoodHappy, MoodHappy, MoodHappy, MoodSad, MoodNeutral}, MoodHappy},
		{"all same", []Mood{MoodHappy, MoodHappy, MoodHappy, MoodHappy, MoodHappy}, MoodHappy},
		{"strict plurality", []Mood{MoodNeutral, MoodHappy, MoodSad, MoodHappy, MoodSad, MoodHappy, MoodNeutral}, MoodHappy},
	}
	for _, tc := range cases {
		if got := DominantMood(tc.window); got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

// Ties resolve in favor of the label seen first in the newest-first window,
// i.e. the label with the more recent occurrence.
func TestDominantMoodTieBreak(t *testing.T) {
	window := []Mood{MoodSad, MoodHappy, MoodSad, MoodHappy, MoodNeutral}
	if got := DominantMood(window); got != MoodSad {
		t.Fatalf("tie window: got %s, want sad", got)
	}

	window = []Mood{MoodHappy, MoodSad, MoodHappy, MoodSad}
	if got := DominantMood(window); got != MoodHappy {
		t.Fatalf("two-way tie: got %s, want happy", got)
	}
}
