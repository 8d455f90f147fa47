package model

// Mood is the discretized sentiment of a single message.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodSad     Mood = "sad"
	MoodNeutral Mood = "neutral"
)

// Valid reports whether m is one of the three known labels.
func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodSad, MoodNeutral:
		return true
	}
	return false
}

// DominantMood picks the plurality label over a newest-first mood window.
// Ties go to the label whose first occurrence comes earliest in the window,
// which favors more recent messages. An empty window is neutral.
func DominantMood(window []Mood) Mood {
	if len(window) == 0 {
		return MoodNeutral
	}
	counts := make(map[Mood]int, 3)
	firstSeen := make(map[Mood]int, 3)
	for i, m := range window {
		if _, ok := firstSeen[m]; !ok {
			firstSeen[m] = i
		}
		counts[m]++
	}
	best := window[0]
	for mood, n := range counts {
		if n > counts[best] || (n == counts[best] && firstSeen[mood] < firstSeen[best]) {
			best = mood
		}
	}
	return best
}
