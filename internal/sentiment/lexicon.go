package sentiment

// Word valences in [-1, 1]. Scoring averages the valences of matched words, so
// adding entries shifts coverage without inflating scores of short messages.
var valences = map[string]float64{
	// positive
	"happy":      0.8,
	"glad":       0.6,
	"joy":        0.8,
	"joyful":     0.8,
	"great":      0.8,
	"good":       0.7,
	"nice":       0.6,
	"awesome":    1.0,
	"amazing":    0.9,
	"wonderful":  1.0,
	"fantastic":  0.9,
	"excellent":  1.0,
	"love":       0.7,
	"loved":      0.7,
	"like":       0.4,
	"thanks":     0.5,
	"thank":      0.5,
	"excited":    0.8,
	"fun":        0.5,
	"beautiful":  0.85,
	"best":       1.0,
	"better":     0.5,
	"perfect":    1.0,
	"delighted":  0.9,
	"cheerful":   0.8,
	"pleased":    0.7,
	"proud":      0.6,
	"relieved":   0.5,
	"smile":      0.5,
	"win":        0.6,
	"won":        0.6,
	"success":    0.6,
	"successful": 0.6,

	// negative
	"sad":        -0.7,
	"unhappy":    -0.7,
	"bad":        -0.7,
	"terrible":   -1.0,
	"awful":      -1.0,
	"horrible":   -1.0,
	"worst":      -1.0,
	"worse":      -0.5,
	"hate":       -0.8,
	"hated":      -0.8,
	"angry":      -0.7,
	"upset":      -0.6,
	"depressed":  -0.8,
	"miserable":  -0.9,
	"cry":        -0.6,
	"crying":     -0.6,
	"lonely":     -0.6,
	"alone":      -0.3,
	"tired":      -0.4,
	"hurt":       -0.6,
	"pain":       -0.6,
	"painful":    -0.7,
	"fail":       -0.6,
	"failed":     -0.6,
	"failure":    -0.6,
	"lost":       -0.4,
	"lose":       -0.4,
	"afraid":     -0.6,
	"scared":     -0.6,
	"worried":    -0.5,
	"anxious":    -0.6,
	"stressed":   -0.6,
	"sick":       -0.5,
	"annoyed":    -0.5,
	"frustrated": -0.6,
	"sorry":      -0.3,
	"disaster":   -0.8,
	"heartbroken": -0.9,
}

// Intensifiers scale the valence of the following sentiment word.
var intensifiers = map[string]float64{
	"so":        1.3,
	"very":      1.3,
	"really":    1.3,
	"extremely": 1.5,
	"super":     1.3,
	"totally":   1.2,
	"quite":     1.1,
	"slightly":  0.5,
	"somewhat":  0.7,
	"a_bit":     0.6, // produced by the tokenizer for "a bit"
}

// Negators flip and dampen the following sentiment word.
var negators = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"don't":   true,
	"dont":    true,
	"doesn't": true,
	"doesnt":  true,
	"didn't":  true,
	"didnt":   true,
	"isn't":   true,
	"isnt":    true,
	"wasn't":  true,
	"wasnt":   true,
	"can't":   true,
	"cant":    true,
	"won't":   true,
	"wont":    true,
	"nothing": true,
	"nobody":  true,
}
