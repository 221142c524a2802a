package bot

// PersonalityTuning holds the per-personality knobs the strategies consult.
// Only golden-card behavior varies; card eligibility never does.
type PersonalityTuning struct {
	// SteadyGoldenChance is the probability a steady brain spends its golden
	// card on any given round.
	SteadyGoldenChance float64

	// SkilledGoldenThreshold is the summed candidate score at which a
	// skilled brain spends its golden card.
	SkilledGoldenThreshold int

	// ExpertGoldenFloor suppresses an expert golden play unless the best
	// combo score reaches it. Zero disables the floor.
	ExpertGoldenFloor int

	// ExpertForceGoldenChance is the probability an expert brain forces a
	// golden play even when the comparison does not indicate one.
	ExpertForceGoldenChance float64
}

var tuningByPersonality = map[Personality]PersonalityTuning{
	PersonalityConservative: {
		SteadyGoldenChance:     0.40,
		SkilledGoldenThreshold: 90,
		ExpertGoldenFloor:      100,
	},
	PersonalityBalanced: {
		SteadyGoldenChance:     0.50,
		SkilledGoldenThreshold: 70,
	},
	PersonalityAggressive: {
		SteadyGoldenChance:      0.60,
		SkilledGoldenThreshold:  50,
		ExpertForceGoldenChance: 0.30,
	},
}

// ForPersonality returns the tuning for the personality, defaulting to
// balanced.
func ForPersonality(p Personality) PersonalityTuning {
	if t, ok := tuningByPersonality[p]; ok {
		return t
	}
	return tuningByPersonality[PersonalityBalanced]
}

const (
	beginnerGoldenChance = 0.20

	// steadyNoise bounds the random jitter added to steady candidate scores.
	steadyNoise = 10.0
	// steadyTopPool is how many of the best-ranked candidates a steady brain
	// picks among.
	steadyTopPool = 3

	// skilledSecondBestChance is how often a skilled brain passes over its
	// best-ranked card for the runner-up.
	skilledSecondBestChance = 0.20

	// expertGoldenEdge is the margin by which the golden bonus must beat the
	// best combo before an expert spends it: more than 50% better.
	expertGoldenEdge = 1.5
)
