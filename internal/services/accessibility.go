package services

import (
	types "github.com/brightfold/content-backend/internal/domain"
)

// MatchAccessibility counts how many of the profile's requested needs the
// flags satisfy. Cognitive load is satisfied when the content's ordinal
// load is at or below the requested maximum.
func MatchAccessibility(profile *types.AccessibilityProfile, flags types.AccessibilityFlags) (requested, satisfied int) {
	if profile == nil {
		return 0, 0
	}
	count := func(needed, has bool) {
		if !needed {
			return
		}
		requested++
		if has {
			satisfied++
		}
	}
	count(profile.NeedsDyslexiaFriendlyFont, flags.DyslexiaFriendlyFont)
	count(profile.NeedsReducedStimuli, flags.ReducedStimuli)
	count(profile.NeedsScreenReaderStructured, flags.ScreenReaderStructured)
	count(profile.NeedsHighContrast, flags.HighContrast)
	count(profile.NeedsTextToSpeech, flags.TextToSpeech)
	if profile.MaxCognitiveLoad != nil {
		requested++
		if flags.CognitiveLoad.Ordinal() <= profile.MaxCognitiveLoad.Ordinal() {
			satisfied++
		}
	}
	return requested, satisfied
}

// ScoreAccessibility returns satisfied/requested in [0, 1]. A nil profile
// and a profile with no needs both score 0; callers must not read 0 as
// "no preference".
func ScoreAccessibility(profile *types.AccessibilityProfile, flags types.AccessibilityFlags) float64 {
	requested, satisfied := MatchAccessibility(profile, flags)
	if requested == 0 {
		return 0
	}
	return float64(satisfied) / float64(requested)
}
