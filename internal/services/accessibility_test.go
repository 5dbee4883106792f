package services

import (
	"testing"

	types "github.com/brightfold/content-backend/internal/domain"
)

func TestScoreAccessibilityNilProfile(t *testing.T) {
	if got := ScoreAccessibility(nil, types.AccessibilityFlags{TextToSpeech: true}); got != 0 {
		t.Fatalf("expected 0 for nil profile, got %f", got)
	}
}

func TestScoreAccessibilityNoNeeds(t *testing.T) {
	profile := &types.AccessibilityProfile{}
	if got := ScoreAccessibility(profile, types.AccessibilityFlags{TextToSpeech: true}); got != 0 {
		t.Fatalf("expected 0 for empty profile, got %f", got)
	}
}

func TestScoreAccessibilityPartialMatch(t *testing.T) {
	profile := &types.AccessibilityProfile{
		NeedsTextToSpeech:    true,
		NeedsHighContrast:    true,
		NeedsReducedStimuli:  true,
		NeedsDyslexiaFriendlyFont: true,
	}
	flags := types.AccessibilityFlags{TextToSpeech: true, HighContrast: true}

	requested, satisfied := MatchAccessibility(profile, flags)
	if requested != 4 || satisfied != 2 {
		t.Fatalf("expected 2/4, got %d/%d", satisfied, requested)
	}
	if got := ScoreAccessibility(profile, flags); got != 0.5 {
		t.Fatalf("expected 0.5, got %f", got)
	}
}

func TestScoreAccessibilityBounds(t *testing.T) {
	profile := &types.AccessibilityProfile{NeedsTextToSpeech: true}
	if got := ScoreAccessibility(profile, types.AccessibilityFlags{}); got != 0 {
		t.Fatalf("expected 0, got %f", got)
	}
	if got := ScoreAccessibility(profile, types.AccessibilityFlags{TextToSpeech: true}); got != 1 {
		t.Fatalf("expected 1, got %f", got)
	}
}

func TestMatchAccessibilityCognitiveLoad(t *testing.T) {
	medium := types.CognitiveLoadMedium
	profile := &types.AccessibilityProfile{MaxCognitiveLoad: &medium}

	for _, tc := range []struct {
		load      types.CognitiveLoad
		satisfied int
	}{
		{types.CognitiveLoadLow, 1},
		{types.CognitiveLoadMedium, 1},
		{types.CognitiveLoadHigh, 0},
		{"", 1}, // unknown labels read as medium
	} {
		requested, satisfied := MatchAccessibility(profile, types.AccessibilityFlags{CognitiveLoad: tc.load})
		if requested != 1 {
			t.Fatalf("load %q: expected 1 requested, got %d", tc.load, requested)
		}
		if satisfied != tc.satisfied {
			t.Fatalf("load %q: expected %d satisfied, got %d", tc.load, tc.satisfied, satisfied)
		}
	}
}
