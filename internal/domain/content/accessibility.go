package content

// CognitiveLoad is an ordinal label for how demanding a piece of content is.
type CognitiveLoad string

const (
	CognitiveLoadLow    CognitiveLoad = "low"
	CognitiveLoadMedium CognitiveLoad = "medium"
	CognitiveLoadHigh   CognitiveLoad = "high"
)

// Ordinal maps the load label onto low < medium < high. Unknown labels map
// to medium so a bad label never makes content unselectable.
func (c CognitiveLoad) Ordinal() int {
	switch c {
	case CognitiveLoadLow:
		return 0
	case CognitiveLoadHigh:
		return 2
	default:
		return 1
	}
}

// AccessibilityFlags describes what a concrete content variant provides.
// Stored on the version (and optionally refined per translation), never as
// an open-ended map.
type AccessibilityFlags struct {
	DyslexiaFriendlyFont   bool          `json:"dyslexia_friendly_font"`
	ReducedStimuli         bool          `json:"reduced_stimuli"`
	ScreenReaderStructured bool          `json:"screen_reader_structured"`
	HighContrast           bool          `json:"high_contrast"`
	TextToSpeech           bool          `json:"text_to_speech"`
	CognitiveLoad          CognitiveLoad `json:"cognitive_load,omitempty"`
}

// AccessibilityOverride is a per-translation partial refinement of the
// version-level flags. Nil fields inherit from the version.
type AccessibilityOverride struct {
	DyslexiaFriendlyFont   *bool          `json:"dyslexia_friendly_font,omitempty"`
	ReducedStimuli         *bool          `json:"reduced_stimuli,omitempty"`
	ScreenReaderStructured *bool          `json:"screen_reader_structured,omitempty"`
	HighContrast           *bool          `json:"high_contrast,omitempty"`
	TextToSpeech           *bool          `json:"text_to_speech,omitempty"`
	CognitiveLoad          *CognitiveLoad `json:"cognitive_load,omitempty"`
}

// AccessibilityProfile is the query-time description of a consumer's needs.
// It is never persisted.
type AccessibilityProfile struct {
	NeedsDyslexiaFriendlyFont   bool           `json:"needs_dyslexia_friendly_font"`
	NeedsReducedStimuli         bool           `json:"needs_reduced_stimuli"`
	NeedsScreenReaderStructured bool           `json:"needs_screen_reader_structured"`
	NeedsHighContrast           bool           `json:"needs_high_contrast"`
	NeedsTextToSpeech           bool           `json:"needs_text_to_speech"`
	MaxCognitiveLoad            *CognitiveLoad `json:"max_cognitive_load,omitempty"`
}
