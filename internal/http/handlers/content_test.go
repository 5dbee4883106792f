package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	types "github.com/brightfold/content-backend/internal/domain"
)

func queryContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestProfileFromQueryNilWithoutParams(t *testing.T) {
	c := queryContext(t, "locale=es&page=2")
	if got := profileFromQuery(c); got != nil {
		t.Fatalf("expected nil profile without accessibility params, got %+v", got)
	}
}

func TestProfileFromQueryFlags(t *testing.T) {
	c := queryContext(t, "needs_text_to_speech=true&needs_high_contrast=true")
	got := profileFromQuery(c)
	if got == nil {
		t.Fatalf("expected a profile")
	}
	if !got.NeedsTextToSpeech || !got.NeedsHighContrast {
		t.Fatalf("expected both flags set, got %+v", got)
	}
	if got.NeedsReducedStimuli || got.MaxCognitiveLoad != nil {
		t.Fatalf("expected unrequested needs unset, got %+v", got)
	}
}

func TestProfileFromQueryCognitiveLoad(t *testing.T) {
	c := queryContext(t, "max_cognitive_load=low")
	got := profileFromQuery(c)
	if got == nil || got.MaxCognitiveLoad == nil {
		t.Fatalf("expected a profile with cognitive load")
	}
	if *got.MaxCognitiveLoad != types.CognitiveLoadLow {
		t.Fatalf("expected low, got %s", *got.MaxCognitiveLoad)
	}
}

func TestIntQuery(t *testing.T) {
	c := queryContext(t, "page=3&bad=zzz")
	if got := intQuery(c, "page", 1); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := intQuery(c, "missing", 7); got != 7 {
		t.Fatalf("expected default 7, got %d", got)
	}
	if got := intQuery(c, "bad", 9); got != 9 {
		t.Fatalf("expected default on parse failure, got %d", got)
	}
}
