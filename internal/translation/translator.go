// Package translation detects the language of job postings and translates
// them to English so downstream generation works from a single language.
package translation

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jonathan/cv-agent/internal/llm"
	"github.com/jonathan/cv-agent/internal/prompts"
)

// English is the pipeline's working language.
const English = "en"

// stopwords maps ISO 639-1 codes to high-frequency function words used for
// heuristic language detection when no model is available.
var stopwords = map[string][]string{
	"en": {" the ", " and ", " with ", " for ", " you ", " our ", " are "},
	"de": {" und ", " der ", " die ", " das ", " mit ", " für ", " wir ", " sie "},
	"fr": {" le ", " la ", " les ", " des ", " et ", " pour ", " avec ", " nous "},
	"es": {" el ", " la ", " los ", " las ", " y ", " para ", " con ", " nosotros "},
	"pt": {" o ", " os ", " das ", " e ", " para ", " com ", " nós ", " você "},
	"nl": {" de ", " het ", " een ", " en ", " met ", " voor ", " wij "},
}

// Translator translates text via the LLM, with a degraded heuristic path
// when no client is configured.
type Translator struct {
	client llm.Client
	logger *slog.Logger
}

// New creates a Translator. The client may be nil; detection then relies on
// stopword heuristics and translation becomes a pass-through.
func New(client llm.Client, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Translator{client: client, logger: logger}
}

// DetectLanguage returns the ISO 639-1 code of the text's language. It tries
// the model first and falls back to stopword counting. Unrecognizable text
// defaults to English.
func (t *Translator) DetectLanguage(ctx context.Context, text string) string {
	if t.client != nil {
		prompt := prompts.Format(prompts.MustGet("translation.json", "detect_language"), map[string]string{
			"Text": truncate(text, 500),
		})
		response, err := t.client.GenerateContent(ctx, prompt, llm.TierLite)
		if err == nil {
			code := strings.ToLower(strings.TrimSpace(response))
			if len(code) == 2 {
				return code
			}
		} else {
			t.logger.Warn("language detection call failed, using heuristic", "error", err)
		}
	}
	return DetectLanguageHeuristic(text)
}

// DetectLanguageHeuristic counts language-specific stopwords and returns the
// code with the highest hit count. Ties and empty input resolve to English.
func DetectLanguageHeuristic(text string) string {
	lowered := " " + strings.ToLower(text) + " "

	best := English
	bestCount := 0
	for code, words := range stopwords {
		count := 0
		for _, w := range words {
			count += strings.Count(lowered, w)
		}
		if count > bestCount || (count == bestCount && code == English) {
			best = code
			bestCount = count
		}
	}
	return best
}

// ToEnglish translates text to English when it is not already English.
// Without a model the original text is returned unchanged so the pipeline
// can continue in degraded mode.
func (t *Translator) ToEnglish(ctx context.Context, text string) (string, error) {
	lang := t.DetectLanguage(ctx, text)
	if lang == English {
		return text, nil
	}
	return t.Translate(ctx, text, "English")
}

// Translate translates text into targetLanguage using the model. Without a
// client the original text is returned unchanged.
func (t *Translator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	if t.client == nil {
		t.logger.Warn("no LLM client configured, skipping translation", "target", targetLanguage)
		return text, nil
	}

	prompt := prompts.Format(prompts.MustGet("translation.json", "translate"), map[string]string{
		"TargetLanguage": targetLanguage,
		"Text":           text,
	})

	translated, err := t.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		t.logger.Warn("translation call failed, keeping original text", "target", targetLanguage, "error", err)
		return text, err
	}
	return strings.TrimSpace(translated), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
