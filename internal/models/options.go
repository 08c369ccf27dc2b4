package models

import "fmt"

const DefaultOCRLang = "eng"

// OCRLanguages lists the Tesseract language codes offered for recognition.
var OCRLanguages = []string{
	"eng", "fra", "deu", "spa", "ita", "por", "rus", "ara", "hin", "chi_sim", "jpn", "kor",
}

// TranslationTargets lists the translation target codes; the empty code means none.
var TranslationTargets = []string{
	"", "en", "fr", "de", "es", "it", "pt", "ru", "ar", "hi", "zh-cn", "ja", "ko",
}

// ProcessingOptions travels with a single processing request.
type ProcessingOptions struct {
	OCRLang     string `json:"ocr_lang"`
	TranslateTo string `json:"translate_to"`
}

// Validate rejects codes outside the enumerated sets. An empty OCR language
// falls back to DefaultOCRLang.
func (o *ProcessingOptions) Validate() error {
	if o.OCRLang == "" {
		o.OCRLang = DefaultOCRLang
	}
	if !contains(OCRLanguages, o.OCRLang) {
		return fmt.Errorf("unsupported ocr language %q", o.OCRLang)
	}
	if !contains(TranslationTargets, o.TranslateTo) {
		return fmt.Errorf("unsupported translation target %q", o.TranslateTo)
	}
	return nil
}

type ExportFormat string

const (
	FormatText     ExportFormat = "txt"
	FormatDocument ExportFormat = "docx"
)

func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case FormatText, FormatDocument:
		return ExportFormat(s), nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

var (
	VoiceGenders = []string{"male", "female"}
	VoiceTones   = []string{"professional", "friendly", "happy", "excited", "sad", "enthusiastic", "romantic", "neutral"}
	SummaryModes = []string{"brief", "detailed", "bullet"}
)

// VoiceOptions selects the synthesized voice.
type VoiceOptions struct {
	Gender string `json:"gender"`
	Tone   string `json:"tone"`
}

func (v *VoiceOptions) Validate() error {
	if v.Gender == "" {
		v.Gender = "male"
	}
	if v.Tone == "" {
		v.Tone = "neutral"
	}
	if !contains(VoiceGenders, v.Gender) {
		return fmt.Errorf("unsupported voice gender %q", v.Gender)
	}
	if !contains(VoiceTones, v.Tone) {
		return fmt.Errorf("unsupported voice tone %q", v.Tone)
	}
	return nil
}

// ValidateSummaryMode returns the mode, defaulting to brief.
func ValidateSummaryMode(mode string) (string, error) {
	if mode == "" {
		return "brief", nil
	}
	if !contains(SummaryModes, mode) {
		return "", fmt.Errorf("unsupported summary mode %q", mode)
	}
	return mode, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
