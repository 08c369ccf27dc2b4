package models

// OcrResult is the outcome of a successful processing request. It is treated as
// immutable; a later successful request replaces it as a whole.
type OcrResult struct {
	Text          string  `json:"text"`
	Confidence    float64 `json:"confidence"`
	WordCount     *int    `json:"word_count,omitempty"`
	CharCount     *int    `json:"char_count,omitempty"`
	Pages         int     `json:"pages,omitempty"`
	Translated    bool    `json:"translated"`
	TranslateLang string  `json:"translate_lang,omitempty"`
}

// MultiPage reports whether the server counted pages, which it does for PDF input.
func (r *OcrResult) MultiPage() bool {
	return r != nil && r.Pages > 0
}

// ProcessingOutcome is the single normalized reading of a processing response.
// Exactly one of Result and Failure is set.
type ProcessingOutcome struct {
	Result  *OcrResult
	Failure *ProcessingError
}

func (o ProcessingOutcome) OK() bool {
	return o.Result != nil && o.Failure == nil
}

// SummaryResult belongs to the OcrResult it was produced from.
type SummaryResult struct {
	Text string `json:"summary"`
	Mode string `json:"mode"`
}
