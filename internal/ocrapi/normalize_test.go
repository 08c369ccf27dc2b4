package ocrapi

import "testing"

func TestDecodeSuccessSignals(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		ok      bool
		message string
	}{
		{"success flag", `{"success":true,"text":"a","confidence":50}`, true, ""},
		{"text without flag", `{"text":"","confidence":12.5}`, true, ""},
		{"flag without text", `{"success":true,"confidence":80}`, true, ""},
		{"null text counts as present", `{"text":null,"confidence":40}`, true, ""},
		{"explicit failure", `{"success":false,"error":"boom"}`, false, "boom"},
		{"failure without message", `{"success":false}`, false, ""},
		{"success missing confidence", `{"success":true,"text":"a"}`, false, "response missing confidence"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			outcome := Decode([]byte(tc.body))
			if outcome.OK() != tc.ok {
				t.Fatalf("OK() = %v, want %v (%+v)", outcome.OK(), tc.ok, outcome)
			}
			if !tc.ok && outcome.Failure.Message != tc.message {
				t.Fatalf("message = %q, want %q", outcome.Failure.Message, tc.message)
			}
		})
	}
}

func TestDecodeMalformedBody(t *testing.T) {
	outcome := Decode([]byte("<html>gateway timeout</html>"))
	if outcome.OK() || !outcome.Failure.Malformed {
		t.Fatalf("expected malformed failure, got %+v", outcome)
	}
}

func TestDecodeOptionalFields(t *testing.T) {
	outcome := Decode([]byte(`{"success":true,"text":"Hola","confidence":90,"pages":3,"translated":true,"translate_lang":"es","word_count":1}`))
	if !outcome.OK() {
		t.Fatalf("expected success")
	}
	r := outcome.Result
	if r.Pages != 3 || !r.Translated || r.TranslateLang != "es" {
		t.Fatalf("unexpected result %+v", r)
	}
	if r.WordCount == nil || *r.WordCount != 1 || r.CharCount != nil {
		t.Fatalf("optional counts mishandled: %+v", r)
	}
}

func TestDecodeNullText(t *testing.T) {
	outcome := Decode([]byte(`{"text":null,"confidence":40}`))
	if !outcome.OK() || outcome.Result.Text != "" {
		t.Fatalf("expected success with empty text, got %+v", outcome)
	}

	outcome = Decode([]byte(`{"text":5,"confidence":40}`))
	if outcome.OK() || !outcome.Failure.Malformed {
		t.Fatalf("expected malformed failure for non-string text, got %+v", outcome)
	}
}
