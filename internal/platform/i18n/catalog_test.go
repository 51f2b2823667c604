package i18n

import (
	"strings"
	"testing"
)

func TestNewBundleRequiresBaseLocale(t *testing.T) {
	_, err := NewBundle(map[string]map[string]string{"pt-BR": {"k": "v"}})
	if err == nil {
		t.Fatal("expected error without base locale")
	}
}

func TestNewBundleRejectsBlankKey(t *testing.T) {
	_, err := NewBundle(map[string]map[string]string{"en-US": {" ": "v"}})
	if err == nil {
		t.Fatal("expected error for blank key")
	}
}

func TestMatch(t *testing.T) {
	bundle := Default()
	tests := []struct {
		in   string
		want string
	}{
		{"", BaseLocale},
		{"en-US", "en-US"},
		{"pt-BR", "pt-BR"},
		{"pt", "pt-BR"},
		{"en", "en-US"},
		{"ja-JP", BaseLocale},
	}
	for _, tt := range tests {
		if got := bundle.Match(tt.in); got != tt.want {
			t.Errorf("Match(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMessageFallsBackToBaseLocale(t *testing.T) {
	bundle := Default()
	got, ok := bundle.Message("pt-BR", "errors.AGENT_NAME_CONFLICT")
	if !ok {
		t.Fatal("expected fallback message")
	}
	if !strings.Contains(got, "used twice") {
		t.Fatalf("expected base locale message, got %q", got)
	}
	if _, ok := bundle.Message("en-US", "missing.key"); ok {
		t.Fatal("expected missing key")
	}
}

func TestPrinterTranslates(t *testing.T) {
	if got := Printer("pt-BR").Sprintf("report.col.agent"); got != "Agente" {
		t.Fatalf("pt-BR agent column = %q", got)
	}
	if got := Printer("en").Sprintf("report.col.agent"); got != "Agent" {
		t.Fatalf("en agent column = %q", got)
	}
}
