// Copyright (c) 2026 Resolveja.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"

	"github.com/resolveja/community/models"
)

func baseSignals() models.ClientSignals {
	return models.ClientSignals{
		UserAgent:      "Mozilla/5.0 (X11; Linux x86_64)",
		Locale:         "pt-BR",
		ScreenWidth:    1920,
		ScreenHeight:   1080,
		TimezoneOffset: 180,
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint(baseSignals())
	b := Fingerprint(baseSignals())
	if a != b {
		t.Errorf("same signals produced different fingerprints: %s vs %s", a, b)
	}
}

func TestFingerprint_FixedWidth(t *testing.T) {
	fp := Fingerprint(baseSignals())
	if !strings.HasPrefix(fp, "anon-") {
		t.Errorf("fingerprint missing anon prefix: %s", fp)
	}
	hexPart := strings.TrimPrefix(fp, "anon-")
	if len(hexPart) != 16 {
		t.Errorf("expected 16 hex chars, got %d (%s)", len(hexPart), hexPart)
	}
	for _, c := range hexPart {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			t.Errorf("fingerprint contains invalid hex char: %c", c)
		}
	}

	// Empty signals still yield a full-width fingerprint
	empty := Fingerprint(models.ClientSignals{})
	if len(strings.TrimPrefix(empty, "anon-")) != 16 {
		t.Errorf("empty-signal fingerprint not fixed width: %s", empty)
	}
}

func TestFingerprint_ChangesWithAnySignal(t *testing.T) {
	base := Fingerprint(baseSignals())

	variants := []models.ClientSignals{}

	s := baseSignals()
	s.UserAgent = "curl/8.0"
	variants = append(variants, s)

	s = baseSignals()
	s.Locale = "en-US"
	variants = append(variants, s)

	s = baseSignals()
	s.ScreenWidth = 1280
	variants = append(variants, s)

	s = baseSignals()
	s.ScreenHeight = 720
	variants = append(variants, s)

	s = baseSignals()
	s.TimezoneOffset = 0
	variants = append(variants, s)

	for i, v := range variants {
		if Fingerprint(v) == base {
			t.Errorf("variant %d did not change the fingerprint", i)
		}
	}
}

func TestResolveVoterIdentity(t *testing.T) {
	// Account ID wins over signals
	id := ResolveVoterIdentity("user-42", baseSignals())
	if id != "user-42" {
		t.Errorf("expected account identity, got %s", id)
	}

	// No account: fingerprint
	id = ResolveVoterIdentity("", baseSignals())
	if id != Fingerprint(baseSignals()) {
		t.Errorf("expected fingerprint identity, got %s", id)
	}
}

func TestModeratorKey(t *testing.T) {
	salt := "test-mod-salt"
	key := GenerateModeratorKey("mod-1", salt)

	if key == "" {
		t.Fatal("empty moderator key")
	}
	if strings.ContainsAny(key, "+/=") {
		t.Errorf("key is not URL-safe unpadded base64: %s", key)
	}

	if err := ValidateModeratorKey("mod-1", key, salt); err != nil {
		t.Errorf("valid key rejected: %v", err)
	}
	if err := ValidateModeratorKey("mod-2", key, salt); err != ErrInvalidModKey {
		t.Errorf("key for wrong account accepted")
	}
	if err := ValidateModeratorKey("mod-1", key, "other-salt"); err != ErrInvalidModKey {
		t.Errorf("key with wrong salt accepted")
	}
	if err := ValidateModeratorKey("mod-1", "", salt); err != ErrInvalidModKey {
		t.Errorf("empty key accepted")
	}
	if err := ValidateModeratorKey("", key, salt); err != ErrInvalidModKey {
		t.Errorf("empty account accepted")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"diacritics and punctuation", "Wi-Fi não conecta!", "wi-fi-nao-conecta"},
		{"uppercase", "ROTEADOR TRAVADO", "roteador-travado"},
		{"punctuation runs collapse", "TV -- sem som???", "tv-sem-som"},
		{"leading and trailing junk", "  ...Internet lenta!  ", "internet-lenta"},
		{"numbers kept", "Erro 404 na página", "erro-404-na-pagina"},
		{"cedilla", "Configuração inicial", "configuracao-inicial"},
		{"already clean", "impressora-offline", "impressora-offline"},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.title); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}

	// Determinism
	if Slugify("Wi-Fi não conecta!") != Slugify("Wi-Fi não conecta!") {
		t.Error("Slugify is not deterministic")
	}
}
