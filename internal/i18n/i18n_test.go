// Copyright (c) 2026 ToeiRei
// Signet - keypair wallet account manager
// This source code is licensed under the MIT license found in the LICENSE file.
package i18n

import "testing"

func TestInitAndAvailableLocales(t *testing.T) {
	Init("en")

	av := GetAvailableLocales()
	for _, k := range []string{"en", "de"} {
		if _, ok := av[k]; !ok {
			t.Fatalf("expected available locale %q to be present", k)
		}
	}
	if av["de"] != "Deutsch" {
		t.Fatalf("unexpected display name for de: %q", av["de"])
	}

	codes := SortedLocaleCodes(av)
	if len(codes) < 2 || codes[0] != "de" {
		t.Fatalf("expected sorted codes starting with de, got %v", codes)
	}
}

func TestT_BasicAndFormatting(t *testing.T) {
	Init("en")

	if got := T("dialog.confirm"); got != "Confirm" {
		t.Fatalf("expected 'Confirm', got %q", got)
	}

	// fmt-style formatting
	got := T("form.duplicate_alias", "alice")
	if got != "An account named 'alice' already exists." {
		t.Fatalf("unexpected formatted translation: %q", got)
	}

	SetLang("de")
	if got := T("dialog.confirm"); got != "Bestätigen" {
		t.Fatalf("expected German 'Bestätigen', got %q", got)
	}

	// unknown IDs degrade to the ID itself
	SetLang("en")
	if got := T("no.such.key"); got != "no.such.key" {
		t.Fatalf("expected fallback to ID, got %q", got)
	}
}
