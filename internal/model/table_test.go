package model

import "testing"

func TestKnownZone(t *testing.T) {
	for _, key := range []string{
		ZoneTerraceCampanari, ZoneTerraceJusticia, ZoneSalaVIP, ZoneSalaPrincipal,
		ZoneTerrace, ZoneInterior, ZoneBar,
	} {
		if !KnownZone(key) {
			t.Errorf("KnownZone(%q) = false, want true", key)
		}
	}
	if KnownZone("ROOFTOP") {
		t.Error("KnownZone(ROOFTOP) = true, want false")
	}
	if KnownZone("") {
		t.Error("KnownZone(\"\") = true, want false")
	}
}

func TestZoneLabelAliasesLegacyKeys(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{ZoneTerrace, "Terraza Campanari"},
		{ZoneTerraceCampanari, "Terraza Campanari"},
		{ZoneInterior, "Sala Principal"},
		{ZoneBar, "Sala Principal"},
		{ZoneSalaVIP, "Sala VIP"},
		{"ROOFTOP", "ROOFTOP"}, // unknown keys fall through untouched
	}
	for _, tt := range tests {
		if got := ZoneLabel(tt.key); got != tt.want {
			t.Errorf("ZoneLabel(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
