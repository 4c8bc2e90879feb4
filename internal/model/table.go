package model

import "time"

// Table describes a physical table on the floor plan.  Tables are
// reference data for this service: they are read, combined into
// reservations and filtered by zone, but never created or destroyed here.
//
// Fields:
//  ID        – primary key identifier.
//  Number    – display label shown to staff and guests (e.g. "T12").
//  Capacity  – seats at this table, positive.
//  Location  – physical zone key, see the zone list below.
//  IsActive  – inactive tables are excluded from every picker.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Table struct {
	ID        uint64    `json:"id"`
	Number    string    `json:"number"`
	Capacity  int       `json:"capacity"`
	Location  string    `json:"location"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Zone keys.  Two generations of keys coexist in stored data; which set is
// authoritative is an open reference-data question with the data owner, so
// both are accepted on input and mapped to one label table for display.
const (
	ZoneTerraceCampanari = "TERRACE_CAMPANARI"
	ZoneTerraceJusticia  = "TERRACE_JUSTICIA"
	ZoneSalaVIP          = "SALA_VIP"
	ZoneSalaPrincipal    = "SALA_PRINCIPAL"

	// legacy keys still present in older rows
	ZoneTerrace  = "TERRACE"
	ZoneInterior = "INTERIOR"
	ZoneBar      = "BAR"
)

// ZoneLabels maps every accepted zone key to its display label.  The
// legacy keys alias onto the current areas so older rows render the same
// as new ones.
var ZoneLabels = map[string]string{
	ZoneTerraceCampanari: "Terraza Campanari",
	ZoneTerraceJusticia:  "Terraza Justicia",
	ZoneSalaVIP:          "Sala VIP",
	ZoneSalaPrincipal:    "Sala Principal",
	ZoneTerrace:          "Terraza Campanari",
	ZoneInterior:         "Sala Principal",
	ZoneBar:              "Sala Principal",
}

// KnownZone reports whether the key belongs to either generation of zone
// keys.
func KnownZone(key string) bool {
	_, ok := ZoneLabels[key]
	return ok
}

// ZoneLabel returns the display label for a zone key, falling back to the
// raw key for values that predate both generations.
func ZoneLabel(key string) string {
	if label, ok := ZoneLabels[key]; ok {
		return label
	}
	return key
}
