/*
Package user contains the core data structures for participant identity.

It defines the Steam account identifier and the Participant struct passed between the
friend-list lookup, the console, and the pipeline.
*/
package user

import (
	"strconv"
	"strings"
)

// SteamID is the 64-bit account identifier of a Steam user. It is opaque: no arithmetic meaning.
type SteamID uint64

// steamID64Base is the lowest SteamID64 of an individual account in the public universe.
const steamID64Base = 76561197960265728

// String renders the identifier in decimal, the form every Web API endpoint expects.
func (id SteamID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseSteamID parses a decimal SteamID64. It reports false for anything that is not
// an individual account id, so callers can fall back to vanity name resolution.
func ParseSteamID(s string) (SteamID, bool) {
	s = strings.TrimSpace(s)
	if len(s) != 17 {
		return 0, false
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v < steamID64Base {
		return 0, false
	}

	return SteamID(v), true
}

// Participant represents the primary user or one of their friends.
type Participant struct {
	// ID is the participant's Steam account identifier.
	ID SteamID

	// Name is the display name shown in the friend list and progress output.
	Name string
}
