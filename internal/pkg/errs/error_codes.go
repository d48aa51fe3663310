/*
Package errs provides custom error types and application-level error code constants.

These error codes identify every fatal condition the pipeline can reach, so the
top-level handler can print a stable message and exit with a class-specific status.
*/
package errs

// 1xxx: Precondition Errors (reported before any owned-games fetch)
const (
	// ErrInvalidCredential indicates that the Web API key does not have the required length.
	ErrInvalidCredential = 1001

	// ErrInvalidSelection indicates that the friend selection could not be parsed or is out of range.
	ErrInvalidSelection = 1002

	// ErrEmptySelection indicates that no friends were selected.
	ErrEmptySelection = 1003

	// ErrInvalidSteamID indicates that the primary user identifier is missing or unusable.
	ErrInvalidSteamID = 1004

	// ErrNoFriends indicates that the primary user's friend list is empty.
	ErrNoFriends = 1005

	// ErrInputUnavailable indicates that console input could not be read.
	ErrInputUnavailable = 1006
)

// 2xxx: Pipeline Errors
const (
	// ErrNoContributingParticipants indicates that no selected friend had a visible library.
	ErrNoContributingParticipants = 2001

	// ErrNoMultiplayerGames indicates that no common game is multiplayer-capable.
	ErrNoMultiplayerGames = 2002

	// ErrPrimaryLibraryHidden indicates that the primary user's own library is not visible.
	ErrPrimaryLibraryHidden = 2003

	// ErrFriendListUnavailable indicates that the friend list is private or could not be read.
	ErrFriendListUnavailable = 2004
)

// 4xxx: Remote API Errors
const (
	// ErrTransport indicates that an outbound request failed before a response was received.
	ErrTransport = 4001

	// ErrMalformedPayload indicates that a response body could not be decoded.
	ErrMalformedPayload = 4002

	// ErrUnexpectedStatus indicates that a remote endpoint answered with a non-2xx status.
	ErrUnexpectedStatus = 4003

	// ErrVanityNotFound indicates that a vanity name did not resolve to a Steam account.
	ErrVanityNotFound = 4004
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general internal error.
	ErrUnknown = 5000
)
