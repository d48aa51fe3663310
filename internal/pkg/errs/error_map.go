/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError template, used to
standardize console messages and process exit codes.
*/
package errs

// Process exit codes, one per error class.
const (
	ExitUnknown      = 1
	ExitPrecondition = 2
	ExitPipeline     = 3
	ExitRemote       = 4
)

// errorMap stores the CustomError template corresponding to every application error code.
// The key is the error code (int), and the value contains the message template and exit code.
var errorMap = map[int]CustomError{
	// 1xxx: Precondition Errors
	ErrInvalidCredential: {Code: ErrInvalidCredential, Message: "Steam Web API Key is the wrong length (want %d characters, got %d).", ExitCode: ExitPrecondition},
	ErrInvalidSelection:  {Code: ErrInvalidSelection, Message: "Invalid friend selection %q: %s.", ExitCode: ExitPrecondition},
	ErrEmptySelection:    {Code: ErrEmptySelection, Message: "No friends selected.", ExitCode: ExitPrecondition},
	ErrInvalidSteamID:    {Code: ErrInvalidSteamID, Message: "Invalid Steam ID %q.", ExitCode: ExitPrecondition},
	ErrNoFriends:         {Code: ErrNoFriends, Message: "Your friends list is empty.", ExitCode: ExitPrecondition},
	ErrInputUnavailable:  {Code: ErrInputUnavailable, Message: "Could not read input.", ExitCode: ExitPrecondition},

	// 2xxx: Pipeline Errors
	ErrNoContributingParticipants: {Code: ErrNoContributingParticipants, Message: "Couldn't retrieve games from any of the friends specified!", ExitCode: ExitPipeline},
	ErrNoMultiplayerGames:         {Code: ErrNoMultiplayerGames, Message: "No multiplayer/coop games found in common.", ExitCode: ExitPipeline},
	ErrPrimaryLibraryHidden:       {Code: ErrPrimaryLibraryHidden, Message: "Your own game library is not visible with this key.", ExitCode: ExitPipeline},
	ErrFriendListUnavailable:      {Code: ErrFriendListUnavailable, Message: "Could not read your friends list (is it private?).", ExitCode: ExitPipeline},

	// 4xxx: Remote API Errors
	ErrTransport:        {Code: ErrTransport, Message: "Request to %s failed.", ExitCode: ExitRemote},
	ErrMalformedPayload: {Code: ErrMalformedPayload, Message: "Unexpected response from %s.", ExitCode: ExitRemote},
	ErrUnexpectedStatus: {Code: ErrUnexpectedStatus, Message: "%s answered with HTTP %d.", ExitCode: ExitRemote},
	ErrVanityNotFound:   {Code: ErrVanityNotFound, Message: "No Steam account found for %q.", ExitCode: ExitRemote},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong.", ExitCode: ExitUnknown},
}
