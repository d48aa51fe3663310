package pipeline

// Stage is a state of the linear run. FatalAbort absorbs any unrecoverable failure.
type Stage int

const (
	StageInit Stage = iota
	StageValidateCredential
	StageResolvePrimary
	StageListFriends
	StageSelectFriends
	StageFetchPrimaryLibrary
	StageFoldFriendLibraries
	StageIntersectComplete
	StageClassifyCandidates
	StageFilterMultiplayer
	StageSelectRandom
	StageDone
	StageFatalAbort
)

var stageNames = [...]string{
	StageInit:                "Init",
	StageValidateCredential:  "ValidateCredential",
	StageResolvePrimary:      "ResolvePrimary",
	StageListFriends:         "ListFriends",
	StageSelectFriends:       "SelectFriends",
	StageFetchPrimaryLibrary: "FetchPrimaryLibrary",
	StageFoldFriendLibraries: "FoldFriendLibraries",
	StageIntersectComplete:   "IntersectComplete",
	StageClassifyCandidates:  "ClassifyCandidates",
	StageFilterMultiplayer:   "FilterMultiplayer",
	StageSelectRandom:        "SelectRandom",
	StageDone:                "Done",
	StageFatalAbort:          "FatalAbort",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "Unknown"
	}
	return stageNames[s]
}
