package models

// Ball groups, assigned to a team after the break
const (
	BallGroupStripes   = "stripes"
	BallGroupSolids    = "solids"
	BallGroupUndecided = "undecided"
)

// Match statuses
const (
	MatchStatusActive    = "active"
	MatchStatusCompleted = "completed"
)

// Notification types
const (
	NotificationTypeTurn = "turn_notification"
)

// Rating policy. The archival path and the direct-completion path apply
// different deltas; they are kept as two separately named policies until
// product clarifies which one is canonical.
const (
	DefaultRating               = 1500
	MinRating                   = 1000
	ArchiveRatingDelta          = 5
	DirectCompletionRatingDelta = 15
)
