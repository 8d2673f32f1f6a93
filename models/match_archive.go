package models

// RatingChange records a player's rating before and after archival
type RatingChange struct {
	Initial int `dynamodbav:"initial" json:"initial"`
	Final   int `dynamodbav:"final" json:"final"`
}

// MatchArchive is the immutable snapshot of a completed match. It is created
// exactly once; the live match row is deleted after a successful insert.
type MatchArchive struct {
	ID              string                  `dynamodbav:"id" json:"id"`
	MatchID         string                  `dynamodbav:"matchId" json:"matchId"`
	TableID         string                  `dynamodbav:"tableId" json:"tableId"`
	Players         []string                `dynamodbav:"players" json:"players"`
	FinalScore      []int                   `dynamodbav:"finalScore" json:"finalScore"`
	WinnerPlayerID  string                  `dynamodbav:"winnerPlayerId,omitempty" json:"winnerPlayerId,omitempty"`
	StartTime       string                  `dynamodbav:"startTime" json:"startTime"`
	EndTime         string                  `dynamodbav:"endTime" json:"endTime"`
	DurationMinutes int                     `dynamodbav:"durationMinutes" json:"durationMinutes"`
	WinnerTeam      string                  `dynamodbav:"winnerTeam" json:"winnerTeam"`
	LoserTeam       string                  `dynamodbav:"loserTeam" json:"loserTeam"`
	MatchType       string                  `dynamodbav:"matchType,omitempty" json:"matchType,omitempty"`
	RatingChanges   map[string]RatingChange `dynamodbav:"ratingChanges,omitempty" json:"ratingChanges,omitempty"`
	Metadata        map[string]interface{}  `dynamodbav:"metadata,omitempty" json:"metadata,omitempty"`
}

// MatchArchivesTable is the DynamoDB table name for archived matches
const MatchArchivesTable = "MatchArchives"
