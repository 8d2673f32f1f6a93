package models

// QueueEntry is one waiting player on a table's queue. Positions are 1-based
// and dense per table; a player appears at most once per table.
type QueueEntry struct {
	ID       string `dynamodbav:"id" json:"id"`
	TableID  string `dynamodbav:"tableId" json:"tableId"`
	PlayerID string `dynamodbav:"playerId" json:"playerId"`
	Position int    `dynamodbav:"position" json:"position"`
	Skipped  bool   `dynamodbav:"skipped" json:"skipped"`
	Notified bool   `dynamodbav:"notified" json:"notified"`
}

// QueueEntriesTable is the DynamoDB table name for queue entries
const QueueEntriesTable = "QueueEntries"

// RotationResult is the outcome of processing a table's queue after a match
// ends: who plays next, whether the winner keeps the table, and whether a
// follow-up match was auto-created.
type RotationResult struct {
	NextPlayerID    string `json:"nextPlayerId,omitempty"`
	TableAvailable  bool   `json:"tableAvailable"`
	QueueUpdated    bool   `json:"queueUpdated"`
	WinnerStays     bool   `json:"winnerStays"`
	NewMatchCreated bool   `json:"newMatchCreated"`
}
