package models

// Player represents a registered player with a rating
type Player struct {
	ID     string `dynamodbav:"id" json:"id"`
	Name   string `dynamodbav:"name" json:"name"`
	Email  string `dynamodbav:"email,omitempty" json:"email,omitempty"`
	Rating int    `dynamodbav:"rating" json:"rating"`
}

// PlayersTable is the DynamoDB table name for players
const PlayersTable = "Players"
