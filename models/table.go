package models

// Table represents a physical pool table at a venue.
// A table is unavailable exactly while it has one active match.
type Table struct {
	ID          string                 `dynamodbav:"id" json:"id"`
	VenueID     string                 `dynamodbav:"venueId" json:"venueId"`
	Name        string                 `dynamodbav:"name" json:"name"`
	IsAvailable bool                   `dynamodbav:"isAvailable" json:"isAvailable"`
	Metadata    map[string]interface{} `dynamodbav:"metadata,omitempty" json:"metadata,omitempty"`
}

// TablesTable is the DynamoDB table name for pool tables
const TablesTable = "Tables"
