package models

// Notification is a stored message for a player, e.g. "your turn is up".
// Delivery transport is out of scope; rows are read by the UI.
type Notification struct {
	ID       string                 `dynamodbav:"id" json:"id"`
	UserID   string                 `dynamodbav:"userId" json:"userId"`
	Type     string                 `dynamodbav:"type" json:"type"`
	Message  string                 `dynamodbav:"message" json:"message"`
	Read     bool                   `dynamodbav:"read" json:"read"`
	Metadata map[string]interface{} `dynamodbav:"metadata,omitempty" json:"metadata,omitempty"`
}

// NotificationsTable is the DynamoDB table name for notifications
const NotificationsTable = "Notifications"
