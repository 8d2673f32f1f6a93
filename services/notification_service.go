package services

import (
	"context"
	"fmt"

	"poolhall_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// NotificationService stores "your turn is up" notifications and mirrors
// them onto the table's realtime feed. Push transport is out of scope.
type NotificationService struct {
	Dynamo *DynamoService
	Feed   FeedPublisher
}

// SendTurnNotification tells a player their table is ready
func (ns *NotificationService) SendTurnNotification(ctx context.Context, playerID, tableID string) (*models.Notification, error) {
	notification := models.Notification{
		ID:      uuid.NewString(),
		UserID:  playerID,
		Type:    models.NotificationTypeTurn,
		Message: "Your turn is up! Head to the table.",
		Read:    false,
		Metadata: map[string]interface{}{
			"tableId": tableID,
			"action":  "turn",
		},
	}

	if err := ns.Dynamo.PutItem(ctx, models.NotificationsTable, notification); err != nil {
		return nil, fmt.Errorf("failed to store turn notification: %w", err)
	}

	publishEvent(ns.Feed, tableID, "INSERT", notification, nil)
	return &notification, nil
}

// GetNotificationsForPlayer returns all notifications for a player
func (ns *NotificationService) GetNotificationsForPlayer(ctx context.Context, playerID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := ns.Dynamo.ScanWithMatch(ctx, models.NotificationsTable, map[string]string{"userId": playerID}, nil, &notifications)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications for player '%s': %w", playerID, err)
	}
	return notifications, nil
}

// MarkNotificationRead flags a notification as read
func (ns *NotificationService) MarkNotificationRead(ctx context.Context, notificationID string) error {
	_, err := ns.Dynamo.UpdateItem(ctx, models.NotificationsTable, "SET #r = :r",
		map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: notificationID}},
		map[string]types.AttributeValue{":r": &types.AttributeValueMemberBOOL{Value: true}},
		map[string]string{"#r": "read"},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification '%s' read: %w", notificationID, err)
	}
	return nil
}
