package services

import (
	"context"
	"fmt"

	"poolhall_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TableService reads pool tables and flips their availability. Venue and
// table management itself lives elsewhere; the engine only consumes tables.
type TableService struct {
	Dynamo *DynamoService
}

// GetTable retrieves a table by ID
func (ts *TableService) GetTable(ctx context.Context, tableID string) (*models.Table, error) {
	var table models.Table
	if err := ts.Dynamo.GetItemByID(ctx, models.TablesTable, tableID, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// SetAvailability marks a table free or occupied
func (ts *TableService) SetAvailability(ctx context.Context, tableID string, available bool) error {
	_, err := ts.Dynamo.UpdateItem(ctx, models.TablesTable, "SET #a = :a",
		map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: tableID}},
		map[string]types.AttributeValue{":a": &types.AttributeValueMemberBOOL{Value: available}},
		map[string]string{"#a": "isAvailable"},
	)
	if err != nil {
		return fmt.Errorf("failed to update availability for table '%s': %w", tableID, err)
	}
	return nil
}

// ListTablesByVenue returns all tables registered at a venue
func (ts *TableService) ListTablesByVenue(ctx context.Context, venueID string) ([]models.Table, error) {
	var tables []models.Table
	err := ts.Dynamo.ScanWithMatch(ctx, models.TablesTable, map[string]string{"venueId": venueID}, nil, &tables)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables for venue '%s': %w", venueID, err)
	}
	return tables, nil
}
