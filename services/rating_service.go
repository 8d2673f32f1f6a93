package services

import (
	"context"
	"fmt"
	"log"

	"poolhall_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// RatingService owns player rows and the rating policy: the winner gains the
// delta with no ceiling, everyone else loses it floored at MinRating.
type RatingService struct {
	Dynamo *DynamoService
}

// GetPlayer retrieves a player by ID
func (rs *RatingService) GetPlayer(ctx context.Context, playerID string) (*models.Player, error) {
	var player models.Player
	if err := rs.Dynamo.GetItemByID(ctx, models.PlayersTable, playerID, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

// UpsertPlayer writes a player row, defaulting the rating for new players
func (rs *RatingService) UpsertPlayer(ctx context.Context, player models.Player) (*models.Player, error) {
	if player.ID == "" {
		return nil, fmt.Errorf("player id is required")
	}
	if player.Rating == 0 {
		player.Rating = models.DefaultRating
	}
	if err := rs.Dynamo.PutItem(ctx, models.PlayersTable, player); err != nil {
		return nil, err
	}
	return &player, nil
}

// UpdateRatings applies the rating delta to every listed player and returns
// initial/final pairs keyed by player ID. The result is empty when there is
// nothing to do (no players, or no winner given); missing player rows are
// skipped, never fatal. Callers treat an empty map as "no rating change".
func (rs *RatingService) UpdateRatings(ctx context.Context, playerIDs []string, winnerPlayerID string, delta int) map[string]models.RatingChange {
	changes := map[string]models.RatingChange{}
	if len(playerIDs) == 0 || winnerPlayerID == "" {
		return changes
	}
	if delta <= 0 {
		delta = models.ArchiveRatingDelta
	}

	for _, playerID := range playerIDs {
		if playerID == "" {
			continue
		}
		if _, done := changes[playerID]; done {
			continue
		}

		player, err := rs.GetPlayer(ctx, playerID)
		if err != nil {
			log.Printf("Skipping rating update for player %s: %v\n", playerID, err)
			continue
		}

		initial := player.Rating
		if initial == 0 {
			initial = models.DefaultRating
		}

		final := initial
		if playerID == winnerPlayerID {
			final = initial + delta
		} else {
			final = initial - delta
			if final < models.MinRating {
				final = models.MinRating
			}
		}

		_, err = rs.Dynamo.UpdateItem(ctx, models.PlayersTable, "SET #r = :r",
			map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: playerID}},
			map[string]types.AttributeValue{":r": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", final)}},
			map[string]string{"#r": "rating"},
		)
		if err != nil {
			log.Printf("Failed to persist rating for player %s: %v\n", playerID, err)
			continue
		}

		changes[playerID] = models.RatingChange{Initial: initial, Final: final}
	}

	return changes
}
