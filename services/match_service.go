package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"poolhall_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// activeMatchesTimeout bounds the player-facing active-match read. On
// deadline the caller gets an empty result plus the error instead of
// blocking forever.
const activeMatchesTimeout = 15 * time.Second

// MatchService orchestrates the match lifecycle: start, score updates,
// end-of-match rotation, and terminal archival.
type MatchService struct {
	Dynamo        *DynamoService
	Tables        *TableService
	Queue         *QueueService
	Ratings       *RatingService
	Notifications *NotificationService
	Exports       *ArchiveExportService
	Feed          FeedPublisher
}

// StartMatch inserts an active match and marks the table occupied. Either
// write failing propagates; a failed availability write after a successful
// insert leaves a detectable inconsistency rather than rolling back.
func (ms *MatchService) StartMatch(ctx context.Context, tableID string, teams []models.Team, raceTo int, metadata map[string]interface{}) (*models.Match, error) {
	if tableID == "" {
		return nil, fmt.Errorf("tableId is required")
	}
	if raceTo <= 0 {
		raceTo = 1
	}

	active, err := ms.GetActiveMatchForTable(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to check table '%s' for an active match: %w", tableID, err)
	}
	if active != nil {
		return nil, fmt.Errorf("table '%s' already has an active match", tableID)
	}

	match := models.Match{
		ID:        uuid.NewString(),
		TableID:   tableID,
		Teams:     models.NormalizeTeams(teams),
		Score:     models.Score{CurrentScore: []int{0, 0}, GamesToWin: raceTo},
		Status:    models.MatchStatusActive,
		StartTime: time.Now().UTC().Format(time.RFC3339),
		Metadata:  metadata,
	}

	if err := ms.Dynamo.PutItem(ctx, models.MatchesTable, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	if err := ms.Tables.SetAvailability(ctx, tableID, false); err != nil {
		return nil, fmt.Errorf("match %s created but table not marked occupied: %w", match.ID, err)
	}

	publishEvent(ms.Feed, tableID, "INSERT", match, nil)
	return &match, nil
}

// GetMatch retrieves a live match by ID
func (ms *MatchService) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	var match models.Match
	if err := ms.Dynamo.GetItemByID(ctx, models.MatchesTable, matchID, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// GetActiveMatchForTable returns the table's active match, or nil
func (ms *MatchService) GetActiveMatchForTable(ctx context.Context, tableID string) (*models.Match, error) {
	var matches []models.Match
	err := ms.Dynamo.ScanWithMatch(ctx, models.MatchesTable,
		map[string]string{"tableId": tableID, "status": models.MatchStatusActive}, nil, &matches)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

// GetActiveMatchesForPlayer returns every active match the player is seated
// in. The read runs under a 15s deadline; on failure the result is empty
// but usable alongside the error.
func (ms *MatchService) GetActiveMatchesForPlayer(ctx context.Context, playerID string) ([]models.Match, error) {
	ctx, cancel := context.WithTimeout(ctx, activeMatchesTimeout)
	defer cancel()

	var matches []models.Match
	err := ms.Dynamo.ScanWithMatch(ctx, models.MatchesTable,
		map[string]string{"status": models.MatchStatusActive}, nil, &matches)
	if err != nil {
		return []models.Match{}, fmt.Errorf("failed to fetch active matches for player '%s': %w", playerID, err)
	}

	var mine []models.Match
	for _, match := range matches {
		for _, team := range match.Teams {
			if teamHasPlayer(team, playerID) {
				mine = append(mine, match)
				break
			}
		}
	}
	return mine, nil
}

// UpdateScore writes a new running score, preserving the race-to target.
// In-progress scores are trusted from the caller; only end-of-match applies
// a guard.
func (ms *MatchService) UpdateScore(ctx context.Context, matchID string, score []int) (*models.Match, error) {
	if len(score) != 2 {
		return nil, fmt.Errorf("score must have exactly two entries")
	}

	match, err := ms.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	current := models.NormalizeMatch(match)

	newScore := models.Score{CurrentScore: score, GamesToWin: current.Score.GamesToWin}
	scoreValue, err := attributevalue.Marshal(newScore)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal score: %w", err)
	}

	_, err = ms.Dynamo.UpdateItem(ctx, models.MatchesTable, "SET #sc = :sc",
		map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: matchID}},
		map[string]types.AttributeValue{":sc": scoreValue},
		map[string]string{"#sc": "score"},
	)
	if err != nil {
		return nil, err
	}

	current.Score = newScore
	publishEvent(ms.Feed, current.TableID, "UPDATE", current, nil)
	return &current, nil
}

// EndMatch completes a match and runs the rotation on its pre-completion
// snapshot. Rotation, availability, notification and archival are each
// caught independently so a downstream failure never blocks ending the
// match.
func (ms *MatchService) EndMatch(ctx context.Context, matchID, tableID string, winnerTeamIndex int) (*models.RotationResult, error) {
	match, err := ms.GetMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load match '%s': %w", matchID, err)
	}
	snapshot := models.NormalizeMatch(match)

	completed := snapshot
	completed.Status = models.MatchStatusCompleted
	completed.EndTime = time.Now().UTC().Format(time.RFC3339)
	md := map[string]interface{}{}
	for k, v := range snapshot.Metadata {
		md[k] = v
	}
	md["winnerTeamIndex"] = winnerTeamIndex
	completed.Metadata = md

	if err := ms.Dynamo.PutItem(ctx, models.MatchesTable, completed); err != nil {
		return nil, fmt.Errorf("failed to complete match '%s': %w", matchID, err)
	}

	result := ms.Queue.ProcessQueueAfterMatch(ctx, tableID, &snapshot, winnerTeamIndex)

	if err := ms.Tables.SetAvailability(ctx, tableID, result.TableAvailable); err != nil {
		log.Printf("Failed to apply availability to table %s after rotation: %v\n", tableID, err)
	}

	if result.NextPlayerID != "" {
		if _, err := ms.Notifications.SendTurnNotification(ctx, result.NextPlayerID, tableID); err != nil {
			log.Printf("Failed to notify next player %s on table %s: %v\n", result.NextPlayerID, tableID, err)
		}
	}

	if err := ms.archiveMatch(ctx, matchID, models.ArchiveRatingDelta); err != nil {
		log.Printf("Failed to archive match %s: %v\n", matchID, err)
	}

	publishEvent(ms.Feed, tableID, "UPDATE", completed, snapshot)
	return &result, nil
}

// CompleteMatchDirect is the second completion path (admin tooling): the
// match is completed and archived without any queue rotation and the table
// frees up. This path applies its own rating delta.
func (ms *MatchService) CompleteMatchDirect(ctx context.Context, matchID, tableID string, winnerTeamIndex int) error {
	match, err := ms.GetMatch(ctx, matchID)
	if err != nil {
		return fmt.Errorf("failed to load match '%s': %w", matchID, err)
	}
	completed := models.NormalizeMatch(match)
	completed.Status = models.MatchStatusCompleted
	completed.EndTime = time.Now().UTC().Format(time.RFC3339)
	if completed.Metadata == nil {
		completed.Metadata = map[string]interface{}{}
	}
	completed.Metadata["winnerTeamIndex"] = winnerTeamIndex

	if err := ms.Dynamo.PutItem(ctx, models.MatchesTable, completed); err != nil {
		return fmt.Errorf("failed to complete match '%s': %w", matchID, err)
	}
	if err := ms.Tables.SetAvailability(ctx, tableID, true); err != nil {
		log.Printf("Failed to free table %s after direct completion: %v\n", tableID, err)
	}

	publishEvent(ms.Feed, tableID, "UPDATE", completed, nil)
	return ms.archiveMatch(ctx, matchID, models.DirectCompletionRatingDelta)
}

// ArchiveMatch moves a completed match into its immutable archive row. Safe
// to call again after success: a missing match row means it was already
// archived and the call is a no-op.
func (ms *MatchService) ArchiveMatch(ctx context.Context, matchID string) error {
	return ms.archiveMatch(ctx, matchID, models.ArchiveRatingDelta)
}

func (ms *MatchService) archiveMatch(ctx context.Context, matchID string, ratingDelta int) error {
	var stored models.Match
	if err := ms.Dynamo.GetItemByID(ctx, models.MatchesTable, matchID, &stored); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			log.Printf("Match %s already archived, nothing to do\n", matchID)
			return nil
		}
		return fmt.Errorf("failed to load match '%s' for archival: %w", matchID, err)
	}
	match := models.NormalizeMatch(&stored)

	winnerTeamIndex := metadataInt(match.Metadata, "winnerTeamIndex", 0)
	if winnerTeamIndex != 0 && winnerTeamIndex != 1 {
		winnerTeamIndex = 0
	}
	winnerTeam := match.Teams[winnerTeamIndex]
	loserTeam := match.Teams[1-winnerTeamIndex]

	var players []string
	for _, id := range append(append([]string{}, winnerTeam.Players...), loserTeam.Players...) {
		if id != "" {
			players = append(players, id)
		}
	}
	if len(players) == 0 {
		// The archive row requires a non-empty player set.
		players = []string{uuid.NewString()}
	}

	var winnerPlayerID string
	if len(winnerTeam.Players) > 0 {
		winnerPlayerID = winnerTeam.Players[0]
	}

	ratingChanges := ms.Ratings.UpdateRatings(ctx, players, winnerPlayerID, ratingDelta)

	archive := models.MatchArchive{
		ID:              uuid.NewString(),
		MatchID:         match.ID,
		TableID:         match.TableID,
		Players:         players,
		FinalScore:      match.Score.CurrentScore,
		WinnerPlayerID:  winnerPlayerID,
		StartTime:       match.StartTime,
		EndTime:         match.EndTime,
		DurationMinutes: durationMinutes(match.StartTime, match.EndTime),
		WinnerTeam:      winnerTeam.Name,
		LoserTeam:       loserTeam.Name,
		MatchType:       metadataString(match.Metadata, "type"),
		RatingChanges:   ratingChanges,
		Metadata: map[string]interface{}{
			"name":            metadataString(match.Metadata, "name"),
			"winnerTeamIndex": winnerTeamIndex,
			"teams":           match.Teams,
		},
	}

	// The insert must land before the live row goes away; a failure here is
	// loud and retryable since the match row is intact.
	if err := ms.Dynamo.PutItem(ctx, models.MatchArchivesTable, archive); err != nil {
		return fmt.Errorf("failed to insert archive for match '%s': %w", matchID, err)
	}

	if ms.Exports != nil {
		if key, err := ms.Exports.ExportArchive(ctx, archive); err != nil {
			log.Printf("Failed to export archive %s: %v\n", archive.ID, err)
		} else {
			log.Printf("Exported archive %s to %s\n", archive.ID, key)
		}
	}

	if err := ms.Dynamo.DeleteItemByID(ctx, models.MatchesTable, matchID); err != nil {
		// Archive and live row now coexist; surfaced on re-query.
		log.Printf("Archive inserted but match %s not deleted: %v\n", matchID, err)
		return nil
	}

	publishEvent(ms.Feed, match.TableID, "DELETE", nil, match)
	return nil
}

func durationMinutes(start, end string) int {
	startTime, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return 0
	}
	endTime, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return 0
	}
	return int(math.Round(endTime.Sub(startTime).Minutes()))
}

func teamHasPlayer(team models.Team, playerID string) bool {
	for _, id := range team.Players {
		if id == playerID {
			return true
		}
	}
	return false
}

// Metadata round-trips through the store as untyped JSON, so numbers come
// back as float64.
func metadataInt(md map[string]interface{}, key string, def int) int {
	if md == nil {
		return def
	}
	switch v := md[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

func metadataString(md map[string]interface{}, key string) string {
	if md == nil {
		return ""
	}
	if v, ok := md[key].(string); ok {
		return v
	}
	return ""
}
