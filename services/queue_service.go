package services

import (
	"context"
	"fmt"
	"log"
	"sort"

	"poolhall_server/models"
	"poolhall_server/utils"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// MatchStarter is the capability the rotation engine needs from the match
// lifecycle to start follow-up matches. Injected at construction so the two
// services stay decoupled.
type MatchStarter interface {
	StartMatch(ctx context.Context, tableID string, teams []models.Team, raceTo int, metadata map[string]interface{}) (*models.Match, error)
}

// QueueService owns the per-table waiting line and the rotation decision
// made once a match ends.
type QueueService struct {
	Dynamo  *DynamoService
	Matches MatchStarter
	Feed    FeedPublisher
}

// GetQueue returns a table's queue ordered by position
func (qs *QueueService) GetQueue(ctx context.Context, tableID string) ([]models.QueueEntry, error) {
	var entries []models.QueueEntry
	err := qs.Dynamo.ScanWithMatch(ctx, models.QueueEntriesTable, map[string]string{"tableId": tableID}, nil, &entries)
	if err != nil {
		return nil, fmt.Errorf("failed to read queue for table '%s': %w", tableID, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Position < entries[j].Position })
	return entries, nil
}

// AddToQueue appends a player at the tail of a table's queue. A player can
// hold at most one spot per table.
func (qs *QueueService) AddToQueue(ctx context.Context, tableID, playerID string) (*models.QueueEntry, error) {
	if tableID == "" || playerID == "" {
		return nil, fmt.Errorf("tableId and playerId are required")
	}

	queue, err := qs.GetQueue(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if queueContains(queue, playerID) {
		return nil, fmt.Errorf("player '%s' is already queued on table '%s'", playerID, tableID)
	}

	position := 1
	if len(queue) > 0 {
		position = queue[len(queue)-1].Position + 1
	}

	entry := models.QueueEntry{
		ID:       uuid.NewString(),
		TableID:  tableID,
		PlayerID: playerID,
		Position: position,
	}
	if err := qs.Dynamo.PutItem(ctx, models.QueueEntriesTable, entry); err != nil {
		return nil, fmt.Errorf("failed to add player to queue: %w", err)
	}

	publishEvent(qs.Feed, tableID, "INSERT", entry, nil)
	return &entry, nil
}

// RemoveFromQueue deletes an entry and renumbers the table's queue
func (qs *QueueService) RemoveFromQueue(ctx context.Context, entryID string) error {
	var entry models.QueueEntry
	if err := qs.Dynamo.GetItemByID(ctx, models.QueueEntriesTable, entryID, &entry); err != nil {
		return err
	}
	return qs.removeEntry(ctx, entry)
}

// ToggleSkip flips an entry's skipped flag and returns the updated entry
func (qs *QueueService) ToggleSkip(ctx context.Context, entryID string) (*models.QueueEntry, error) {
	var entry models.QueueEntry
	if err := qs.Dynamo.GetItemByID(ctx, models.QueueEntriesTable, entryID, &entry); err != nil {
		return nil, err
	}

	_, err := qs.Dynamo.UpdateItem(ctx, models.QueueEntriesTable, "SET #s = :s",
		map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: entryID}},
		map[string]types.AttributeValue{":s": &types.AttributeValueMemberBOOL{Value: !entry.Skipped}},
		map[string]string{"#s": "skipped"},
	)
	if err != nil {
		return nil, err
	}

	entry.Skipped = !entry.Skipped
	publishEvent(qs.Feed, entry.TableID, "UPDATE", entry, nil)
	return &entry, nil
}

// ProcessQueueAfterMatch decides what happens at a table the moment a match
// ends: the winner stays, the loser is re-queued at the tail, and if anyone
// is waiting a follow-up match is started with the queue head. Any internal
// failure degrades to a safe default that frees the table rather than
// leaving it locked.
func (qs *QueueService) ProcessQueueAfterMatch(ctx context.Context, tableID string, completedMatch *models.Match, winnerTeamIndex int) models.RotationResult {
	safeDefault := models.RotationResult{TableAvailable: true}

	match := models.NormalizeMatch(completedMatch)
	if winnerTeamIndex < 0 || winnerTeamIndex > 1 {
		log.Printf("Rotation aborted for table %s: winner team index %d out of range\n", tableID, winnerTeamIndex)
		return safeDefault
	}
	for _, team := range match.Teams {
		// Rotation is defined for 1v1 only; doubles never rotate.
		if len(team.Players) > 1 {
			log.Printf("Rotation aborted for table %s: multi-player teams are not rotated\n", tableID)
			return safeDefault
		}
	}

	winnerTeam := match.Teams[winnerTeamIndex]
	loserTeam := match.Teams[1-winnerTeamIndex]

	var winnerPlayerID, loserPlayerID string
	if len(winnerTeam.Players) > 0 {
		winnerPlayerID = winnerTeam.Players[0]
	}
	if len(loserTeam.Players) > 0 {
		loserPlayerID = loserTeam.Players[0]
	}

	// Nobody to seat: the table frees up immediately.
	if winnerPlayerID == "" {
		return models.RotationResult{TableAvailable: true}
	}

	queue, err := qs.GetQueue(ctx, tableID)
	if err != nil {
		log.Printf("Rotation failed reading queue for table %s: %v\n", tableID, err)
		return safeDefault
	}

	result := models.RotationResult{
		WinnerStays:    true,
		TableAvailable: false,
		QueueUpdated:   true,
	}

	// Re-queue the loser at the tail unless they are already waiting.
	loserRequeued := false
	if loserPlayerID != "" && !queueContains(queue, loserPlayerID) {
		position := 1
		if len(queue) > 0 {
			position = queue[len(queue)-1].Position + 1
		}
		entry := models.QueueEntry{
			ID:       uuid.NewString(),
			TableID:  tableID,
			PlayerID: loserPlayerID,
			Position: position,
		}
		if err := qs.Dynamo.PutItem(ctx, models.QueueEntriesTable, entry); err != nil {
			log.Printf("Rotation failed re-queuing loser %s on table %s: %v\n", loserPlayerID, tableID, err)
			return safeDefault
		}
		publishEvent(qs.Feed, tableID, "INSERT", entry, nil)
		queue = append(queue, entry)
		loserRequeued = true
	}

	if len(queue) == 0 {
		// Winner idles at the table until someone joins or the UI starts
		// a match manually.
		return result
	}

	next := queue[0]
	result.NextPlayerID = next.PlayerID

	// Closed 2-player rotation: the freshly re-queued loser is the only one
	// waiting, so start an immediate rematch with sides swapped.
	if len(queue) == 1 && loserRequeued && next.PlayerID == loserPlayerID {
		teams := []models.Team{
			{Name: loserTeam.Name, Players: []string{loserPlayerID}, BallGroup: models.BallGroupUndecided},
			{Name: winnerTeam.Name, Players: []string{winnerPlayerID}, BallGroup: models.BallGroupUndecided},
		}
		if _, err := qs.Matches.StartMatch(ctx, tableID, teams, match.Score.GamesToWin, carryoverMetadata(match)); err != nil {
			log.Printf("Rotation failed starting rematch on table %s: %v\n", tableID, err)
			return result
		}
		if err := qs.removeEntry(ctx, next); err != nil {
			log.Printf("Rotation failed removing seated loser from queue on table %s: %v\n", tableID, err)
		}
		result.NewMatchCreated = true
		return result
	}

	// Normal rotation: pair the winner with the queue head. The notified
	// flag is set before the match is created so the UI can show who was
	// called up even if creation fails.
	if err := qs.markNotified(ctx, next.ID); err != nil {
		log.Printf("Failed to flag queue entry %s notified: %v\n", next.ID, err)
	}

	teams := []models.Team{
		{Name: winnerTeam.Name, Players: []string{winnerPlayerID}, BallGroup: models.BallGroupUndecided},
		{Name: qs.playerTeamName(ctx, next.PlayerID), Players: []string{next.PlayerID}, BallGroup: models.BallGroupUndecided},
	}
	if _, err := qs.Matches.StartMatch(ctx, tableID, teams, match.Score.GamesToWin, carryoverMetadata(match)); err != nil {
		// Leave the entry queued; the caller still gets a next player so a
		// notification can go out.
		log.Printf("Rotation failed starting next match on table %s: %v\n", tableID, err)
		return result
	}
	if err := qs.removeEntry(ctx, next); err != nil {
		log.Printf("Rotation failed removing seated player from queue on table %s: %v\n", tableID, err)
	}
	result.NewMatchCreated = true
	return result
}

// removeEntry deletes a queue entry and closes the gap it leaves
func (qs *QueueService) removeEntry(ctx context.Context, entry models.QueueEntry) error {
	if err := qs.Dynamo.DeleteItemByID(ctx, models.QueueEntriesTable, entry.ID); err != nil {
		return err
	}
	publishEvent(qs.Feed, entry.TableID, "DELETE", nil, entry)
	return qs.reorderQueue(ctx, entry.TableID)
}

// reorderQueue rewrites positions to a dense 1..N run, touching only rows
// whose position actually changed.
func (qs *QueueService) reorderQueue(ctx context.Context, tableID string) error {
	queue, err := qs.GetQueue(ctx, tableID)
	if err != nil {
		return err
	}
	for i, entry := range queue {
		want := i + 1
		if entry.Position == want {
			continue
		}
		_, err := qs.Dynamo.UpdateItem(ctx, models.QueueEntriesTable, "SET #p = :p",
			map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: entry.ID}},
			map[string]types.AttributeValue{":p": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", want)}},
			map[string]string{"#p": "position"},
		)
		if err != nil {
			return fmt.Errorf("failed to renumber queue entry '%s': %w", entry.ID, err)
		}
	}
	return nil
}

func (qs *QueueService) markNotified(ctx context.Context, entryID string) error {
	_, err := qs.Dynamo.UpdateItem(ctx, models.QueueEntriesTable, "SET #n = :n",
		map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: entryID}},
		map[string]types.AttributeValue{":n": &types.AttributeValueMemberBOOL{Value: true}},
		map[string]string{"#n": "notified"},
	)
	return err
}

// playerTeamName derives a team name for a waiting player
func (qs *QueueService) playerTeamName(ctx context.Context, playerID string) string {
	item, err := qs.Dynamo.GetItem(ctx, models.PlayersTable, map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: playerID},
	})
	if err != nil {
		return "Challenger"
	}
	if name := utils.ExtractString(item, "name"); name != "" {
		return name
	}
	return "Challenger"
}

func queueContains(queue []models.QueueEntry, playerID string) bool {
	for _, entry := range queue {
		if entry.PlayerID == playerID {
			return true
		}
	}
	return false
}

// carryoverMetadata keeps a finished match's name and type on the follow-up
// match it spawns.
func carryoverMetadata(match models.Match) map[string]interface{} {
	md := map[string]interface{}{}
	if match.Metadata != nil {
		if v, ok := match.Metadata["name"]; ok {
			md["name"] = v
		}
		if v, ok := match.Metadata["type"]; ok {
			md["type"] = v
		}
	}
	if len(md) == 0 {
		return nil
	}
	return md
}
