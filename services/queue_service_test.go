package services

import (
	"context"
	"errors"
	"testing"

	"poolhall_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type startedMatch struct {
	tableID  string
	teams    []models.Team
	raceTo   int
	metadata map[string]interface{}
}

// fakeMatchStarter records follow-up match requests from the rotation engine
type fakeMatchStarter struct {
	calls []startedMatch
	err   error
}

func (f *fakeMatchStarter) StartMatch(ctx context.Context, tableID string, teams []models.Team, raceTo int, metadata map[string]interface{}) (*models.Match, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, startedMatch{tableID: tableID, teams: teams, raceTo: raceTo, metadata: metadata})
	return &models.Match{ID: "follow-up", TableID: tableID, Teams: teams}, nil
}

func newQueueFixture() (*fakeDynamo, *fakeMatchStarter, *QueueService) {
	fake := newFakeDynamo()
	starter := &fakeMatchStarter{}
	qs := &QueueService{Dynamo: &DynamoService{Client: fake}, Matches: starter}
	return fake, starter, qs
}

func seedQueue(t *testing.T, fake *fakeDynamo, tableID string, playerIDs ...string) []models.QueueEntry {
	t.Helper()
	entries := make([]models.QueueEntry, 0, len(playerIDs))
	for i, playerID := range playerIDs {
		entry := models.QueueEntry{
			ID:       "entry-" + playerID,
			TableID:  tableID,
			PlayerID: playerID,
			Position: i + 1,
		}
		fake.seed(t, models.QueueEntriesTable, entry)
		entries = append(entries, entry)
	}
	return entries
}

func finishedMatch(winnerID, loserID string, raceTo int) *models.Match {
	return &models.Match{
		ID:      "finished",
		TableID: "table-1",
		Teams: []models.Team{
			{Name: "Winners", Players: []string{winnerID}, BallGroup: models.BallGroupStripes},
			{Name: "Losers", Players: []string{loserID}, BallGroup: models.BallGroupSolids},
		},
		Score:  models.Score{CurrentScore: []int{raceTo, 0}, GamesToWin: raceTo},
		Status: models.MatchStatusActive,
	}
}

func queuePlayers(t *testing.T, qs *QueueService, tableID string) []string {
	t.Helper()
	queue, err := qs.GetQueue(context.Background(), tableID)
	require.NoError(t, err)
	players := make([]string, 0, len(queue))
	for i, entry := range queue {
		assert.Equal(t, i+1, entry.Position, "positions must stay dense")
		players = append(players, entry.PlayerID)
	}
	return players
}

func TestAddToQueueAppendsAtTail(t *testing.T) {
	_, _, qs := newQueueFixture()

	first, err := qs.AddToQueue(context.Background(), "table-1", "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Position)

	second, err := qs.AddToQueue(context.Background(), "table-1", "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Position)

	_, err = qs.AddToQueue(context.Background(), "table-1", "alice")
	assert.Error(t, err, "a player holds at most one spot per table")
}

func TestRemoveFromQueueClosesGap(t *testing.T) {
	fake, _, qs := newQueueFixture()
	entries := seedQueue(t, fake, "table-1", "alice", "bob", "carol")

	require.NoError(t, qs.RemoveFromQueue(context.Background(), entries[1].ID))

	assert.Equal(t, []string{"alice", "carol"}, queuePlayers(t, qs, "table-1"))
}

func TestToggleSkipFlipsFlag(t *testing.T) {
	fake, _, qs := newQueueFixture()
	entries := seedQueue(t, fake, "table-1", "alice")

	entry, err := qs.ToggleSkip(context.Background(), entries[0].ID)
	require.NoError(t, err)
	assert.True(t, entry.Skipped)

	entry, err = qs.ToggleSkip(context.Background(), entries[0].ID)
	require.NoError(t, err)
	assert.False(t, entry.Skipped)
}

func TestRotationWinnerStaysOnEmptyQueue(t *testing.T) {
	_, starter, qs := newQueueFixture()
	match := &models.Match{
		ID:      "finished",
		TableID: "table-1",
		Teams: []models.Team{
			{Name: "Winners", Players: []string{"winner"}},
			{Name: "Empty", Players: []string{}},
		},
	}

	result := qs.ProcessQueueAfterMatch(context.Background(), "table-1", match, 0)

	assert.True(t, result.WinnerStays)
	assert.False(t, result.TableAvailable)
	assert.False(t, result.NewMatchCreated)
	assert.Empty(t, result.NextPlayerID)
	assert.Empty(t, starter.calls)
}

func TestRotationNoWinnerFreesTable(t *testing.T) {
	_, starter, qs := newQueueFixture()
	match := &models.Match{
		ID:      "finished",
		TableID: "table-1",
		Teams:   []models.Team{{Players: []string{}}, {Players: []string{}}},
	}

	result := qs.ProcessQueueAfterMatch(context.Background(), "table-1", match, 0)

	assert.False(t, result.WinnerStays)
	assert.True(t, result.TableAvailable)
	assert.Empty(t, starter.calls)
}

func TestRotationPairsWinnerWithQueueHead(t *testing.T) {
	fake, starter, qs := newQueueFixture()
	fake.seed(t, models.PlayersTable, models.Player{ID: "alice", Name: "Alice", Rating: 1500})
	seedQueue(t, fake, "table-1", "alice", "bob")

	result := qs.ProcessQueueAfterMatch(context.Background(), "table-1", finishedMatch("winner", "loser", 3), 0)

	assert.True(t, result.WinnerStays)
	assert.False(t, result.TableAvailable)
	assert.True(t, result.QueueUpdated)
	assert.True(t, result.NewMatchCreated)
	assert.Equal(t, "alice", result.NextPlayerID)

	require.Len(t, starter.calls, 1)
	call := starter.calls[0]
	assert.Equal(t, "table-1", call.tableID)
	assert.Equal(t, 3, call.raceTo)
	require.Len(t, call.teams, 2)
	assert.Equal(t, []string{"winner"}, call.teams[0].Players)
	assert.Equal(t, []string{"alice"}, call.teams[1].Players)
	assert.Equal(t, "Alice", call.teams[1].Name, "challenger team named after the waiting player")

	// Loser joined the tail, the seated player left, and the run stayed dense.
	assert.Equal(t, []string{"bob", "loser"}, queuePlayers(t, qs, "table-1"))
}

func TestRotationTwoPlayersRematchWithSwappedSides(t *testing.T) {
	_, starter, qs := newQueueFixture()

	result := qs.ProcessQueueAfterMatch(context.Background(), "table-1", finishedMatch("winner", "loser", 5), 0)

	assert.True(t, result.WinnerStays)
	assert.False(t, result.TableAvailable)
	assert.True(t, result.NewMatchCreated)
	assert.Equal(t, "loser", result.NextPlayerID)

	require.Len(t, starter.calls, 1)
	call := starter.calls[0]
	assert.Equal(t, 5, call.raceTo)
	assert.Equal(t, []string{"loser"}, call.teams[0].Players, "sides swap for the rematch")
	assert.Equal(t, []string{"winner"}, call.teams[1].Players)
	assert.Equal(t, models.BallGroupUndecided, call.teams[0].BallGroup)

	// The loser is seated in the rematch, not waiting.
	assert.Empty(t, queuePlayers(t, qs, "table-1"))
}

func TestRotationLoserAlreadyQueuedIsNotDuplicated(t *testing.T) {
	fake, starter, qs := newQueueFixture()
	seedQueue(t, fake, "table-1", "loser", "alice")

	result := qs.ProcessQueueAfterMatch(context.Background(), "table-1", finishedMatch("winner", "loser", 3), 0)

	assert.Equal(t, "loser", result.NextPlayerID)
	assert.True(t, result.NewMatchCreated)
	require.Len(t, starter.calls, 1)
	assert.Equal(t, []string{"loser"}, starter.calls[0].teams[1].Players)

	assert.Equal(t, []string{"alice"}, queuePlayers(t, qs, "table-1"))
}

func TestRotationKeepsQueueWhenMatchCreationFails(t *testing.T) {
	fake, starter, qs := newQueueFixture()
	starter.err = errors.New("store unavailable")
	seedQueue(t, fake, "table-1", "alice")

	result := qs.ProcessQueueAfterMatch(context.Background(), "table-1", finishedMatch("winner", "loser", 3), 0)

	assert.True(t, result.WinnerStays)
	assert.False(t, result.NewMatchCreated)
	assert.Equal(t, "alice", result.NextPlayerID, "caller can still notify the head of the queue")

	// Nobody was removed; the loser still joined the tail.
	assert.Equal(t, []string{"alice", "loser"}, queuePlayers(t, qs, "table-1"))
}

func TestRotationQueueReadFailureReturnsSafeDefault(t *testing.T) {
	fake, starter, qs := newQueueFixture()
	fake.failOn("Scan", models.QueueEntriesTable, errors.New("store unavailable"))

	result := qs.ProcessQueueAfterMatch(context.Background(), "table-1", finishedMatch("winner", "loser", 3), 0)

	assert.Equal(t, models.RotationResult{TableAvailable: true}, result)
	assert.Empty(t, starter.calls)
}

func TestRotationRejectsMultiPlayerTeams(t *testing.T) {
	_, starter, qs := newQueueFixture()
	match := &models.Match{
		ID:      "doubles",
		TableID: "table-1",
		Teams: []models.Team{
			{Players: []string{"a", "b"}},
			{Players: []string{"c"}},
		},
	}

	result := qs.ProcessQueueAfterMatch(context.Background(), "table-1", match, 0)

	assert.Equal(t, models.RotationResult{TableAvailable: true}, result)
	assert.Empty(t, starter.calls)
}

func TestRotationRejectsOutOfRangeWinnerIndex(t *testing.T) {
	_, _, qs := newQueueFixture()

	result := qs.ProcessQueueAfterMatch(context.Background(), "table-1", finishedMatch("winner", "loser", 3), 2)

	assert.Equal(t, models.RotationResult{TableAvailable: true}, result)
}
