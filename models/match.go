package models

import "fmt"

// Team is one side of a match. Home is index 0, away is index 1. Rotation
// assumes one player per team; the slice exists because doubles are stored
// the same way even though they are never rotated.
type Team struct {
	Name      string   `dynamodbav:"name" json:"name"`
	Players   []string `dynamodbav:"players" json:"players"`
	BallGroup string   `dynamodbav:"ballGroup" json:"ballGroup"`
}

// Score holds the running game count and the race-to target
type Score struct {
	CurrentScore []int `dynamodbav:"currentScore" json:"currentScore"`
	GamesToWin   int   `dynamodbav:"gamesToWin" json:"gamesToWin"`
}

// Match represents a live match on a table
type Match struct {
	ID        string                 `dynamodbav:"id" json:"id"`
	TableID   string                 `dynamodbav:"tableId" json:"tableId"`
	Teams     []Team                 `dynamodbav:"teams" json:"teams"`
	Score     Score                  `dynamodbav:"score" json:"score"`
	Status    string                 `dynamodbav:"status" json:"status"`
	StartTime string                 `dynamodbav:"startTime" json:"startTime"`
	EndTime   string                 `dynamodbav:"endTime,omitempty" json:"endTime,omitempty"`
	Metadata  map[string]interface{} `dynamodbav:"metadata,omitempty" json:"metadata,omitempty"`
}

// MatchesTable is the DynamoDB table name for live matches
const MatchesTable = "Matches"

// NormalizeScore returns a safe score shape. Malformed data from storage is
// never fatal: a missing or short score becomes [0,0], a missing race-to
// becomes 3.
func NormalizeScore(s Score) Score {
	out := s
	if len(out.CurrentScore) != 2 {
		out.CurrentScore = []int{0, 0}
	}
	if out.GamesToWin <= 0 {
		out.GamesToWin = 3
	}
	return out
}

// NormalizeTeams returns exactly two teams, padding with placeholders and
// defaulting empty names and ball groups.
func NormalizeTeams(teams []Team) []Team {
	out := make([]Team, 2)
	for i := 0; i < 2; i++ {
		if i < len(teams) {
			out[i] = teams[i]
		}
		if out[i].Name == "" {
			out[i].Name = fmt.Sprintf("Team %d", i+1)
		}
		if out[i].BallGroup == "" {
			out[i].BallGroup = BallGroupUndecided
		}
		if out[i].Players == nil {
			out[i].Players = []string{}
		}
	}
	return out
}

// NormalizeMatch applies the per-entity validation contract at the store
// boundary: always return a usable match, never fail.
func NormalizeMatch(m *Match) Match {
	if m == nil {
		m = &Match{}
	}
	out := *m
	out.Teams = NormalizeTeams(out.Teams)
	out.Score = NormalizeScore(out.Score)
	if out.Status == "" {
		out.Status = MatchStatusActive
	}
	return out
}
