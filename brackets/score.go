package brackets

import (
	"time"

	"github.com/google/uuid"
	"github.com/opencourt/tennis-tour/models"
)

// ScoreOutcome tells a caller what a scoring attempt did. The rejected
// outcomes are tolerated no-ops so unreliable clients can replay a
// point request without corrupting the match, but they stay
// distinguishable for logging.
type ScoreOutcome string

const (
	OutcomePointScored   ScoreOutcome = "POINT_SCORED"
	OutcomeMatchFinished ScoreOutcome = "MATCH_FINISHED"
	// OutcomeRejectedState: the match is suspended or already finished.
	OutcomeRejectedState ScoreOutcome = "REJECTED_STATE"
	// OutcomeRejectedTeams: at least one side has no slot number yet.
	OutcomeRejectedTeams ScoreOutcome = "REJECTED_TEAMS"
	// OutcomeRejectedUnknownPlayer: the scoring player belongs to
	// neither team.
	OutcomeRejectedUnknownPlayer ScoreOutcome = "REJECTED_UNKNOWN_PLAYER"
)

// ScoreResult is what a single point did to the match. Finished is set
// only when the point ended a non-final match and a winner has to be
// advanced.
type ScoreResult struct {
	Outcome  ScoreOutcome
	Finished *models.MatchFinished
}

// ScorePoint applies one point won by playerID to the match and
// derives game, set and match completion.
//
// Scoring: a game needs 4 points (7 in the 6-6 tie-break) and a two
// point lead; a set needs 6 games with the opponent under 5, or 7
// games in a tie-break set; the match is best of three sets. Points
// and games are cleared when their containing unit completes, the set
// history records the game score of every completed set, and all won
// counts are recomputed from the sequences after each clear rather
// than kept as counters.
//
// The match is mutated in place; persistence and event dispatch belong
// to the caller.
func ScorePoint(match *models.Match, playerID int, now time.Time) ScoreResult {
	if match.State != "" && match.State != models.MatchStateNotBegun && match.State != models.MatchStateInProgress {
		return ScoreResult{Outcome: OutcomeRejectedState}
	}

	if match.Score == nil {
		match.Score = models.NewScore()
		match.State = models.MatchStateInProgress
		match.StartDate = &now
	}

	if match.Team1.Number == 0 || match.Team2.Number == 0 {
		return ScoreResult{Outcome: OutcomeRejectedTeams}
	}

	var teamWonPoint int
	switch {
	case match.Team1.HasPlayer(playerID):
		teamWonPoint = match.Team1.Number
	case match.Team2.HasPlayer(playerID):
		teamWonPoint = match.Team2.Number
	default:
		return ScoreResult{Outcome: OutcomeRejectedUnknownPlayer}
	}

	score := match.Score
	score.Points = append(score.Points, models.ScorePair{len(score.Points), teamWonPoint})

	team1Points := models.CountWonBy(score.Points, match.Team1.Number)
	team2Points := models.CountWonBy(score.Points, match.Team2.Number)
	team1Games := models.CountWonBy(score.Games, match.Team1.Number)
	team2Games := models.CountWonBy(score.Games, match.Team2.Number)

	// An ordinary game takes 4 points; at six games all the set goes to
	// a 7 point tie-break. Either way a two point lead is required.
	minPointsToWinGame := 4
	if team1Games == 6 && team2Games == 6 {
		minPointsToWinGame = 7
	}
	if (team1Points >= minPointsToWinGame && team1Points-team2Points > 1) ||
		(team2Points >= minPointsToWinGame && team2Points-team1Points > 1) {
		score.Games = append(score.Games, models.ScorePair{len(score.Games), teamWonPoint})
		score.Points = []models.ScorePair{}
	}

	team1Games = models.CountWonBy(score.Games, match.Team1.Number)
	team2Games = models.CountWonBy(score.Games, match.Team2.Number)

	if (teamWonPoint == match.Team1.Number &&
		((team1Games == 6 && team2Games < 5) || (team1Games == 7 && team2Games >= 5))) ||
		(teamWonPoint == match.Team2.Number &&
			((team2Games == 6 && team1Games < 5) || (team2Games == 7 && team1Games >= 5))) {
		score.Sets = append(score.Sets, models.ScorePair{len(score.Sets), teamWonPoint})
		score.Games = []models.ScorePair{}
		score.History = append(score.History, models.ScorePair{team1Games, team2Games})
	}

	team1Sets := models.CountWonBy(score.Sets, match.Team1.Number)
	team2Sets := models.CountWonBy(score.Sets, match.Team2.Number)

	if team1Sets != 2 && team2Sets != 2 {
		return ScoreResult{Outcome: OutcomePointScored}
	}

	score.Sets = []models.ScorePair{}
	match.State = models.MatchStateFinished
	match.EndDate = &now

	if teamWonPoint == match.Team1.Number {
		match.Team1.IsWinner = true
	} else {
		match.Team2.IsWinner = true
	}

	result := ScoreResult{Outcome: OutcomeMatchFinished}
	if match.Round != models.RoundFinal {
		winner := match.Team1
		if match.Team2.IsWinner {
			winner = match.Team2
		}
		result.Finished = &models.MatchFinished{
			EventID:    uuid.NewString(),
			MatchID:    match.ID,
			Round:      match.Round,
			Number:     match.Number,
			Team:       winner,
			CalendarID: match.CalendarID,
		}
	}
	return result
}
