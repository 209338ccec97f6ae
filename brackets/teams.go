package brackets

import "github.com/opencourt/tennis-tour/models"

// AssignPlayersToTeams splits a drawn player set into the two sides of
// a match. Singles expects 2 players, doubles 4. Any other count is
// the placeholder path: both teams are returned with their slot number
// set but no players, which is the expected shape for every match
// after the first round. The returned ids preserve draw order and feed
// the same-round exclusion list.
func AssignPlayersToTeams(matchType models.MatchType, players []models.Player) (team1, team2 models.Team, drawnPlayerIDs []int) {
	if matchType == models.MatchTypeSingles && len(players) == 2 {
		team1 = models.Team{Number: 1, Player1: &players[0].ID}
		team2 = models.Team{Number: 2, Player1: &players[1].ID}
		return team1, team2, playerIDs(players)
	}

	if matchType == models.MatchTypeDoubles && len(players) == 4 {
		team1 = models.Team{Number: 1, Player1: &players[0].ID, Player2: &players[1].ID}
		team2 = models.Team{Number: 2, Player1: &players[2].ID, Player2: &players[3].ID}
		return team1, team2, playerIDs(players)
	}

	return models.Team{Number: 1}, models.Team{Number: 2}, nil
}

func playerIDs(players []models.Player) []int {
	ids := make([]int, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.ID)
	}
	return ids
}

// PlayersPerMatch returns how many players a first-round match of the
// given type consumes from the pool.
func PlayersPerMatch(matchType models.MatchType) int {
	if matchType == models.MatchTypeDoubles {
		return 4
	}
	return 2
}
