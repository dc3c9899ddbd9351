package referee

import (
	"github.com/mazelabs/maze-referee/internal/board"
	"github.com/mazelabs/maze-referee/internal/game"
)

// DistanceMetric breaks ties between players with equal goal counts. The
// default is Euclidean distance from current position to home.
type DistanceMetric func(a, b board.Position) float64

// EuclideanDistance is the stock tie-break metric.
func EuclideanDistance(a, b board.Position) float64 {
	return a.DistanceTo(b)
}

// CalculateWinners splits the never-kicked players into winners and losers:
// the players tied at the maximum goals-reached count whose distance to home
// is minimal win, everyone else loses. Kicked players are not scored here;
// they are reported separately as cheaters.
func CalculateWinners(players []*game.PlayerRecord, metric DistanceMetric) (winners, losers []*game.PlayerRecord) {
	if metric == nil {
		metric = EuclideanDistance
	}
	maxGoals := -1
	for _, p := range players {
		if p.GoalsReached > maxGoals {
			maxGoals = p.GoalsReached
		}
	}
	best := -1.0
	for _, p := range players {
		if p.GoalsReached != maxGoals {
			continue
		}
		if d := metric(p.Position, p.Home); best < 0 || d < best {
			best = d
		}
	}
	for _, p := range players {
		if p.GoalsReached == maxGoals && metric(p.Position, p.Home) == best {
			winners = append(winners, p)
		} else {
			losers = append(losers, p)
		}
	}
	return winners, losers
}
