// Package matchmaking selects problem difficulty targets for battles.
package matchmaking

// Difficulty targeting constants.
const (
	// minDifficulty floors the target so very low or negative ratings
	// still get a meaningful problem.
	minDifficulty = 800

	// challengeOffset biases problems slightly above the player's
	// current skill to keep battles meaningful.
	challengeOffset = 100
)

// TargetDifficulty maps a player rating to a recommended problem
// difficulty: max(800, rating+100).
func TargetDifficulty(playerRating int) int {
	target := playerRating + challengeOffset
	if target < minDifficulty {
		return minDifficulty
	}
	return target
}
