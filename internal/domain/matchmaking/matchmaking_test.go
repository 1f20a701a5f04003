package matchmaking_test

import (
	"testing"

	"github.com/codeduel/arena/internal/domain/matchmaking"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTargetDifficulty(t *testing.T) {
	Convey("Given the difficulty targeting rule", t, func() {
		Convey("When the player is comfortably above the floor", func() {
			Convey("Then the target should sit 100 above the rating", func() {
				So(matchmaking.TargetDifficulty(1200), ShouldEqual, 1300)
				So(matchmaking.TargetDifficulty(2400), ShouldEqual, 2500)
			})
		})

		Convey("When the player is near the floor", func() {
			Convey("Then the floor should win for low ratings", func() {
				So(matchmaking.TargetDifficulty(600), ShouldEqual, 800)
				So(matchmaking.TargetDifficulty(0), ShouldEqual, 800)
			})

			Convey("Then 700 should be the break-even rating", func() {
				So(matchmaking.TargetDifficulty(699), ShouldEqual, 800)
				So(matchmaking.TargetDifficulty(700), ShouldEqual, 800)
				So(matchmaking.TargetDifficulty(701), ShouldEqual, 801)
			})
		})

		Convey("When the rating is negative", func() {
			Convey("Then the floor should still apply", func() {
				So(matchmaking.TargetDifficulty(-500), ShouldEqual, 800)
			})
		})
	})
}
