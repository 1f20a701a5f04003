package rating_test

import (
	"testing"

	"github.com/codeduel/arena/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func TestKFactor(t *testing.T) {
	Convey("Given the K-factor tiers", t, func() {
		Convey("When the rating is above 2400", func() {
			Convey("Then K should be 10", func() {
				So(rating.KFactor(2401), ShouldEqual, 10)
				So(rating.KFactor(2800), ShouldEqual, 10)
			})
		})

		Convey("When the rating is exactly 2400", func() {
			Convey("Then K should be 24", func() {
				So(rating.KFactor(2400), ShouldEqual, 24)
			})
		})

		Convey("When the rating is above 2100", func() {
			Convey("Then K should be 24", func() {
				So(rating.KFactor(2101), ShouldEqual, 24)
				So(rating.KFactor(2399), ShouldEqual, 24)
			})
		})

		Convey("When the rating is exactly 2100", func() {
			Convey("Then K should be 32", func() {
				So(rating.KFactor(2100), ShouldEqual, 32)
			})
		})

		Convey("When the rating is below 2100", func() {
			Convey("Then K should be 32", func() {
				So(rating.KFactor(1000), ShouldEqual, 32)
				So(rating.KFactor(0), ShouldEqual, 32)
			})
		})
	})
}

func TestExpectedScore(t *testing.T) {
	Convey("Given the expected score curve", t, func() {
		Convey("When two players are equally rated", func() {
			Convey("Then the expected score should be 0.5", func() {
				So(rating.ExpectedScore(1500, 1500), ShouldEqual, 0.5)
			})
		})

		Convey("When the opponent is exactly 400 points stronger", func() {
			e := rating.ExpectedScore(1000, 1400)

			Convey("Then the expected score should be 1/11", func() {
				So(e, ShouldAlmostEqual, 1.0/11.0, 1e-12)
			})
		})

		Convey("When the opponent is exactly 400 points weaker", func() {
			e := rating.ExpectedScore(1400, 1000)

			Convey("Then the expected score should be 10/11", func() {
				So(e, ShouldAlmostEqual, 10.0/11.0, 1e-12)
			})
		})

		Convey("When rating distances grow", func() {
			Convey("Then expected scores should stay strictly between 0 and 1", func() {
				for _, gap := range []int{100, 800, 2000} {
					e := rating.ExpectedScore(1500, 1500+gap)
					So(e, ShouldBeGreaterThan, 0.0)
					So(e, ShouldBeLessThan, 0.5)
				}
			})
		})

		Convey("Then the two directions should sum to one", func() {
			a := rating.ExpectedScore(1200, 1900)
			b := rating.ExpectedScore(1900, 1200)
			So(a+b, ShouldAlmostEqual, 1.0, 1e-12)
		})
	})
}

func TestNewRating(t *testing.T) {
	Convey("Given the rating update rule", t, func() {
		Convey("When equally rated players play", func() {
			Convey("And the reporting player wins", func() {
				next, err := rating.NewRating(1000, 1000, rating.Win)

				Convey("Then the rating should gain half of K", func() {
					So(err, ShouldBeNil)
					So(next, ShouldEqual, 1016)
				})
			})

			Convey("And the reporting player loses", func() {
				next, err := rating.NewRating(1000, 1000, rating.Loss)

				Convey("Then the rating should drop half of K", func() {
					So(err, ShouldBeNil)
					So(next, ShouldEqual, 984)
				})
			})

			Convey("And the game is a draw", func() {
				next, err := rating.NewRating(1000, 1000, rating.Draw)

				Convey("Then the rating should not move", func() {
					So(err, ShouldBeNil)
					So(next, ShouldEqual, 1000)
				})
			})
		})

		Convey("When a master-tier player beats an equal opponent", func() {
			next, err := rating.NewRating(2401, 2401, rating.Win)

			Convey("Then the gain should use K=10", func() {
				So(err, ShouldBeNil)
				So(next, ShouldEqual, 2406)
			})
		})

		Convey("When a candidate-tier player beats an equal opponent", func() {
			next, err := rating.NewRating(2101, 2101, rating.Win)

			Convey("Then the gain should use K=24", func() {
				So(err, ShouldBeNil)
				So(next, ShouldEqual, 2113)
			})
		})

		Convey("When an underdog wins", func() {
			next, err := rating.NewRating(1000, 1400, rating.Win)

			Convey("Then the gain should be near the full K", func() {
				// 1000 + 32*(1 - 1/11) = 1029.09..., rounds to 1029
				So(err, ShouldBeNil)
				So(next, ShouldEqual, 1029)
			})
		})

		Convey("When a favorite loses", func() {
			next, err := rating.NewRating(1400, 1000, rating.Loss)

			Convey("Then the loss should be near the full K", func() {
				// 1400 + 32*(0 - 10/11) = 1370.9..., rounds to 1371
				So(err, ShouldBeNil)
				So(next, ShouldEqual, 1371)
			})
		})

		Convey("When a stronger win would gain less than a weaker win", func() {
			strong, err1 := rating.NewRating(1500, 1800, rating.Win)
			weak, err2 := rating.NewRating(1500, 1200, rating.Win)

			Convey("Then beating the stronger opponent should pay more", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(strong-1500, ShouldBeGreaterThan, weak-1500)
			})
		})

		Convey("When a zero-rated player loses to an equal opponent", func() {
			next, err := rating.NewRating(0, 0, rating.Loss)

			Convey("Then the rating should go negative with no floor applied", func() {
				So(err, ShouldBeNil)
				So(next, ShouldEqual, -16)
			})
		})

		Convey("When the current rating is very low and the player loses", func() {
			next, err := rating.NewRating(5, 2000, rating.Loss)

			Convey("Then the rating should still drop", func() {
				So(err, ShouldBeNil)
				So(next, ShouldBeLessThanOrEqualTo, 5)
			})
		})

		Convey("When the outcome is invalid", func() {
			_, err := rating.NewRating(1000, 1000, rating.Outcome(0.7))

			Convey("Then it should report an invalid outcome", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "invalid outcome")
			})
		})
	})
}

func TestOpposite(t *testing.T) {
	Convey("Given a reported outcome", t, func() {
		Convey("Then the opponent's outcome should mirror it", func() {
			So(rating.Opposite(rating.Win), ShouldEqual, rating.Loss)
			So(rating.Opposite(rating.Loss), ShouldEqual, rating.Win)
			So(rating.Opposite(rating.Draw), ShouldEqual, rating.Draw)
		})
	})
}

func TestOutcomeValid(t *testing.T) {
	Convey("Given the outcome domain", t, func() {
		Convey("Then only 0, 0.5 and 1 should be valid", func() {
			So(rating.Loss.Valid(), ShouldBeTrue)
			So(rating.Draw.Valid(), ShouldBeTrue)
			So(rating.Win.Valid(), ShouldBeTrue)
			So(rating.Outcome(0.25).Valid(), ShouldBeFalse)
			So(rating.Outcome(-1).Valid(), ShouldBeFalse)
			So(rating.Outcome(2).Valid(), ShouldBeFalse)
		})
	})
}
