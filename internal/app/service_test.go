package service_test

import (
	"context"
	"testing"
	"time"

	app "github.com/codeduel/arena/internal/app"
	"github.com/codeduel/arena/internal/domain/model"
	"github.com/codeduel/arena/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func waitForPlayerRating(ctx context.Context, svc *app.Service, playerID string, want int) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r, err := svc.PlayerRating(ctx, playerID); err == nil && r == want {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestService(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := app.New(
			app.WithWorkerCount(2),
			app.WithQueueSize(100),
			app.WithInitialRating(1000),
			app.WithEmitInterval(time.Hour),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a result flows through the pipeline", func() {
			ok := svc.EnqueueResult(ctx, model.MatchResult{
				ResultID:   "r1",
				BattleID:   "b1",
				PlayerID:   "alice",
				OpponentID: "bob",
				Outcome:    1,
				TS:         time.Now(),
			})

			Convey("Then both unseeded players should end up rated", func() {
				So(ok, ShouldBeTrue)
				So(waitForPlayerRating(ctx, svc, "alice", 1016), ShouldBeTrue)
				So(waitForPlayerRating(ctx, svc, "bob", 984), ShouldBeTrue)
			})

			Convey("Then standings should rank the winner first", func() {
				So(waitForPlayerRating(ctx, svc, "alice", 1016), ShouldBeTrue)
				So(waitForPlayerRating(ctx, svc, "bob", 984), ShouldBeTrue)

				entries, err := svc.Standings(ctx, 10)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 2)
				So(entries[0].PlayerID, ShouldEqual, "alice")
				So(entries[0].Rank, ShouldEqual, 1)
			})
		})

		Convey("When a result id is recorded twice", func() {
			So(svc.SeenAndRecord(ctx, "dup-1"), ShouldBeFalse)
			So(svc.SeenAndRecord(ctx, "dup-1"), ShouldBeTrue)

			Convey("And unrecorded, it should be retryable", func() {
				svc.Unrecord(ctx, "dup-1")
				So(svc.SeenAndRecord(ctx, "dup-1"), ShouldBeFalse)
			})
		})

		Convey("When creating a battle for an unrated host", func() {
			battle, err := svc.CreateBattle(ctx, "newcomer")

			Convey("Then it should target the initial-rating difficulty", func() {
				So(err, ShouldBeNil)
				So(battle.ID, ShouldNotBeEmpty)
				So(battle.Code, ShouldHaveLength, 6)
				So(battle.HostID, ShouldEqual, "newcomer")
				So(battle.Difficulty, ShouldEqual, 1100)
			})
		})

		Convey("When creating a battle for a rated host", func() {
			So(svc.EnqueueResult(ctx, model.MatchResult{
				ResultID: "r2", BattleID: "b2",
				PlayerID: "carol", OpponentID: "dave",
				Outcome: 1, TS: time.Now(),
			}), ShouldBeTrue)
			So(waitForPlayerRating(ctx, svc, "carol", 1016), ShouldBeTrue)

			battle, err := svc.CreateBattle(ctx, "carol")

			Convey("Then the target should track the host's rating", func() {
				So(err, ShouldBeNil)
				So(battle.Difficulty, ShouldEqual, 1116)
			})
		})

		Convey("When reading service stats", func() {
			stats := svc.GetStats()

			Convey("Then the snapshot should describe the running service", func() {
				So(stats["started"], ShouldEqual, true)
				So(stats["workerCount"], ShouldEqual, 2)
				So(stats, ShouldContainKey, "queueLength")
				So(stats, ShouldContainKey, "totalPlayers")
				So(stats, ShouldContainKey, "liveBattles")
				So(stats, ShouldContainKey, "monitorConnections")
			})
		})

		Convey("When the hub is requested", func() {
			h := svc.Hub()

			Convey("Then it should be live and empty", func() {
				So(h, ShouldNotBeNil)
				So(h.MonitorCount(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a stopped service", t, func() {
		svc := app.New(app.WithWorkerCount(1), app.WithEmitInterval(time.Hour))
		So(svc.Start(context.Background()), ShouldBeNil)
		svc.Stop()

		Convey("Then stopping again should be harmless", func() {
			svc.Stop()
		})
	})
}
