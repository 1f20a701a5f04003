package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/codeduel/arena/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemStore(t *testing.T) {
	Convey("Given a new MemStore", t, func() {
		ctx := context.Background()

		Convey("When looking up an unknown player", func() {
			store := repository.NewMemStore()
			_, err := store.Rating(ctx, "ghost")

			Convey("Then it should return not found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When setting and reading a rating", func() {
			store := repository.NewMemStore()
			So(store.SetRating(ctx, "alice", 1200), ShouldBeNil)

			r, err := store.Rating(ctx, "alice")

			Convey("Then the stored value should come back", func() {
				So(err, ShouldBeNil)
				So(r, ShouldEqual, 1200)
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When overwriting a rating", func() {
			store := repository.NewMemStore()
			So(store.SetRating(ctx, "alice", 1200), ShouldBeNil)
			So(store.SetRating(ctx, "alice", 1250), ShouldBeNil)

			r, err := store.Rating(ctx, "alice")

			Convey("Then the latest value should win", func() {
				So(err, ShouldBeNil)
				So(r, ShouldEqual, 1250)
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When requesting standings", func() {
			store := repository.NewMemStore()
			So(store.SetRating(ctx, "alice", 1500), ShouldBeNil)
			So(store.SetRating(ctx, "bob", 1700), ShouldBeNil)
			So(store.SetRating(ctx, "carol", 1300), ShouldBeNil)
			So(store.SetRating(ctx, "dave", 1700), ShouldBeNil)

			entries, err := store.Standings(ctx, 3)

			Convey("Then entries should be ranked by rating with id tie-breaks", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 3)

				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[0].PlayerID, ShouldEqual, "bob")
				So(entries[0].Rating, ShouldEqual, 1700)

				So(entries[1].Rank, ShouldEqual, 2)
				So(entries[1].PlayerID, ShouldEqual, "dave")

				So(entries[2].Rank, ShouldEqual, 3)
				So(entries[2].PlayerID, ShouldEqual, "alice")
			})
		})

		Convey("When requesting more standings than players", func() {
			store := repository.NewMemStore()
			So(store.SetRating(ctx, "alice", 1500), ShouldBeNil)

			entries, err := store.Standings(ctx, 10)

			Convey("Then all players should be returned", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
			})
		})

		Convey("When requesting a non-positive limit", func() {
			store := repository.NewMemStore()
			_, err := store.Standings(ctx, 0)

			Convey("Then it should report an invalid limit", func() {
				So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
			})
		})

		Convey("When updating an unknown player", func() {
			store := repository.NewMemStore()

			r, err := store.Update(ctx, "alice", func(current int, found bool) int {
				So(found, ShouldBeFalse)
				So(current, ShouldEqual, 0)
				return 1000
			})

			Convey("Then the callback value should be stored", func() {
				So(err, ShouldBeNil)
				So(r, ShouldEqual, 1000)

				stored, err := store.Rating(ctx, "alice")
				So(err, ShouldBeNil)
				So(stored, ShouldEqual, 1000)
			})
		})

		Convey("When updating an existing player", func() {
			store := repository.NewMemStore()
			So(store.SetRating(ctx, "alice", 1200), ShouldBeNil)

			r, err := store.Update(ctx, "alice", func(current int, found bool) int {
				So(found, ShouldBeTrue)
				return current + 16
			})

			Convey("Then the callback should see the current rating", func() {
				So(err, ShouldBeNil)
				So(r, ShouldEqual, 1216)
			})
		})

		Convey("When many goroutines update the same player", func() {
			store := repository.NewMemStore()
			var wg sync.WaitGroup

			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 50; i++ {
						_, _ = store.Update(ctx, "alice", func(current int, found bool) int {
							return current + 1
						})
					}
				}()
			}
			wg.Wait()

			Convey("Then no increment should be lost", func() {
				r, err := store.Rating(ctx, "alice")
				So(err, ShouldBeNil)
				So(r, ShouldEqual, 400)
			})
		})

		Convey("When many goroutines write across shards", func() {
			store := repository.NewMemStore(repository.WithShardCount(4))
			var wg sync.WaitGroup

			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					for i := 0; i < 50; i++ {
						id := fmt.Sprintf("player-%d-%d", g, i)
						_ = store.SetRating(ctx, id, 1000+i)
					}
				}(g)
			}
			wg.Wait()

			Convey("Then all players should be tracked", func() {
				So(store.Count(ctx), ShouldEqual, 400)
			})
		})
	})
}
