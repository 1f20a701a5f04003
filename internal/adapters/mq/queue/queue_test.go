package queue_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/codeduel/arena/internal/adapters/mq/queue"
	"github.com/codeduel/arena/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func makeResult(i int) model.MatchResult {
	return model.MatchResult{
		ResultID:   fmt.Sprintf("result-%d", i),
		BattleID:   fmt.Sprintf("battle-%d", i),
		PlayerID:   "alice",
		OpponentID: "bob",
		Outcome:    1,
		TS:         time.Now(),
	}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a new InMemoryQueue", t, func() {
		ctx := context.Background()

		Convey("When enqueuing within capacity", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10))

			ok := q.Enqueue(ctx, makeResult(1))

			Convey("Then the enqueue should succeed", func() {
				So(ok, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 1)
			})
		})

		Convey("When the queue is full", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(2))
			So(q.Enqueue(ctx, makeResult(1)), ShouldBeTrue)
			So(q.Enqueue(ctx, makeResult(2)), ShouldBeTrue)

			ok := q.Enqueue(ctx, makeResult(3))

			Convey("Then further enqueues should be rejected without blocking", func() {
				So(ok, ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})

		Convey("When dequeuing", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10))
			So(q.Enqueue(ctx, makeResult(1)), ShouldBeTrue)
			So(q.Enqueue(ctx, makeResult(2)), ShouldBeTrue)

			out := q.Dequeue(ctx)

			Convey("Then results should arrive in order", func() {
				first := <-out
				second := <-out
				So(first.ResultID, ShouldEqual, "result-1")
				So(second.ResultID, ShouldEqual, "result-2")
			})
		})

		Convey("When the queue is closed", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10))
			So(q.Enqueue(ctx, makeResult(1)), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Then new enqueues should be rejected", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, makeResult(2)), ShouldBeFalse)
			})

			Convey("Then the dequeue channel should drain and close", func() {
				out := q.Dequeue(ctx)
				r, ok := <-out
				So(ok, ShouldBeTrue)
				So(r.ResultID, ShouldEqual, "result-1")

				_, ok = <-out
				So(ok, ShouldBeFalse)
			})

			Convey("Then closing again should be a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})

		Convey("When the consumer context is cancelled", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10))
			consumerCtx, cancel := context.WithCancel(ctx)
			out := q.Dequeue(consumerCtx)
			cancel()
			So(q.Enqueue(ctx, makeResult(1)), ShouldBeTrue)

			// No receiver is waiting on out, so the consumer goroutine
			// can only observe the cancellation and close the channel.
			time.Sleep(50 * time.Millisecond)

			Convey("Then the dequeue channel should close", func() {
				select {
				case _, ok := <-out:
					So(ok, ShouldBeFalse)
				case <-time.After(time.Second):
					t.Fatal("dequeue channel did not close")
				}
			})
		})
	})
}
