package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/quakeboard/internal/adapters/repository"
	"github.com/okian/quakeboard/internal/domain/aggregate"
	"github.com/okian/quakeboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func snapshotWith(seq uint64, n int) repository.Snapshot {
	quakes := make([]repository.Quake, n)
	for i := range quakes {
		quakes[i] = repository.Quake{Event: model.Event{Place: "p"}}
	}
	return repository.Snapshot{Sequence: seq, Quakes: quakes, Result: aggregate.Result{Count: n}}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)

	Convey("Given a new store", t, func() {
		s := repository.NewMemoryStore(repository.WithClock(func() time.Time { return fixed }))

		Convey("It shows the empty no data snapshot", func() {
			cur := s.Current(ctx)
			So(cur.Sequence, ShouldEqual, 0)
			So(cur.Quakes, ShouldBeEmpty)
			So(cur.Summary.MaxMagnitude, ShouldEqual, aggregate.NoData)
			So(s.Loading(ctx), ShouldBeFalse)
		})

		Convey("Begin issues increasing tokens and marks loading", func() {
			a := s.Begin(ctx)
			b := s.Begin(ctx)
			So(b, ShouldBeGreaterThan, a)
			So(s.Loading(ctx), ShouldBeTrue)
		})

		Convey("Publish replaces the snapshot in full", func() {
			seq := s.Begin(ctx)
			So(s.Publish(ctx, snapshotWith(seq, 3)), ShouldBeNil)
			cur := s.Current(ctx)
			So(len(cur.Quakes), ShouldEqual, 3)
			So(cur.PublishedAt, ShouldEqual, fixed)
			So(s.Loading(ctx), ShouldBeFalse)

			seq = s.Begin(ctx)
			So(s.Publish(ctx, snapshotWith(seq, 1)), ShouldBeNil)
			So(len(s.Current(ctx).Quakes), ShouldEqual, 1)
		})

		Convey("A nil quake list is stored as empty", func() {
			seq := s.Begin(ctx)
			So(s.Publish(ctx, repository.Snapshot{Sequence: seq}), ShouldBeNil)
			So(s.Current(ctx).Quakes, ShouldNotBeNil)
		})

		Convey("Out-of-order resolution drops the older result", func() {
			first := s.Begin(ctx)
			second := s.Begin(ctx)
			So(s.Publish(ctx, snapshotWith(second, 2)), ShouldBeNil)

			err := s.Publish(ctx, snapshotWith(first, 9))
			So(errors.Is(err, repository.ErrStale), ShouldBeTrue)
			So(len(s.Current(ctx).Quakes), ShouldEqual, 2)
			So(s.Loading(ctx), ShouldBeFalse)
		})

		Convey("Sequences that were never issued are rejected", func() {
			So(errors.Is(s.Publish(ctx, snapshotWith(0, 1)), repository.ErrUnknownSequence), ShouldBeTrue)
			So(errors.Is(s.Publish(ctx, snapshotWith(42, 1)), repository.ErrUnknownSequence), ShouldBeTrue)
		})

		Convey("SetMessage keeps the results", func() {
			seq := s.Begin(ctx)
			So(s.Publish(ctx, snapshotWith(seq, 2)), ShouldBeNil)
			s.SetMessage(ctx, model.Failure("invalid date"))

			cur := s.Current(ctx)
			So(len(cur.Quakes), ShouldEqual, 2)
			So(cur.Message.Severity, ShouldEqual, model.SeverityError)
			So(cur.Sequence, ShouldEqual, seq)
		})
	})

	Convey("Given a store that keeps stale results", t, func() {
		s := repository.NewMemoryStore(repository.WithDropStale(false))
		first := s.Begin(ctx)
		second := s.Begin(ctx)
		So(s.Publish(ctx, snapshotWith(second, 2)), ShouldBeNil)
		So(s.Publish(ctx, snapshotWith(first, 9)), ShouldBeNil)

		Convey("The last resolver wins", func() {
			So(len(s.Current(ctx).Quakes), ShouldEqual, 9)
		})
	})

	Convey("Given a seeded initial snapshot", t, func() {
		s := repository.NewMemoryStore(repository.WithInitial(repository.Snapshot{Message: &model.Message{Text: "hi"}}))
		So(s.Current(ctx).Message.Text, ShouldEqual, "hi")
	})

	Convey("Given concurrent fetches", t, func() {
		s := repository.NewMemoryStore()
		var wg sync.WaitGroup
		seqs := make([]uint64, 20)
		for i := range seqs {
			seqs[i] = s.Begin(ctx)
		}
		for i, seq := range seqs {
			wg.Add(1)
			go func(seq uint64, n int) {
				defer wg.Done()
				_ = s.Publish(ctx, snapshotWith(seq, n))
			}(seq, i+1)
		}
		wg.Wait()

		Convey("Only the latest issued snapshot is shown", func() {
			So(s.Current(ctx).Sequence, ShouldEqual, seqs[len(seqs)-1])
			So(len(s.Current(ctx).Quakes), ShouldEqual, 20)
			So(s.Loading(ctx), ShouldBeFalse)
		})
	})
}
