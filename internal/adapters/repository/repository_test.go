package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/okian/rematch/internal/adapters/repository"
	"github.com/okian/rematch/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleEvent() model.Event {
	offset := 1830.5
	return model.Event{
		ID:                    "goal-1",
		MatchID:               "m1",
		Clock:                 model.MatchClock{Minute: 47, Second: 10, Half: model.HalfFirst},
		RecordedOffsetSeconds: &offset,
	}
}

func sampleAssets() []model.VideoAsset {
	return []model.VideoAsset{
		{
			ID: "a1", MatchID: "m1", FileRef: "/video/first.mp4",
			DeclaredStartMinute: 0, DeclaredEndMinute: 45,
			DurationSeconds: 3000, HalfLabel: model.HalfFirst,
		},
		{
			ID: "a2", MatchID: "m1", FileRef: "/video/second.mp4",
			DeclaredStartMinute: 45, DeclaredEndMinute: 90,
			DurationSeconds: 2800, HalfLabel: model.HalfSecond,
		},
	}
}

func TestSQLiteStore(t *testing.T) {
	Convey("Given a catalog in a temp file", t, func() {
		store, err := repository.NewSQLite(filepath.Join(t.TempDir(), "catalog.db"))
		So(err, ShouldBeNil)
		defer store.Close()

		ctx := context.Background()
		So(store.AddEvent(ctx, sampleEvent()), ShouldBeNil)
		for _, a := range sampleAssets() {
			So(store.AddAsset(ctx, a), ShouldBeNil)
		}

		Convey("When the event is read back", func() {
			ev, err := store.Event(ctx, "goal-1")

			So(err, ShouldBeNil)
			So(ev.MatchID, ShouldEqual, "m1")
			So(ev.Clock.Minute, ShouldEqual, 47)
			So(ev.Clock.Half, ShouldEqual, model.HalfFirst)
			So(ev.RecordedOffsetSeconds, ShouldNotBeNil)
			So(*ev.RecordedOffsetSeconds, ShouldAlmostEqual, 1830.5)
		})

		Convey("When an event has no recorded offset", func() {
			ev := sampleEvent()
			ev.ID = "card-1"
			ev.RecordedOffsetSeconds = nil
			So(store.AddEvent(ctx, ev), ShouldBeNil)

			got, err := store.Event(ctx, "card-1")
			So(err, ShouldBeNil)
			So(got.RecordedOffsetSeconds, ShouldBeNil)
		})

		Convey("When assets are listed", func() {
			assets, err := store.AssetsForMatch(ctx, "m1")

			So(err, ShouldBeNil)
			So(len(assets), ShouldEqual, 2)

			Convey("Then upload order is preserved", func() {
				So(assets[0].ID, ShouldEqual, "a1")
				So(assets[1].ID, ShouldEqual, "a2")
				So(assets[1].HalfLabel, ShouldEqual, model.HalfSecond)
			})
		})

		Convey("When an unknown event is requested", func() {
			_, err := store.Event(ctx, "nope")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When a match has no footage", func() {
			assets, err := store.AssetsForMatch(ctx, "m2")
			So(err, ShouldBeNil)
			So(assets, ShouldBeEmpty)
		})
	})
}

func TestMemoryStore(t *testing.T) {
	Convey("Given a seeded in-memory store", t, func() {
		store := repository.NewMemory()
		store.AddEvent(sampleEvent())
		for _, a := range sampleAssets() {
			store.AddAsset(a)
		}

		ctx := context.Background()

		Convey("Then events and assets read back in order", func() {
			ev, err := store.Event(ctx, "goal-1")
			So(err, ShouldBeNil)
			So(ev.Clock.Second, ShouldEqual, 10)

			assets, err := store.AssetsForMatch(ctx, "m1")
			So(err, ShouldBeNil)
			So(len(assets), ShouldEqual, 2)
			So(assets[0].ID, ShouldEqual, "a1")
		})

		Convey("Then unknown lookups report not found", func() {
			_, err := store.Event(ctx, "missing")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("Then returned asset slices are copies", func() {
			assets, _ := store.AssetsForMatch(ctx, "m1")
			assets[0].ID = "mutated"

			again, _ := store.AssetsForMatch(ctx, "m1")
			So(again[0].ID, ShouldEqual, "a1")
		})
	})
}
