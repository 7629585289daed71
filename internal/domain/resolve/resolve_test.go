package resolve_test

import (
	"errors"
	"testing"

	"github.com/okian/rematch/internal/domain/coverage"
	"github.com/okian/rematch/internal/domain/model"
	"github.com/okian/rematch/internal/domain/resolve"
	. "github.com/smartystreets/goconvey/convey"
)

func floatPtr(f float64) *float64 { return &f }

func TestResolve(t *testing.T) {
	Convey("Given a second-half asset starting at minute 45", t, func() {
		asset := model.VideoAsset{
			ID:                  "a2",
			DeclaredStartMinute: 45,
			DeclaredEndMinute:   90,
			DurationSeconds:     2800,
			HalfLabel:           model.HalfSecond,
		}
		assets := []model.VideoAsset{asset}

		Convey("When the event carries a valid stored offset", func() {
			ev := model.Event{
				ID:                    "e1",
				Clock:                 model.MatchClock{Minute: 47, Second: 10, Half: model.HalfSecond},
				RecordedOffsetSeconds: floatPtr(123.5),
			}

			res, err := resolve.Resolve(ev, assets)
			So(err, ShouldBeNil)

			Convey("Then the offset is trusted verbatim with high confidence", func() {
				So(res.OffsetSeconds, ShouldEqual, 123.5)
				So(res.Confidence, ShouldEqual, model.ConfidenceHigh)
			})
		})

		Convey("When the stored offset is out of range", func() {
			ev := model.Event{
				ID:                    "e2",
				Clock:                 model.MatchClock{Minute: 47, Second: 10, Half: model.HalfSecond},
				RecordedOffsetSeconds: floatPtr(9999),
			}

			res, err := resolve.Resolve(ev, assets)
			So(err, ShouldBeNil)

			Convey("Then the offset is recomputed from the clock", func() {
				So(res.OffsetSeconds, ShouldEqual, (47-45)*60+10)
				So(res.Confidence, ShouldEqual, model.ConfidenceMedium)
			})
		})

		Convey("When the event has no stored offset", func() {
			ev := model.Event{
				ID:    "e3",
				Clock: model.MatchClock{Minute: 47, Second: 10, Half: model.HalfSecond},
			}

			res, err := resolve.Resolve(ev, assets)
			So(err, ShouldBeNil)
			So(res.OffsetSeconds, ShouldEqual, 130)
			So(res.Confidence, ShouldEqual, model.ConfidenceMedium)
			So(res.Asset.ID, ShouldEqual, "a2")
		})

		Convey("When the event precedes the asset coverage", func() {
			// Minute 30 on a second-half-only asset set: the coverage
			// index still returns the only asset (last resort).
			ev := model.Event{
				ID:    "e4",
				Clock: model.MatchClock{Minute: 30, Second: 0, Half: model.HalfFirst},
			}

			res, err := resolve.Resolve(ev, assets)
			So(err, ShouldBeNil)

			Convey("Then the offset clamps to zero with low confidence", func() {
				So(res.OffsetSeconds, ShouldEqual, 0)
				So(res.Confidence, ShouldEqual, model.ConfidenceLow)
			})
		})

		Convey("When the computed offset overshoots the duration", func() {
			ev := model.Event{
				ID:    "e5",
				Clock: model.MatchClock{Minute: 95, Second: 0, Half: model.HalfSecond},
			}

			res, err := resolve.Resolve(ev, assets)
			So(err, ShouldBeNil)

			Convey("Then the offset clamps short of the tail", func() {
				So(res.OffsetSeconds, ShouldEqual, 2800-resolve.TailGuardSeconds)
				So(res.OffsetSeconds, ShouldBeLessThanOrEqualTo, asset.DurationSeconds)
				So(res.OffsetSeconds, ShouldBeGreaterThanOrEqualTo, 0)
				So(res.Confidence, ShouldEqual, model.ConfidenceLow)
			})
		})
	})

	Convey("Given a tiny asset shorter than the tail guard", t, func() {
		assets := []model.VideoAsset{{
			ID:                  "clip",
			DeclaredStartMinute: 0,
			DurationSeconds:     3,
			HalfLabel:           model.HalfFirst,
		}}
		ev := model.Event{ID: "e6", Clock: model.MatchClock{Minute: 10, Second: 0, Half: model.HalfFirst}}

		Convey("Then clamping never goes negative", func() {
			res, err := resolve.Resolve(ev, assets)
			So(err, ShouldBeNil)
			So(res.OffsetSeconds, ShouldEqual, 0)
			So(res.Confidence, ShouldEqual, model.ConfidenceLow)
		})
	})

	Convey("Given no assets", t, func() {
		ev := model.Event{ID: "e7", Clock: model.MatchClock{Minute: 1, Half: model.HalfFirst}}

		Convey("Then resolution fails before any I/O", func() {
			_, err := resolve.Resolve(ev, nil)
			So(errors.Is(err, coverage.ErrNoAssets), ShouldBeTrue)
		})
	})

	Convey("Given an invalid clock", t, func() {
		ev := model.Event{ID: "e8", Clock: model.MatchClock{Minute: -2, Half: model.HalfFirst}}
		assets := []model.VideoAsset{{ID: "a", DurationSeconds: 100, HalfLabel: model.HalfFirst}}

		Convey("Then resolution rejects it", func() {
			_, err := resolve.Resolve(ev, assets)
			So(err, ShouldNotBeNil)
		})
	})
}
