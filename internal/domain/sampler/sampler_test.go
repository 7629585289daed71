package sampler_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/okian/rematch/internal/domain/model"
	"github.com/okian/rematch/internal/domain/sampler"
	"github.com/okian/rematch/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// fakeSource records seeks and serves a synthetic frame per position.
type fakeSource struct {
	duration float64
	seeks    []float64
	seekErr  error
}

func (f *fakeSource) Seek(_ context.Context, t float64) error {
	if f.seekErr != nil {
		return f.seekErr
	}
	if t > f.duration {
		t = f.duration
	}
	f.seeks = append(f.seeks, t)
	return nil
}

func (f *fakeSource) Frame(_ context.Context) ([]byte, error) {
	if len(f.seeks) == 0 {
		return nil, errors.New("no seek issued")
	}
	return []byte(fmt.Sprintf("frame@%.3f", f.seeks[len(f.seeks)-1])), nil
}

func (f *fakeSource) DurationSeconds() float64 { return f.duration }

// fakeDetector fails on a configurable set of call indices.
type fakeDetector struct {
	calls   int
	failOn  map[int]bool
	blockOn map[int]bool
}

func (d *fakeDetector) Detect(ctx context.Context, _ []byte) ([]model.Entity, error) {
	idx := d.calls
	d.calls++
	if d.blockOn[idx] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if d.failOn[idx] {
		return nil, errors.New("model overloaded")
	}
	return []model.Entity{
		{ID: model.BallEntityID, Kind: model.KindBall, Team: model.TeamUnknown, X: float64(idx), Y: float64(idx), Confidence: 0.9},
	}, nil
}

func TestSample(t *testing.T) {
	Convey("Given a 2-second window sampled at 5 fps", t, func() {
		src := &fakeSource{duration: 100}

		Convey("When every sample succeeds", func() {
			s := sampler.New(&fakeDetector{})
			frames, err := s.Sample(context.Background(), src, 10, 12, 5, nil)

			So(err, ShouldBeNil)
			So(len(frames), ShouldEqual, 10)

			Convey("Then sample times step uniformly from the window start", func() {
				So(frames[0].SampleTimeSeconds, ShouldAlmostEqual, 10)
				So(frames[1].SampleTimeSeconds, ShouldAlmostEqual, 10.2)
				So(frames[9].SampleTimeSeconds, ShouldAlmostEqual, 11.8)
			})
		})

		Convey("When the detector fails on one sample", func() {
			s := sampler.New(&fakeDetector{failOn: map[int]bool{3: true}})
			frames, err := s.Sample(context.Background(), src, 10, 12, 5, nil)

			Convey("Then the gap is skipped and the other 9 frames survive", func() {
				So(err, ShouldBeNil)
				So(len(frames), ShouldEqual, 9)
			})
		})

		Convey("When every detector call fails", func() {
			s := sampler.New(&fakeDetector{failOn: map[int]bool{
				0: true, 1: true, 2: true, 3: true, 4: true,
				5: true, 6: true, 7: true, 8: true, 9: true,
			}})
			frames, err := s.Sample(context.Background(), src, 10, 12, 5, nil)

			Convey("Then the pass reports insufficient samples", func() {
				So(errors.Is(err, sampler.ErrInsufficientSamples), ShouldBeTrue)
				So(frames, ShouldBeEmpty)
			})
		})

		Convey("When a detector call hangs", func() {
			s := sampler.New(
				&fakeDetector{blockOn: map[int]bool{2: true}},
				sampler.WithSampleTimeout(20*time.Millisecond),
			)
			frames, err := s.Sample(context.Background(), src, 10, 12, 5, nil)

			Convey("Then the per-sample deadline converts it into a gap", func() {
				So(err, ShouldBeNil)
				So(len(frames), ShouldEqual, 9)
			})
		})

		Convey("When progress is reported", func() {
			var got []float64
			s := sampler.New(&fakeDetector{})
			_, err := s.Sample(context.Background(), src, 10, 12, 5, func(f float64) {
				got = append(got, f)
			})

			So(err, ShouldBeNil)
			So(len(got), ShouldEqual, 10)
			So(got[0], ShouldAlmostEqual, 0.1)
			So(got[9], ShouldAlmostEqual, 1.0)
		})
	})

	Convey("Given a cancelled context", t, func() {
		src := &fakeSource{duration: 100}
		s := sampler.New(&fakeDetector{})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		frames, err := s.Sample(ctx, src, 0, 10, 5, nil)

		Convey("Then sampling stops at the frame boundary with partial results", func() {
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			So(frames, ShouldBeEmpty)
		})
	})

	Convey("Given an invalid window", t, func() {
		src := &fakeSource{duration: 100}
		s := sampler.New(&fakeDetector{})

		_, err := s.Sample(context.Background(), src, 10, 5, 5, nil)
		So(errors.Is(err, sampler.ErrInvalidWindow), ShouldBeTrue)

		_, err = s.Sample(context.Background(), src, 0, 10, 0, nil)
		So(errors.Is(err, sampler.ErrInvalidWindow), ShouldBeTrue)
	})

	Convey("Given seeks that always fail", t, func() {
		src := &fakeSource{duration: 100, seekErr: errors.New("decoder wedged")}
		s := sampler.New(&fakeDetector{})

		frames, err := s.Sample(context.Background(), src, 0, 1, 2, nil)

		Convey("Then the whole pass degrades to insufficient samples", func() {
			So(errors.Is(err, sampler.ErrInsufficientSamples), ShouldBeTrue)
			So(frames, ShouldBeEmpty)
		})
	})
}
