package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/rematch/internal/adapters/http/api"
	workerpool "github.com/okian/rematch/internal/adapters/mq/worker"
	"github.com/okian/rematch/internal/adapters/repository"
	service "github.com/okian/rematch/internal/app"
	"github.com/okian/rematch/internal/domain/model"
	"github.com/okian/rematch/internal/domain/replay"
	"github.com/okian/rematch/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// stubSource serves a constant frame over a fixed duration.
type stubSource struct{ duration float64 }

func (s *stubSource) Seek(_ context.Context, _ float64) error { return nil }
func (s *stubSource) Frame(_ context.Context) ([]byte, error) { return []byte("jpeg"), nil }
func (s *stubSource) DurationSeconds() float64                { return s.duration }
func (s *stubSource) Close() error                            { return nil }

type stubOpener struct{}

func (stubOpener) Open(_ context.Context, asset model.VideoAsset) (replay.Source, error) {
	return &stubSource{duration: asset.DurationSeconds}, nil
}

// driftDetector returns a ball that drifts with every call.
type driftDetector struct{ calls int }

func (d *driftDetector) Detect(_ context.Context, _ []byte) ([]model.Entity, error) {
	d.calls++
	return []model.Entity{
		{ID: model.BallEntityID, Kind: model.KindBall, Team: model.TeamUnknown, X: float64(d.calls), Y: 50, Confidence: 0.9},
	}, nil
}

func seededStore() *repository.MemoryStore {
	store := repository.NewMemory()
	store.AddEvent(model.Event{
		ID:      "goal-1",
		MatchID: "m1",
		Clock:   model.MatchClock{Minute: 47, Second: 10, Half: model.HalfSecond},
	})
	store.AddAsset(model.VideoAsset{
		ID: "a2", MatchID: "m1", FileRef: "/video/a2.mp4",
		DeclaredStartMinute: 45, DeclaredEndMinute: 90,
		DurationSeconds: 2800, HalfLabel: model.HalfSecond,
	})
	return store
}

func waitDone(svc *service.Service, jobID string) workerpool.JobState {
	deadline := time.After(3 * time.Second)
	for {
		if st, ok := svc.ReplayStatus(context.Background(), jobID); ok &&
			st.Status != workerpool.StatusPending && st.Status != workerpool.StatusRunning {
			return st
		}
		select {
		case <-deadline:
			st, _ := svc.ReplayStatus(context.Background(), jobID)
			return st
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestService(t *testing.T) {
	Convey("Given a started service over a seeded catalog", t, func() {
		svc := service.New(
			service.WithStore(seededStore()),
			service.WithDetector(&driftDetector{}),
			service.WithOpener(stubOpener{}),
			service.WithWorkerCount(1),
			service.WithQueueSize(8),
			service.WithSampleFPS(5),
			service.WithTargetFPS(25),
			service.WithWindowRadius(2),
		)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a replay is submitted for a known event", func() {
			jobID, err := svc.SubmitReplay(ctx, "goal-1")
			So(err, ShouldBeNil)
			So(jobID, ShouldNotBeEmpty)

			st := waitDone(svc, jobID)

			Convey("Then the job completes with a dense track", func() {
				So(st.Status, ShouldEqual, workerpool.StatusReady)
				So(st.Result, ShouldNotBeNil)
				So(st.Result.Resolution.Asset.ID, ShouldEqual, "a2")
				So(st.Result.Resolution.OffsetSeconds, ShouldEqual, 130)
				So(st.Result.Resolution.Confidence, ShouldEqual, model.ConfidenceMedium)
				So(st.Result.SampleCount, ShouldEqual, 20)
				So(len(st.Result.Track.Frames), ShouldBeGreaterThan, 20)
			})
		})

		Convey("When an unknown event is submitted", func() {
			_, err := svc.SubmitReplay(ctx, "ghost")
			So(errors.Is(err, api.ErrUnknownEvent), ShouldBeTrue)
		})

		Convey("When stats are read", func() {
			stats := svc.Stats(ctx)
			So(stats.QueueCapacity, ShouldEqual, 8)
			So(stats.WorkerCount, ShouldEqual, 1)
		})
	})

	Convey("Given a service missing its collaborators", t, func() {
		svc := service.New()

		Convey("Then Start refuses to run half-wired", func() {
			So(svc.Start(context.Background()), ShouldNotBeNil)
		})
	})
}
