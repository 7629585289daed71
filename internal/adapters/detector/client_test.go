package detector_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/rematch/internal/adapters/detector"
	"github.com/okian/rematch/internal/domain/model"
	"github.com/okian/rematch/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestDetect(t *testing.T) {
	Convey("Given a detection service returning players and a ball", t, func() {
		var gotContentType string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotContentType = r.Header.Get("Content-Type")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"players": [
					{"id": "p7", "x": 30.5, "y": 44.1, "team": "home", "confidence": 0.91},
					{"id": "p9", "x": 60.0, "y": 20.0, "team": "away", "confidence": 0.88},
					{"id": "ref", "x": 50.0, "y": 50.0, "team": "official", "confidence": 0.70}
				],
				"ball": {"x": 31.2, "y": 45.0, "confidence": 0.95}
			}`))
		}))
		defer srv.Close()

		c := detector.New(srv.URL)
		entities, err := c.Detect(context.Background(), []byte("jpeg-bytes"))

		So(err, ShouldBeNil)
		So(gotContentType, ShouldEqual, "image/jpeg")
		So(len(entities), ShouldEqual, 4)

		Convey("Then players carry their ids and normalized teams", func() {
			So(entities[0].ID, ShouldEqual, "p7")
			So(entities[0].Kind, ShouldEqual, model.KindPlayer)
			So(entities[0].Team, ShouldEqual, model.TeamHome)
			So(entities[1].Team, ShouldEqual, model.TeamAway)
		})

		Convey("Then unrecognized teams degrade to unknown", func() {
			So(entities[2].Team, ShouldEqual, model.TeamUnknown)
		})

		Convey("Then the ball uses the stable ball identity", func() {
			ball := entities[3]
			So(ball.ID, ShouldEqual, model.BallEntityID)
			So(ball.Kind, ShouldEqual, model.KindBall)
			So(ball.X, ShouldAlmostEqual, 31.2)
		})
	})

	Convey("Given a response with no ball in frame", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"players": [{"id": "p1", "x": 1, "y": 2, "team": "home", "confidence": 0.8}], "ball": null}`))
		}))
		defer srv.Close()

		entities, err := detector.New(srv.URL).Detect(context.Background(), []byte("f"))

		So(err, ShouldBeNil)
		So(len(entities), ShouldEqual, 1)
		So(entities[0].Kind, ShouldEqual, model.KindPlayer)
	})

	Convey("Given a service returning a server error", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := detector.New(srv.URL).Detect(context.Background(), []byte("f"))
		So(errors.Is(err, detector.ErrUnavailable), ShouldBeTrue)
	})

	Convey("Given a service returning garbage", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer srv.Close()

		_, err := detector.New(srv.URL).Detect(context.Background(), []byte("f"))
		So(errors.Is(err, detector.ErrBadResponse), ShouldBeTrue)
	})

	Convey("Given no configured URL", t, func() {
		_, err := detector.New("").Detect(context.Background(), []byte("f"))
		So(errors.Is(err, detector.ErrNotConfigured), ShouldBeTrue)
	})
}
