package config_test

import (
	"testing"

	"github.com/okian/rematch/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewDefaults(t *testing.T) {
	Convey("Given a default config", t, func() {
		cfg := config.New()

		Convey("Then service defaults are sane", func() {
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.JobQueueSize, ShouldBeGreaterThan, 0)
			So(cfg.WorkerCount, ShouldBeGreaterThan, 0)
			So(cfg.ResultCapacity, ShouldBeGreaterThan, 0)
		})

		Convey("Then replay defaults match the documented policy", func() {
			So(cfg.SampleFPS, ShouldEqual, 5)
			So(cfg.TargetFPS, ShouldEqual, 25)
			So(cfg.WindowRadiusSeconds, ShouldEqual, 4)
			So(cfg.SampleTimeoutMS, ShouldEqual, 2000)
			So(cfg.SeekSettleMS, ShouldEqual, 40)
		})

		Convey("Then media tool paths default to PATH lookup", func() {
			So(cfg.FFmpegPath, ShouldEqual, "ffmpeg")
			So(cfg.FFprobePath, ShouldEqual, "ffprobe")
		})
	})
}
