package main

import (
	"path/filepath"
	"testing"

	"github.com/okian/rematch/internal/adapters/repository"
	app "github.com/okian/rematch/internal/app"
	"github.com/okian/rematch/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestOpenStore(t *testing.T) {
	convey.Convey("Given catalog configuration", t, func() {
		convey.Convey("When no sqlite path is set", func() {
			store, err := openStore(&config.Config{})

			convey.So(err, convey.ShouldBeNil)
			_, ok := store.(*repository.MemoryStore)
			convey.So(ok, convey.ShouldBeTrue)
		})

		convey.Convey("When a sqlite path is set", func() {
			store, err := openStore(&config.Config{
				SQLitePath: filepath.Join(t.TempDir(), "catalog.db"),
			})

			convey.So(err, convey.ShouldBeNil)
			_, ok := store.(*repository.SQLiteStore)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(store.Close(), convey.ShouldBeNil)
		})
	})
}

func TestServiceCreation(t *testing.T) {
	convey.Convey("Given the application wiring", t, func() {
		convey.Convey("Then the service is creatable with custom options", func() {
			svc := app.New(
				app.WithWorkerCount(4),
				app.WithQueueSize(64),
				app.WithResultCapacity(32),
			)
			convey.So(svc, convey.ShouldNotBeNil)
		})
	})
}
