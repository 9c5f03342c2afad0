package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get returns a usable logger", func() {
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialized with a JSON writer", func() {
			var buf bytes.Buffer
			So(Init(WithOutput(&buf), WithFormat("json")), ShouldBeNil)

			Named("reconciler").Info(context.Background(), "reconciled",
				String("video_id", "v1"),
				Int64("players", 3),
				Bool("skipped", false),
				Duration("took", 2*time.Second),
			)

			Convey("Then fields and component are written", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, `"msg":"reconciled"`)
				So(out, ShouldContainSubstring, `"video_id":"v1"`)
				So(out, ShouldContainSubstring, `"component":"reconciler"`)
				So(out, ShouldContainSubstring, `"took":"2s"`)
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})
	})
}

func TestLoggerLevels(t *testing.T) {
	Convey("Given a text logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithOutput(&buf)), ShouldBeNil)
		ctx := context.Background()

		Convey("When the level is raised to warn", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Warn(ctx, "shown", Error(errors.New("boom")))

			Convey("Then only warn and above are emitted", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden")
				So(buf.String(), ShouldContainSubstring, "shown")
				So(buf.String(), ShouldContainSubstring, "boom")
			})
		})

		Convey("When an unknown level is given", func() {
			err := SetLevelString("loud")

			Convey("Then an error is returned", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestNop(t *testing.T) {
	Convey("Nop never panics and discards output", t, func() {
		l := Nop().Named("x")
		So(func() { l.Error(context.Background(), "dropped") }, ShouldNotPanic)
	})
}
