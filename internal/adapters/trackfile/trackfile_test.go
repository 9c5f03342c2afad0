package trackfile_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/j0rgedev/football-analysis/internal/adapters/trackfile"
	"github.com/j0rgedev/football-analysis/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const doc = `{"tracks": {"players": [{"3": {"team": "2", "team_color": [0, 0, 255]}}], "ball": [{}]}}`

func TestDecode(t *testing.T) {
	Convey("Given a tracking document", t, func() {
		Convey("When it is well formed", func() {
			in, err := trackfile.Decode(strings.NewReader(doc))

			Convey("Then the tracks are decoded", func() {
				So(err, ShouldBeNil)
				So(in.Tracks.Players, ShouldHaveLength, 1)
				So(in.Tracks.Ball, ShouldHaveLength, 1)
				So(in.TeamBallControl, ShouldBeNil)
			})
		})

		Convey("When it is not JSON", func() {
			_, err := trackfile.Decode(strings.NewReader("{"))
			So(errors.Is(err, trackfile.ErrDecode), ShouldBeTrue)
		})

		Convey("When the tracks are malformed", func() {
			_, err := trackfile.Decode(strings.NewReader(`{"tracks": {"players": [], "ball": [{"1": {"bbox": [1, 2]}}]}}`))
			So(errors.Is(err, model.ErrInvalidTracks), ShouldBeTrue)
		})
	})
}

func TestFiles(t *testing.T) {
	Convey("Given a directory of inputs", t, func() {
		dir := t.TempDir()
		for name, body := range map[string]string{
			"b.json":    doc,
			"a.JSON":    doc,
			"notes.txt": "x",
		} {
			So(os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600), ShouldBeNil)
		}
		So(os.Mkdir(filepath.Join(dir, "nested.json"), 0o700), ShouldBeNil)

		Convey("When it is listed", func() {
			files, skipped, err := trackfile.List(dir)

			Convey("Then only tracking documents are returned in order", func() {
				So(err, ShouldBeNil)
				So(files, ShouldResemble, []string{filepath.Join(dir, "a.JSON"), filepath.Join(dir, "b.json")})
				So(skipped, ShouldResemble, []string{filepath.Join(dir, "notes.txt")})
			})
		})

		Convey("When a file is read", func() {
			in, err := trackfile.Read(filepath.Join(dir, "b.json"))
			So(err, ShouldBeNil)
			So(in.Tracks.Players[0], ShouldContainKey, 3)
		})

		Convey("When a missing file is read", func() {
			_, err := trackfile.Read(filepath.Join(dir, "missing.json"))
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
		})

		Convey("When the directory does not exist", func() {
			_, _, err := trackfile.List(filepath.Join(dir, "nope"))
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Video ids are file stems", t, func() {
		So(trackfile.VideoID("/in/match-01.json"), ShouldEqual, "match-01")
		So(trackfile.VideoID("clip.v2.json"), ShouldEqual, "clip.v2")
		So(trackfile.IsTrackFile("x.json"), ShouldBeTrue)
		So(trackfile.IsTrackFile(".json"), ShouldBeFalse)
		So(trackfile.IsTrackFile("x.csv"), ShouldBeFalse)
	})
}
