package model_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	model "github.com/j0rgedev/football-analysis/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestTrackingInputDecoding(t *testing.T) {
	convey.Convey("Given a tracking document from the upstream pipeline", t, func() {
		doc := `{
			"tracks": {
				"players": [
					{"7": {"position_transformed": [1.0, 2.0], "team": 1, "team_color": [255, 0, 0], "speed": 3.5, "has_ball": true}},
					{"7": {"team": "2", "team_color": [[0, 0, 255], [255, 255, 255]]}, "9": {}}
				],
				"ball": [
					{"1": {"bbox": [10, 20, 30, 40], "assigned_player": 7}}
				]
			},
			"team_ball_control": [1, null]
		}`

		var in model.TrackingInput
		err := json.Unmarshal([]byte(doc), &in)

		convey.Convey("Then players decode with optional fields", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(in.Tracks.Players, convey.ShouldHaveLength, 2)

			p := in.Tracks.Players[0][7]
			convey.So(p.PositionTransformed, convey.ShouldResemble, []float64{1, 2})
			convey.So(string(*p.Team), convey.ShouldEqual, "1")
			convey.So(p.TeamColor, convey.ShouldResemble, model.ColorVectors{{255, 0, 0}})
			convey.So(*p.Speed, convey.ShouldEqual, 3.5)
			convey.So(p.Distance, convey.ShouldBeNil)
			convey.So(*p.HasBall, convey.ShouldBeTrue)

			q := in.Tracks.Players[1][7]
			convey.So(string(*q.Team), convey.ShouldEqual, "2")
			convey.So(q.TeamColor, convey.ShouldHaveLength, 2)
			convey.So(in.Tracks.Players[1][9].Team, convey.ShouldBeNil)
		})

		convey.Convey("Then the ball and control sequence decode", func() {
			b := in.Tracks.Ball[0][model.BallEntityID]
			convey.So(b.BBox, convey.ShouldResemble, []float64{10, 20, 30, 40})
			convey.So(*b.AssignedPlayer, convey.ShouldEqual, 7)
			convey.So(in.TeamBallControl, convey.ShouldHaveLength, 2)
			convey.So(string(*in.TeamBallControl[0]), convey.ShouldEqual, "1")
			convey.So(in.TeamBallControl[1], convey.ShouldBeNil)
			convey.So(in.Tracks.Validate(), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given a team that is neither number nor string", t, func() {
		var p model.PlayerTrack
		err := json.Unmarshal([]byte(`{"team": {"id": 1}}`), &p)
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestTracksValidate(t *testing.T) {
	convey.Convey("Given malformed tracks", t, func() {
		convey.Convey("When a position has one coordinate", func() {
			tr := model.Tracks{Players: []map[int]model.PlayerTrack{{3: {PositionTransformed: []float64{1}}}}}
			convey.So(errors.Is(tr.Validate(), model.ErrInvalidTracks), convey.ShouldBeTrue)
		})

		convey.Convey("When a position is not finite", func() {
			tr := model.Tracks{Players: []map[int]model.PlayerTrack{{3: {PositionTransformed: []float64{math.NaN(), 1}}}}}
			convey.So(errors.Is(tr.Validate(), model.ErrInvalidTracks), convey.ShouldBeTrue)
		})

		convey.Convey("When a ball bbox is short", func() {
			tr := model.Tracks{Ball: []map[int]model.BallTrack{{model.BallEntityID: {BBox: []float64{1, 2}}}}}
			convey.So(errors.Is(tr.Validate(), model.ErrInvalidTracks), convey.ShouldBeTrue)
		})

		convey.Convey("When a player id is negative", func() {
			tr := model.Tracks{Players: []map[int]model.PlayerTrack{{-1: {}}}}
			convey.So(errors.Is(tr.Validate(), model.ErrInvalidTracks), convey.ShouldBeTrue)
		})
	})
}

func TestReconcileState(t *testing.T) {
	convey.Convey("ClassifyCounts covers the four states", t, func() {
		convey.So(model.ClassifyCounts(4, 2), convey.ShouldEqual, model.ExistsInBoth)
		convey.So(model.ClassifyCounts(4, 0), convey.ShouldEqual, model.ExistsInPlayersOnly)
		convey.So(model.ClassifyCounts(0, 2), convey.ShouldEqual, model.ExistsInBallOnly)
		convey.So(model.ClassifyCounts(0, 0), convey.ShouldEqual, model.NotExists)
	})

	convey.Convey("Only ExistsInBoth skips ingestion", t, func() {
		convey.So(model.ExistsInBoth.NeedsIngest(), convey.ShouldBeFalse)
		convey.So(model.ExistsInPlayersOnly.NeedsIngest(), convey.ShouldBeTrue)
		convey.So(model.ExistsInBallOnly.NeedsIngest(), convey.ShouldBeTrue)
		convey.So(model.NotExists.NeedsIngest(), convey.ShouldBeTrue)
	})

	convey.Convey("States marshal as labels", t, func() {
		b, err := json.Marshal(map[string]model.ReconcileState{"state": model.ExistsInBallOnly})
		convey.So(err, convey.ShouldBeNil)
		convey.So(string(b), convey.ShouldEqual, `{"state":"exists_in_ball_only"}`)
	})
}

func TestRecordValues(t *testing.T) {
	convey.Convey("Given records with nullable fields", t, func() {
		x := 1.5
		p := model.PlayerFrameRecord{PlayerID: 7, VideoID: "v1", FrameNumber: 2, Team: "1", TeamColorName: "red", PositionX: &x}
		id := uuid.New()
		b := model.BallFrameRecord{BallID: id, VideoID: "v1", FrameNumber: 0}

		convey.Convey("Then values follow insert column order", func() {
			pv := p.Values()
			convey.So(pv, convey.ShouldHaveLength, 10)
			convey.So(pv[0], convey.ShouldEqual, 7)
			convey.So(pv[5], convey.ShouldResemble, &x)
			convey.So(pv[6], convey.ShouldResemble, (*float64)(nil))

			bv := b.Values()
			convey.So(bv, convey.ShouldHaveLength, 7)
			convey.So(bv[0], convey.ShouldEqual, id.String())
			convey.So(bv[5], convey.ShouldResemble, (*int)(nil))
			convey.So(bv[6], convey.ShouldResemble, (*string)(nil))
		})
	})
}
