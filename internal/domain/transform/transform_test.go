package transform_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/j0rgedev/football-analysis/internal/domain/model"
	"github.com/j0rgedev/football-analysis/internal/domain/transform"
	"github.com/smartystreets/goconvey/convey"
)

func team(s string) *model.TeamID {
	t := model.TeamID(s)
	return &t
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func endToEndTracks() model.Tracks {
	p := model.PlayerTrack{
		PositionTransformed: []float64{1.0, 2.0},
		Team:                team("1"),
		TeamColor:           model.ColorVectors{{255, 0, 0}},
	}
	return model.Tracks{
		Players: []map[int]model.PlayerTrack{{7: p}, {7: p}},
		Ball: []map[int]model.BallTrack{
			{model.BallEntityID: {BBox: []float64{10, 20, 30, 40}, AssignedPlayer: intPtr(7)}},
		},
	}
}

func TestTransformEndToEndScenario(t *testing.T) {
	convey.Convey("Given two frames with player 7 and a ball only in frame 0", t, func() {
		tracks := endToEndTracks()
		control := transform.TeamControl(tracks)

		res := transform.New().Transform(tracks, control, "v1")

		convey.Convey("Then two red player rows are produced", func() {
			convey.So(res.Players, convey.ShouldHaveLength, 2)
			for i, p := range res.Players {
				convey.So(p.PlayerID, convey.ShouldEqual, 7)
				convey.So(p.FrameNumber, convey.ShouldEqual, i)
				convey.So(p.TeamColorName, convey.ShouldEqual, "red")
				convey.So(*p.PositionX, convey.ShouldEqual, 1.0)
				convey.So(*p.PositionY, convey.ShouldEqual, 2.0)
			}
			convey.So(res.ColorFallbacks, convey.ShouldBeEmpty)
		})

		convey.Convey("Then exactly one ball row exists for frame 0", func() {
			convey.So(res.Balls, convey.ShouldHaveLength, 1)
			b := res.Balls[0]
			convey.So(b.FrameNumber, convey.ShouldEqual, 0)
			convey.So(*b.AssignedPlayerID, convey.ShouldEqual, 7)
			convey.So(*b.TeamInControl, convey.ShouldEqual, "1")
			convey.So(*b.PositionX, convey.ShouldEqual, 10.0)
			convey.So(*b.PositionY, convey.ShouldEqual, 20.0)
		})
	})
}

func TestTransformNullSafety(t *testing.T) {
	convey.Convey("Given a player with no optional fields", t, func() {
		tracks := model.Tracks{Players: []map[int]model.PlayerTrack{{3: {}}}}

		res := transform.New().Transform(tracks, nil, "v1")

		convey.Convey("Then defaults and nulls are applied", func() {
			convey.So(res.Players, convey.ShouldHaveLength, 1)
			p := res.Players[0]
			convey.So(p.PositionX, convey.ShouldBeNil)
			convey.So(p.PositionY, convey.ShouldBeNil)
			convey.So(p.Team, convey.ShouldEqual, model.UnknownTeam)
			convey.So(p.TeamColorName, convey.ShouldEqual, model.UnknownTeamColor)
			convey.So(p.Speed, convey.ShouldEqual, 0)
			convey.So(p.DistanceTraveled, convey.ShouldEqual, 0)
			convey.So(p.HasBall, convey.ShouldBeFalse)
			convey.So(res.ColorFallbacks, convey.ShouldHaveLength, 1)
		})
	})

	convey.Convey("Given an empty position pair", t, func() {
		tracks := model.Tracks{Players: []map[int]model.PlayerTrack{{3: {PositionTransformed: []float64{}, Speed: floatPtr(4.2)}}}}

		res := transform.New().Transform(tracks, nil, "v1")

		convey.So(res.Players[0].PositionX, convey.ShouldBeNil)
		convey.So(res.Players[0].Speed, convey.ShouldEqual, 4.2)
	})

	convey.Convey("Given a ball frame without bbox or assignment", t, func() {
		tracks := model.Tracks{Ball: []map[int]model.BallTrack{{}}}

		res := transform.New().Transform(tracks, nil, "v1")

		convey.So(res.Balls, convey.ShouldHaveLength, 1)
		convey.So(res.Balls[0].PositionX, convey.ShouldBeNil)
		convey.So(res.Balls[0].AssignedPlayerID, convey.ShouldBeNil)
		convey.So(res.Balls[0].TeamInControl, convey.ShouldBeNil)
	})
}

func TestTransformColorFallback(t *testing.T) {
	convey.Convey("Given team indexes the color list cannot serve", t, func() {
		colors := model.ColorVectors{{255, 0, 0}, {0, 0, 255}}
		tracks := model.Tracks{Players: []map[int]model.PlayerTrack{{
			1: {Team: team("3"), TeamColor: colors},
			2: {Team: team("abc"), TeamColor: colors},
			3: {Team: team("0"), TeamColor: colors},
			4: {Team: team("2"), TeamColor: model.ColorVectors{{0, 0, 255}, {1, 2}}},
			5: {Team: team("2"), TeamColor: colors},
		}}}

		res := transform.New().Transform(tracks, nil, "v1")

		convey.Convey("Then the sentinel is stored and the ingest continues", func() {
			convey.So(res.Players, convey.ShouldHaveLength, 5)
			for _, p := range res.Players[:4] {
				convey.So(p.TeamColorName, convey.ShouldEqual, "N/A")
			}
			convey.So(res.Players[4].TeamColorName, convey.ShouldEqual, "blue")
			convey.So(res.ColorFallbacks, convey.ShouldHaveLength, 4)
			convey.So(res.ColorFallbacks[0].PlayerID, convey.ShouldEqual, 1)
			convey.So(res.ColorFallbacks[0].Reason, convey.ShouldEqual, "team index out of range")
		})
	})
}

func TestTransformBallIDs(t *testing.T) {
	convey.Convey("Given many ball frames", t, func() {
		balls := make([]map[int]model.BallTrack, 200)
		for i := range balls {
			balls[i] = map[int]model.BallTrack{model.BallEntityID: {BBox: []float64{1, 1, 2, 2}}}
		}

		res := transform.New().Transform(model.Tracks{Ball: balls}, nil, "v1")

		convey.Convey("Then every ball row has a distinct id", func() {
			seen := make(map[uuid.UUID]bool, len(res.Balls))
			for _, b := range res.Balls {
				convey.So(seen[b.BallID], convey.ShouldBeFalse)
				seen[b.BallID] = true
			}
			convey.So(seen, convey.ShouldHaveLength, 200)
		})
	})

	convey.Convey("Given an injected id generator", t, func() {
		fixed := uuid.MustParse("00000000-0000-0000-0000-000000000001")
		tr := transform.New(transform.WithIDGenerator(func() uuid.UUID { return fixed }))

		res := tr.Transform(model.Tracks{Ball: []map[int]model.BallTrack{{}}}, nil, "v1")

		convey.So(res.Balls[0].BallID, convey.ShouldEqual, fixed)
	})
}

func TestTeamInControlCarryForward(t *testing.T) {
	convey.Convey("Given a control sequence with gaps", t, func() {
		balls := []map[int]model.BallTrack{{}, {}, {}, {}}
		control := []*model.TeamID{nil, team("2"), nil}

		res := transform.New().Transform(model.Tracks{Ball: balls}, control, "v1")

		convey.Convey("Then frame 0 is null and later gaps repeat the previous value", func() {
			convey.So(res.Balls[0].TeamInControl, convey.ShouldBeNil)
			convey.So(*res.Balls[1].TeamInControl, convey.ShouldEqual, "2")
			convey.So(*res.Balls[2].TeamInControl, convey.ShouldEqual, "2")
		})

		convey.Convey("Then frames past the end of the sequence are null", func() {
			convey.So(res.Balls, convey.ShouldHaveLength, 4)
			convey.So(res.Balls[3].TeamInControl, convey.ShouldBeNil)
		})
	})
}

func TestTeamControl(t *testing.T) {
	convey.Convey("Given tracks where the ball changes hands", t, func() {
		tracks := model.Tracks{
			Players: []map[int]model.PlayerTrack{
				{7: {Team: team("1")}},
				{7: {Team: team("1")}, 9: {Team: team("2")}},
				{9: {Team: team("2")}},
				{9: {}},
			},
			Ball: []map[int]model.BallTrack{
				{},
				{model.BallEntityID: {AssignedPlayer: intPtr(9)}},
				{},
				{model.BallEntityID: {AssignedPlayer: intPtr(9)}},
			},
		}

		control := transform.TeamControl(tracks)

		convey.Convey("Then control follows the assigned team and carries forward", func() {
			convey.So(control, convey.ShouldHaveLength, 4)
			convey.So(control[0], convey.ShouldBeNil)
			convey.So(string(*control[1]), convey.ShouldEqual, "2")
			convey.So(string(*control[2]), convey.ShouldEqual, "2")
			convey.So(string(*control[3]), convey.ShouldEqual, "2")
		})
	})
}
