// Package storagetest holds the behavioural suite every storage backend runs
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pixelcanvas/internal/model"
	"github.com/mcoot/pixelcanvas/internal/storage"
)

// Suite exercises a storage.Storage. Backends embed it and set Storage in
// their own SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

var base = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func record(seq int64, x, y int, color model.Color, actor model.ActorID) model.HistoryRecord {
	return model.HistoryRecord{
		Seq:       seq,
		Coord:     model.Coordinate{X: x, Y: y},
		Color:     color,
		ActorID:   actor,
		Timestamp: base.Add(time.Duration(seq) * time.Second),
	}
}

// Actor tests

func (s *Suite) TestListActorsEmpty() {
	actors, err := s.Storage.ListActors(s.Ctx)
	s.Require().NoError(err)
	s.Empty(actors)
}

func (s *Suite) TestSaveAndListActors() {
	until := base.Add(10 * time.Minute)
	alice := model.Actor{
		ID:             "a-1",
		Name:           "alice",
		CredentialHash: "hash-a",
		IsAdmin:        true,
		IsModerator:    true,
		PixelsPlaced:   3,
		CreatedAt:      base,
		LastActivity:   base.Add(time.Minute),
	}
	bob := model.Actor{
		ID:           "b-1",
		Name:         "bob",
		Banned:       true,
		TimeoutUntil: &until,
		CreatedAt:    base,
		LastActivity: base,
	}

	s.Require().NoError(s.Storage.SaveActors(s.Ctx, []model.Actor{alice, bob}))

	actors, err := s.Storage.ListActors(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(actors, 2)

	byID := map[model.ActorID]model.Actor{}
	for _, a := range actors {
		byID[a.ID] = a
	}
	s.Equal("alice", byID["a-1"].Name)
	s.Equal("hash-a", byID["a-1"].CredentialHash)
	s.True(byID["a-1"].IsAdmin)
	s.Equal(3, byID["a-1"].PixelsPlaced)
	s.True(byID["a-1"].LastActivity.Equal(alice.LastActivity))
	s.Nil(byID["a-1"].TimeoutUntil)

	s.True(byID["b-1"].Banned)
	s.Require().NotNil(byID["b-1"].TimeoutUntil)
	s.True(byID["b-1"].TimeoutUntil.Equal(until))
}

func (s *Suite) TestSaveActorsUpserts() {
	a := model.Actor{ID: "a-1", Name: "alice", CreatedAt: base, LastActivity: base}
	s.Require().NoError(s.Storage.SaveActors(s.Ctx, []model.Actor{a}))

	a.PixelsPlaced = 7
	a.Banned = true
	s.Require().NoError(s.Storage.SaveActors(s.Ctx, []model.Actor{a}))

	actors, err := s.Storage.ListActors(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(actors, 1)
	s.Equal(7, actors[0].PixelsPlaced)
	s.True(actors[0].Banned)
}

func (s *Suite) TestSaveActorsClearsTimeout() {
	until := base.Add(time.Hour)
	a := model.Actor{ID: "a-1", Name: "alice", TimeoutUntil: &until, CreatedAt: base, LastActivity: base}
	s.Require().NoError(s.Storage.SaveActors(s.Ctx, []model.Actor{a}))

	a.TimeoutUntil = nil
	s.Require().NoError(s.Storage.SaveActors(s.Ctx, []model.Actor{a}))

	actors, err := s.Storage.ListActors(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(actors, 1)
	s.Nil(actors[0].TimeoutUntil)
}

func (s *Suite) TestSaveActorsEmptyBatch() {
	s.NoError(s.Storage.SaveActors(s.Ctx, nil))
}

// History tests

func (s *Suite) TestListHistoryEmpty() {
	records, err := s.Storage.ListHistory(s.Ctx, 0, 0)
	s.Require().NoError(err)
	s.Empty(records)
}

func (s *Suite) TestAppendAndListHistory() {
	s.Require().NoError(s.Storage.AppendHistory(s.Ctx, []model.HistoryRecord{
		record(1, 0, 0, 0xFF0000, "a-1"),
		record(2, 1, 2, 0x00FF00, "b-1"),
	}))
	s.Require().NoError(s.Storage.AppendHistory(s.Ctx, []model.HistoryRecord{
		record(3, 2, 2, 0x0000FF, ""),
	}))

	records, err := s.Storage.ListHistory(s.Ctx, 0, 0)
	s.Require().NoError(err)
	s.Require().Len(records, 3)

	s.Equal(int64(1), records[0].Seq)
	s.Equal(model.Coordinate{X: 1, Y: 2}, records[1].Coord)
	s.Equal(model.Color(0x00FF00), records[1].Color)
	s.Equal(model.ActorID("b-1"), records[1].ActorID)
	s.True(records[1].Timestamp.Equal(base.Add(2 * time.Second)))
	s.True(records[2].IsAnonymous())
}

func (s *Suite) TestAppendHistoryIgnoresDuplicateSeq() {
	s.Require().NoError(s.Storage.AppendHistory(s.Ctx, []model.HistoryRecord{record(1, 0, 0, 0xFF0000, "a-1")}))
	s.Require().NoError(s.Storage.AppendHistory(s.Ctx, []model.HistoryRecord{
		record(1, 0, 0, 0xFF0000, "a-1"),
		record(2, 0, 0, 0x00FF00, "a-1"),
	}))

	records, err := s.Storage.ListHistory(s.Ctx, 0, 0)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal(int64(2), records[1].Seq)
}

func (s *Suite) TestListHistoryPaging() {
	var batch []model.HistoryRecord
	for i := int64(1); i <= 10; i++ {
		batch = append(batch, record(i, int(i)%3, 0, model.Color(i), "a-1"))
	}
	s.Require().NoError(s.Storage.AppendHistory(s.Ctx, batch))

	page, err := s.Storage.ListHistory(s.Ctx, 3, 4)
	s.Require().NoError(err)
	s.Require().Len(page, 4)
	s.Equal(int64(4), page[0].Seq)
	s.Equal(int64(7), page[3].Seq)

	tail, err := s.Storage.ListHistory(s.Ctx, 8, 100)
	s.Require().NoError(err)
	s.Len(tail, 2)

	none, err := s.Storage.ListHistory(s.Ctx, 10, 5)
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *Suite) TestListHistoryOrderedAcrossOutOfOrderBatches() {
	s.Require().NoError(s.Storage.AppendHistory(s.Ctx, []model.HistoryRecord{record(2, 0, 0, 2, "a-1")}))
	s.Require().NoError(s.Storage.AppendHistory(s.Ctx, []model.HistoryRecord{record(1, 0, 0, 1, "a-1")}))

	records, err := s.Storage.ListHistory(s.Ctx, 0, 0)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal(int64(1), records[0].Seq)
	s.Equal(int64(2), records[1].Seq)
}
