package journal

import (
	"fmt"
	"math/rand"

	"github.com/mcoot/pixelcanvas/internal/model"
	"github.com/mcoot/pixelcanvas/internal/services/grid"
	"github.com/mcoot/pixelcanvas/internal/testutil"
)

// populate applies a deterministic pseudo-random workload and flushes it
func (s *JournalSuite) populate(n int) []model.ActorID {
	var ids []model.ActorID
	for i := 0; i < 3; i++ {
		id, err := s.registry.Register(fmt.Sprintf("actor%d", i), "hash")
		s.Require().NoError(err)
		ids = append(ids, id)
	}
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < n; i++ {
		color := fmt.Sprintf("#%06X", rng.Intn(0xFFFFFF+1))
		s.place(ids[rng.Intn(len(ids))], rng.Intn(4), rng.Intn(4), color)
	}
	s.Require().NoError(s.journal.Flush(s.ctx))
	return ids
}

func (s *JournalSuite) TestRestoreRebuildsState() {
	ids := s.populate(50)
	_, err := s.canvas.ApplyModerationAction(s.ctx, ids[0], ids[1], model.ActionBan, model.ModerationParams{}, s.clock.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.journal.Flush(s.ctx))

	want := s.grid.Snapshot()
	wantActors := s.registry.List()

	g, registry, log, svc, _ := s.build()
	stats, err := Restore(s.ctx, s.storage, registry, log, g, 7, testutil.NopLogger())
	s.Require().NoError(err)

	s.Equal(3, stats.Actors)
	s.Equal(50, stats.Records)
	s.Equal(0, stats.Skipped)
	s.True(want.Equal(g.Snapshot()))
	s.Equal(s.history.All(), log.All())
	s.NoError(svc.VerifyCounters())

	got := registry.List()
	s.Require().Len(got, len(wantActors))
	for i := range got {
		s.Equal(wantActors[i].ID, got[i].ID)
		s.Equal(wantActors[i].PixelsPlaced, got[i].PixelsPlaced)
		s.Equal(wantActors[i].Banned, got[i].Banned)
		s.Equal(wantActors[i].IsAdmin, got[i].IsAdmin)
	}

	// Sequence continues after the restored history
	_, err = svc.ApplyMutation(s.ctx, ids[2], 0, 0, "#000000", s.clock.Now())
	s.Require().NoError(err)
	s.Equal(int64(51), log.LastSeq())
}

func (s *JournalSuite) TestRestoreIsBatchSizeIndependent() {
	s.populate(37)
	want := s.grid.Snapshot()

	for _, batch := range []int{1, 2, 5, 36, 37, 38, 0} {
		g, registry, log, _, _ := s.build()
		_, err := Restore(s.ctx, s.storage, registry, log, g, batch, nil)
		s.Require().NoError(err)
		s.True(want.Equal(g.Snapshot()), "batch size %d", batch)
		s.Equal(37, log.Len(), "batch size %d", batch)
	}
}

func (s *JournalSuite) TestRestoreRecomputesCounters() {
	ids := s.populate(20)

	// Simulate a crash after history was written but before actors were
	stale := s.registry.List()
	for i := range stale {
		stale[i].PixelsPlaced = 0
	}
	s.Require().NoError(s.storage.SaveActors(s.ctx, stale))

	g, registry, log, svc, _ := s.build()
	_, err := Restore(s.ctx, s.storage, registry, log, g, 0, nil)
	s.Require().NoError(err)
	s.NoError(svc.VerifyCounters())

	total := 0
	for _, id := range ids {
		a, err := registry.Get(id)
		s.Require().NoError(err)
		total += a.PixelsPlaced
	}
	s.Equal(20, total)
}

func (s *JournalSuite) TestRestoreSkipsOutOfBoundsRecords() {
	s.populate(30)

	small := grid.New(2, 2)
	_, registry, log, _, _ := s.build()
	stats, err := Restore(s.ctx, s.storage, registry, log, small, 0, nil)
	s.Require().NoError(err)
	s.Equal(30, stats.Records)
	s.Equal(30, log.Len())
	s.Positive(stats.Skipped)
}

func (s *JournalSuite) TestRestoreRequiresEmptyState() {
	s.populate(1)
	_, err := Restore(s.ctx, s.storage, s.registry, s.history, s.grid, 0, nil)
	s.Error(err)
}
