package factory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pixelcanvas/internal/model"
	"github.com/mcoot/pixelcanvas/internal/services/canvas"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Test: register, place, moderate, and read back through every component
func (s *IntegrationSuite) TestCanvasFlow() {
	alice := s.app.Register("alice")
	bob := s.app.Register("bob")

	s.True(s.app.Actor(alice.ActorID).IsAdmin)
	s.False(s.app.Actor(bob.ActorID).IsAdmin)

	// Both actors draw
	_, err := s.app.CanvasService.ApplyMutation(s.ctx, alice.ActorID, 1, 1, "#FF0000", s.app.MockClock.Now())
	s.Require().NoError(err)
	_, err = s.app.CanvasService.ApplyMutation(s.ctx, bob.ActorID, 2, 3, "#00FF00", s.app.MockClock.Now())
	s.Require().NoError(err)

	state := s.app.CanvasService.Snapshot()
	s.Equal(TestCanvasWidth, state.Width)
	s.Equal("#FF0000", state.Pixels[1][1])
	s.Equal("#00FF00", state.Pixels[3][2])

	// Admin times bob out
	_, err = s.app.CanvasService.ApplyModerationAction(s.ctx, alice.ActorID, bob.ActorID,
		model.ActionTimeout, model.ModerationParams{Minutes: 10}, s.app.MockClock.Now())
	s.Require().NoError(err)

	s.app.MockClock.Advance(5 * time.Minute)
	_, err = s.app.CanvasService.ApplyMutation(s.ctx, bob.ActorID, 0, 0, "#0000FF", s.app.MockClock.Now())
	s.ErrorIs(err, model.ErrForbidden)

	s.app.MockClock.Advance(6 * time.Minute)
	_, err = s.app.CanvasService.ApplyMutation(s.ctx, bob.ActorID, 0, 0, "#0000FF", s.app.MockClock.Now())
	s.Require().NoError(err)

	d := s.app.CanvasService.AdminDashboard(s.app.MockClock.Now(), canvas.DashboardOptions{})
	s.Equal(2, d.TotalActors)
	s.Equal(3, d.TotalPixels)
	s.Equal("bob", d.TopActors[0].Name)
	s.NoError(s.app.CanvasService.VerifyCounters())
}

// Test: journal persists to the test store and a fresh app restores from it
func (s *IntegrationSuite) TestJournalPersistsToStore() {
	alice := s.app.Register("alice")
	_, err := s.app.CanvasService.ApplyMutation(s.ctx, alice.ActorID, 4, 4, "#ABCDEF", s.app.MockClock.Now())
	s.Require().NoError(err)

	s.Require().NoError(s.app.Journal.Flush(s.ctx))

	records, err := s.app.MemoryStore.ListHistory(s.ctx, 0, 0)
	s.Require().NoError(err)
	s.Len(records, 1)

	stored, err := s.app.MemoryStore.ListActors(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(stored, 1)
	s.Equal(1, stored[0].PixelsPlaced)
}

// Test: sqlite-backed app survives a restart
func (s *IntegrationSuite) TestSQLiteRestart() {
	cfg := Config{
		Width:       5,
		Height:      5,
		StorageType: "sqlite",
		SQLitePath:  filepath.Join(s.T().TempDir(), "canvas.db"),
	}

	first, err := New(s.ctx, cfg)
	s.Require().NoError(err)
	session, err := first.AuthService.Register("alice", "secret")
	s.Require().NoError(err)
	_, err = first.CanvasService.ApplyMutation(s.ctx, session.ActorID, 2, 2, "#112233", first.Clock.Now())
	s.Require().NoError(err)
	s.Require().NoError(first.Close(s.ctx))

	second, err := New(s.ctx, cfg)
	s.Require().NoError(err)
	defer func() { _ = second.Close(s.ctx) }()

	s.Equal("#112233", second.CanvasService.Snapshot().Pixels[2][2])
	a, err := second.Registry.Get(session.ActorID)
	s.Require().NoError(err)
	s.Equal(1, a.PixelsPlaced)
	s.True(a.IsAdmin)

	// Credentials survive too
	_, err = second.AuthService.Login("alice", "secret")
	s.NoError(err)
}

func (s *IntegrationSuite) TestInvalidStorageType() {
	_, err := New(s.ctx, Config{StorageType: "tape"})
	s.Error(err)
}
