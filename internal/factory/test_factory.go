package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/pixelcanvas/internal/dependencies/mocks"
	"github.com/mcoot/pixelcanvas/internal/model"
	"github.com/mcoot/pixelcanvas/internal/services/auth"
	"github.com/mcoot/pixelcanvas/internal/storage/memory"
	"github.com/mcoot/pixelcanvas/internal/testutil"
)

// Test canvas dimensions
const (
	TestCanvasWidth  = 10
	TestCanvasHeight = 10
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock   *mocks.MockClock
	MemoryStore *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	app := newWithDependencies(store, mockClock, Config{
		Width:  TestCanvasWidth,
		Height: TestCanvasHeight,
		AuthConfig: auth.Config{
			SessionDuration: auth.DefaultConfig().SessionDuration,
			BcryptCost:      bcrypt.MinCost,
		},
	}, testutil.NopLogger())

	return &TestApp{
		App:         app,
		MockClock:   mockClock,
		MemoryStore: store,
	}
}

// Register creates an actor and returns its session. The first call yields
// the bootstrap admin.
func (t *TestApp) Register(name string) *auth.Session {
	session, err := t.AuthService.Register(name, "password-"+name)
	if err != nil {
		panic(err)
	}
	return session
}

// Actor returns the current record of a registered actor
func (t *TestApp) Actor(id model.ActorID) model.Actor {
	a, err := t.Registry.Get(id)
	if err != nil {
		panic(err)
	}
	return a
}
