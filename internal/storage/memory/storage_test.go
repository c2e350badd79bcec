package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pixelcanvas/internal/model"
	"github.com/mcoot/pixelcanvas/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.Storage = New()
	s.Ctx = context.Background()
}

func (s *StorageSuite) TestListActorsReturnsCopies() {
	s.Require().NoError(s.Storage.SaveActors(s.Ctx, []model.Actor{{ID: "a-1", Name: "alice"}}))
	actors, err := s.Storage.ListActors(s.Ctx)
	s.Require().NoError(err)
	actors[0].Name = "mallory"

	again, err := s.Storage.ListActors(s.Ctx)
	s.Require().NoError(err)
	s.Equal("alice", again[0].Name)
}
