package canvas

import (
	"sync"
	"time"

	"github.com/mcoot/pixelcanvas/internal/model"
)

func (s *ServiceSuite) TestDashboardCounts() {
	for i := 0; i < 3; i++ {
		_, err := s.place(s.alice, 0, 0, "#000000")
		s.Require().NoError(err)
	}
	_, err := s.place(s.bob, 1, 0, "#000000")
	s.Require().NoError(err)

	d := s.service.AdminDashboard(s.clock.Now(), DashboardOptions{})
	s.Equal(2, d.TotalActors)
	s.Equal(4, d.TotalPixels)
	s.Equal(2, d.ActiveActors)
	s.Require().Len(d.TopActors, 2)
	s.Equal("alice", d.TopActors[0].Name)
	s.Equal(3, d.TopActors[0].PixelsPlaced)
	s.Require().Len(d.RecentHistory, 4)
	s.Equal(int64(4), d.RecentHistory[0].Seq)
	s.Len(d.Actors, 2)
}

func (s *ServiceSuite) TestDashboardActiveWindow() {
	_, err := s.place(s.alice, 0, 0, "#000000")
	s.Require().NoError(err)

	s.clock.Advance(4 * time.Minute)
	_, err = s.place(s.bob, 0, 0, "#000000")
	s.Require().NoError(err)

	s.clock.Advance(2 * time.Minute)
	d := s.service.AdminDashboard(s.clock.Now(), DashboardOptions{})
	s.Equal(1, d.ActiveActors)

	s.clock.Advance(10 * time.Minute)
	d = s.service.AdminDashboard(s.clock.Now(), DashboardOptions{})
	s.Equal(0, d.ActiveActors)
}

func (s *ServiceSuite) TestDashboardTopTiesBrokenByName() {
	ids := map[string]model.ActorID{}
	for _, name := range []string{"zed", "amy", "kim"} {
		id, err := s.registry.Register(name, "hash")
		s.Require().NoError(err)
		ids[name] = id
		_, err = s.place(id, 0, 0, "#000000")
		s.Require().NoError(err)
	}

	d := s.service.AdminDashboard(s.clock.Now(), DashboardOptions{TopActors: 2, RecentRecords: 1})
	s.Require().Len(d.TopActors, 2)
	s.Equal("amy", d.TopActors[0].Name)
	s.Equal("kim", d.TopActors[1].Name)
	s.Len(d.RecentHistory, 1)
	s.Equal(ids["kim"], d.RecentHistory[0].ActorID)
}

func (s *ServiceSuite) TestDashboardIsReadOnly() {
	_, err := s.place(s.alice, 0, 0, "#000000")
	s.Require().NoError(err)
	before := s.service.Actors()
	_ = s.service.AdminDashboard(s.clock.Now(), DashboardOptions{})
	s.Equal(before, s.service.Actors())
	s.Equal(1, s.history.Len())
}

func (s *ServiceSuite) TestDashboardAgreesWithItselfUnderConcurrentWriters() {
	const perWriter = 200
	var writers sync.WaitGroup
	for _, id := range []model.ActorID{s.alice, s.bob} {
		writers.Add(1)
		go func(id model.ActorID) {
			defer writers.Done()
			for i := 0; i < perWriter; i++ {
				_, _ = s.place(id, i%2, 0, "#000000")
			}
		}(id)
	}

	done := make(chan struct{})
	go func() {
		writers.Wait()
		close(done)
	}()

	for {
		d := s.service.AdminDashboard(s.clock.Now(), DashboardOptions{})
		sum := 0
		for _, a := range d.Actors {
			sum += a.PixelsPlaced
		}
		s.Require().Equal(d.TotalPixels, sum)
		if len(d.RecentHistory) > 0 {
			s.Require().Equal(int64(d.TotalPixels), d.RecentHistory[0].Seq)
		}

		select {
		case <-done:
			final := s.service.AdminDashboard(s.clock.Now(), DashboardOptions{})
			s.Equal(2*perWriter, final.TotalPixels)
			return
		default:
		}
	}
}
