package sqlite

import (
	"time"

	"github.com/mcoot/pixelcanvas/internal/model"
)

// actorRow is the persisted form of an actor
type actorRow struct {
	ID             string `gorm:"primaryKey;size:64"`
	Name           string `gorm:"uniqueIndex;size:64;not null"`
	CredentialHash string `gorm:"not null"`
	IsAdmin        bool   `gorm:"not null"`
	IsModerator    bool   `gorm:"not null"`
	Banned         bool   `gorm:"not null"`
	TimeoutUntil   *time.Time
	PixelsPlaced   int       `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
	LastActivity   time.Time `gorm:"not null"`
}

// TableName keeps the table name stable
func (actorRow) TableName() string {
	return "actors"
}

// historyRow is one persisted history record. Seq is the primary key so
// replays and retried inserts cannot duplicate it.
type historyRow struct {
	Seq       int64     `gorm:"primaryKey;autoIncrement:false"`
	X         int       `gorm:"not null"`
	Y         int       `gorm:"not null"`
	Color     uint32    `gorm:"not null"`
	ActorID   string    `gorm:"index;size:64"`
	Timestamp time.Time `gorm:"not null"`
}

// TableName keeps the table name stable
func (historyRow) TableName() string {
	return "history"
}

func toActorRow(a model.Actor) actorRow {
	return actorRow{
		ID:             string(a.ID),
		Name:           a.Name,
		CredentialHash: a.CredentialHash,
		IsAdmin:        a.IsAdmin,
		IsModerator:    a.IsModerator,
		Banned:         a.Banned,
		TimeoutUntil:   a.TimeoutUntil,
		PixelsPlaced:   a.PixelsPlaced,
		CreatedAt:      a.CreatedAt,
		LastActivity:   a.LastActivity,
	}
}

func (r actorRow) toModel() model.Actor {
	a := model.Actor{
		ID:             model.ActorID(r.ID),
		Name:           r.Name,
		CredentialHash: r.CredentialHash,
		IsAdmin:        r.IsAdmin,
		IsModerator:    r.IsModerator,
		Banned:         r.Banned,
		TimeoutUntil:   r.TimeoutUntil,
		PixelsPlaced:   r.PixelsPlaced,
		CreatedAt:      r.CreatedAt.UTC(),
		LastActivity:   r.LastActivity.UTC(),
	}
	if a.TimeoutUntil != nil {
		t := a.TimeoutUntil.UTC()
		a.TimeoutUntil = &t
	}
	return a
}

func toHistoryRow(r model.HistoryRecord) historyRow {
	return historyRow{
		Seq:       r.Seq,
		X:         r.Coord.X,
		Y:         r.Coord.Y,
		Color:     uint32(r.Color),
		ActorID:   string(r.ActorID),
		Timestamp: r.Timestamp,
	}
}

func (r historyRow) toModel() model.HistoryRecord {
	return model.HistoryRecord{
		Seq:       r.Seq,
		Coord:     model.Coordinate{X: r.X, Y: r.Y},
		Color:     model.Color(r.Color),
		ActorID:   model.ActorID(r.ActorID),
		Timestamp: r.Timestamp.UTC(),
	}
}
