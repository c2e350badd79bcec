package redis

import (
	"fmt"

	"github.com/mcoot/pixelcanvas/internal/model"
)

// keys builds Redis keys under a prefix
type keys struct {
	prefix string
}

// actor returns the key holding one actor as JSON
func (k keys) actor(id model.ActorID) string {
	return fmt.Sprintf("%s:actor:%s", k.prefix, id)
}

// actorIndex returns the key of the SET of all actor ids
func (k keys) actorIndex() string {
	return fmt.Sprintf("%s:idx:actors", k.prefix)
}

// historyRecords returns the key of the HASH seq -> record JSON
func (k keys) historyRecords() string {
	return fmt.Sprintf("%s:history:records", k.prefix)
}

// historyOrder returns the key of the ZSET of seqs scored by seq
func (k keys) historyOrder() string {
	return fmt.Sprintf("%s:history:order", k.prefix)
}
