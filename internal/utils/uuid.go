package utils

import "github.com/google/uuid"

// NewTimeOrderedID returns a UUID v7 string. Ids generated later sort after
// earlier ones, which keeps btree inserts append-only. If the v7 source
// fails a random v4 id is returned instead.
func NewTimeOrderedID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// UUIDGenerator assigns primary ids to new checklists and items.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	return NewTimeOrderedID()
}
