package room

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Registry maps room IDs to rooms and remembers creation order, which is the order
// matchmaking scans for an open seat. It is owned by one Manager and is not safe for
// concurrent use.
type Registry struct {
	rooms *orderedmap.OrderedMap[string, *Room]
}

func NewRegistry() *Registry {
	return &Registry{rooms: orderedmap.New[string, *Room]()}
}

func (r *Registry) Add(room *Room) {
	r.rooms.Set(room.ID, room)
}

func (r *Registry) Get(id string) (*Room, bool) {
	return r.rooms.Get(id)
}

func (r *Registry) Remove(id string) bool {
	_, present := r.rooms.Delete(id)
	return present
}

func (r *Registry) Len() int {
	return r.rooms.Len()
}

// FirstOpen returns the oldest room that still accepts a player, or nil.
func (r *Registry) FirstOpen() *Room {
	for pair := r.rooms.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.IsOpen() {
			return pair.Value
		}
	}
	return nil
}

// Each visits rooms in creation order until fn returns false.
func (r *Registry) Each(fn func(room *Room) bool) {
	for pair := r.rooms.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Value) {
			return
		}
	}
}
