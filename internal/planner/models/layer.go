package models

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrLayerNotFound   = errors.New("layer not found")
	ErrLayerLocked     = errors.New("layer is locked")
	ErrElementNotFound = errors.New("element not found")
)

// Layer хранит сущности слоя в картах по id. Счетчики next*ID только растут,
// поэтому удаленные id не переиспользуются.
type Layer struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Visible    bool                  `json:"visible"`
	Locked     bool                  `json:"locked"`
	Opacity    float64               `json:"opacity"`
	Rooms      map[int]Room          `json:"rooms"`
	Dimensions map[int]DimensionLine `json:"dimensions"`
	Guidelines map[int]Guideline     `json:"guidelines"`
	Doors      map[int]Door          `json:"doors"`

	NextRoomID      int `json:"nextRoomId"`
	NextDimensionID int `json:"nextDimensionId"`
	NextGuidelineID int `json:"nextGuidelineId"`
	NextDoorID      int `json:"nextDoorId"`
}

func NewLayer(id, name string) *Layer {
	l := &Layer{ID: id, Name: name, Visible: true, Opacity: 1}
	l.ensure()
	return l
}

func (l *Layer) ensure() {
	if l.Rooms == nil {
		l.Rooms = make(map[int]Room)
	}
	if l.Dimensions == nil {
		l.Dimensions = make(map[int]DimensionLine)
	}
	if l.Guidelines == nil {
		l.Guidelines = make(map[int]Guideline)
	}
	if l.Doors == nil {
		l.Doors = make(map[int]Door)
	}
	bump := func(next *int, max int) {
		if *next <= max {
			*next = max + 1
		}
	}
	bump(&l.NextRoomID, maxKey(l.Rooms))
	bump(&l.NextDimensionID, maxKey(l.Dimensions))
	bump(&l.NextGuidelineID, maxKey(l.Guidelines))
	bump(&l.NextDoorID, maxKey(l.Doors))
}

// Eligible: visible && !locked. Only eligible layers take part in snapping
// and accept edits.
func (l *Layer) Eligible() bool {
	return l.Visible && !l.Locked
}

// CheckEditable returns ErrLayerLocked for locked layers.
func (l *Layer) CheckEditable() error {
	if l.Locked {
		return fmt.Errorf("%w: %s", ErrLayerLocked, l.Name)
	}
	return nil
}

// ============================================================
// Rooms
// ============================================================

// AddRoom assigns a fresh id and stores the room.
func (l *Layer) AddRoom(r Room) int {
	l.ensure()
	r.ID = l.NextRoomID
	l.NextRoomID++
	l.Rooms[r.ID] = r
	return r.ID
}

func (l *Layer) Room(id int) (Room, error) {
	r, ok := l.Rooms[id]
	if !ok {
		return Room{}, fmt.Errorf("%w: room %d", ErrElementNotFound, id)
	}
	return r, nil
}

// PutRoom overwrites an existing room by id.
func (l *Layer) PutRoom(r Room) error {
	if _, ok := l.Rooms[r.ID]; !ok {
		return fmt.Errorf("%w: room %d", ErrElementNotFound, r.ID)
	}
	l.Rooms[r.ID] = r
	return nil
}

// ReplaceRoom atomically swaps room id for the given records. A record whose
// ID equals id keeps it; every other record gets a fresh id. The returned ids
// follow the order of rs.
func (l *Layer) ReplaceRoom(id int, rs ...Room) ([]int, error) {
	if _, ok := l.Rooms[id]; !ok {
		return nil, fmt.Errorf("%w: room %d", ErrElementNotFound, id)
	}
	delete(l.Rooms, id)
	ids := make([]int, 0, len(rs))
	for _, r := range rs {
		if r.ID == id {
			l.Rooms[id] = r
			ids = append(ids, id)
			continue
		}
		ids = append(ids, l.AddRoom(r))
	}
	return ids, nil
}

func (l *Layer) RoomIDs() []int { return sortedKeys(l.Rooms) }

// ============================================================
// Dimensions, guidelines, doors
// ============================================================

func (l *Layer) AddDimension(d DimensionLine) int {
	l.ensure()
	d.ID = l.NextDimensionID
	l.NextDimensionID++
	l.Dimensions[d.ID] = d
	return d.ID
}

func (l *Layer) Dimension(id int) (DimensionLine, error) {
	d, ok := l.Dimensions[id]
	if !ok {
		return DimensionLine{}, fmt.Errorf("%w: dimension %d", ErrElementNotFound, id)
	}
	return d, nil
}

func (l *Layer) PutDimension(d DimensionLine) error {
	if _, ok := l.Dimensions[d.ID]; !ok {
		return fmt.Errorf("%w: dimension %d", ErrElementNotFound, d.ID)
	}
	l.Dimensions[d.ID] = d
	return nil
}

func (l *Layer) DimensionIDs() []int { return sortedKeys(l.Dimensions) }

func (l *Layer) AddGuideline(g Guideline) int {
	l.ensure()
	g.ID = l.NextGuidelineID
	l.NextGuidelineID++
	l.Guidelines[g.ID] = g
	return g.ID
}

func (l *Layer) GuidelineIDs() []int { return sortedKeys(l.Guidelines) }

func (l *Layer) AddDoor(d Door) int {
	l.ensure()
	d.ID = l.NextDoorID
	l.NextDoorID++
	l.Doors[d.ID] = d
	return d.ID
}

func (l *Layer) Door(id int) (Door, error) {
	d, ok := l.Doors[id]
	if !ok {
		return Door{}, fmt.Errorf("%w: door %d", ErrElementNotFound, id)
	}
	return d, nil
}

func (l *Layer) DoorIDs() []int { return sortedKeys(l.Doors) }

// ElementKind names the entity maps of a layer.
type ElementKind string

const (
	KindRoom      ElementKind = "room"
	KindDimension ElementKind = "dimension"
	KindGuideline ElementKind = "guideline"
	KindDoor      ElementKind = "door"
)

// Remove deletes an element of any kind.
func (l *Layer) Remove(kind ElementKind, id int) error {
	var ok bool
	switch kind {
	case KindRoom:
		_, ok = l.Rooms[id]
		delete(l.Rooms, id)
	case KindDimension:
		_, ok = l.Dimensions[id]
		delete(l.Dimensions, id)
	case KindGuideline:
		_, ok = l.Guidelines[id]
		delete(l.Guidelines, id)
	case KindDoor:
		_, ok = l.Doors[id]
		delete(l.Doors, id)
	default:
		return fmt.Errorf("unknown element kind %q", kind)
	}
	if !ok {
		return fmt.Errorf("%w: %s %d", ErrElementNotFound, kind, id)
	}
	return nil
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func maxKey[V any](m map[int]V) int {
	max := 0
	for k := range m {
		if k > max {
			max = k
		}
	}
	return max
}
