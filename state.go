package oced

// Object is the materialized record for one object id: its latest type and
// whether it is still alive. Tombstoned objects stay in the state forever
// so their ids cannot be reused.
type Object struct {
	ID    string
	Type  string
	Alive bool
}

// AttributeValue is the materialized record for one attribute value id.
// Name is not part of any key: two alive values may carry the same name,
// even on the same object, under different ids.
type AttributeValue struct {
	ID       string
	ObjectID string
	Name     string
	Value    string
	Alive    bool
}

// Relation is the materialized record for one relation id. FromObjectID
// and ToObjectID are always distinct.
type Relation struct {
	ID           string
	FromObjectID string
	ToObjectID   string
	Type         string
	Alive        bool
}

// CurrentState is a deep, independent snapshot of the materialized state:
// every entity ever created, keyed by id, with its latest fields and alive
// flag. Mutating a snapshot never affects the model it came from.
type CurrentState struct {
	Objects         map[string]Object
	AttributeValues map[string]AttributeValue
	Relations       map[string]Relation
}

// stateStore holds the live materialized state. Entries are value structs,
// so copying a map copies everything it holds.
type stateStore struct {
	objects   map[string]Object
	values    map[string]AttributeValue
	relations map[string]Relation
}

func newStateStore() *stateStore {
	return &stateStore{
		objects:   make(map[string]Object),
		values:    make(map[string]AttributeValue),
		relations: make(map[string]Relation),
	}
}

// clone returns a fully independent copy used as the working state of one
// transaction.
func (s *stateStore) clone() *stateStore {
	c := &stateStore{
		objects:   make(map[string]Object, len(s.objects)),
		values:    make(map[string]AttributeValue, len(s.values)),
		relations: make(map[string]Relation, len(s.relations)),
	}
	for id, o := range s.objects {
		c.objects[id] = o
	}
	for id, v := range s.values {
		c.values[id] = v
	}
	for id, r := range s.relations {
		c.relations[id] = r
	}
	return c
}

// snapshot returns the exported read-only copy handed to callers.
func (s *stateStore) snapshot() CurrentState {
	cs := CurrentState{
		Objects:         make(map[string]Object, len(s.objects)),
		AttributeValues: make(map[string]AttributeValue, len(s.values)),
		Relations:       make(map[string]Relation, len(s.relations)),
	}
	for id, o := range s.objects {
		cs.Objects[id] = o
	}
	for id, v := range s.values {
		cs.AttributeValues[id] = v
	}
	for id, r := range s.relations {
		cs.Relations[id] = r
	}
	return cs
}

func (s *stateStore) objectAlive(id string) bool {
	o, ok := s.objects[id]
	return ok && o.Alive
}

func (s *stateStore) valueAlive(id string) bool {
	v, ok := s.values[id]
	return ok && v.Alive
}

func (s *stateStore) relationAlive(id string) bool {
	r, ok := s.relations[id]
	return ok && r.Alive
}
