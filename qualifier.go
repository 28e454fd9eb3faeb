package oced

// Kind identifies a qualifier variant. Kind strings are stable snake_case
// identifiers shared by every wire format (JSON, XML, scenario YAML, store
// payloads).
type Kind string

const (
	KindCreateObject          Kind = "create_object"
	KindModifyObject          Kind = "modify_object"
	KindDeleteObject          Kind = "delete_object"
	KindInvolveObject         Kind = "involve_object"
	KindCreateAttributeValue  Kind = "create_attribute_value"
	KindModifyAttributeValue  Kind = "modify_attribute_value"
	KindDeleteAttributeValue  Kind = "delete_attribute_value"
	KindInvolveAttributeValue Kind = "involve_attribute_value"
	KindCreateRelation        Kind = "create_relation"
	KindModifyRelation        Kind = "modify_relation"
	KindDeleteRelation        Kind = "delete_relation"
	KindInvolveRelation       Kind = "involve_relation"
)

// Qualifier is a sealed interface over the closed set of elementary
// mutations an event may carry. Only the variant structs in this package
// implement it, so a type switch over Qualifier is exhaustive.
//
// Variants are plain value structs with string fields and no behavior.
// Preconditions and effects live in the transaction runner.
type Qualifier interface {
	qualifier() // Sealed - only these types implement it
	Kind() Kind
}

// CreateObject introduces a new object. The id must never have been used
// for an object before, deleted or not.
type CreateObject struct {
	ObjectID   string
	ObjectType string
}

func (CreateObject) qualifier() {}

// Kind returns KindCreateObject.
func (CreateObject) Kind() Kind { return KindCreateObject }

// ModifyObject replaces the type of an alive object.
type ModifyObject struct {
	ObjectID string
	NewType  string
}

func (ModifyObject) qualifier() {}

// Kind returns KindModifyObject.
func (ModifyObject) Kind() Kind { return KindModifyObject }

// DeleteObject is declared for completeness but always rejected: whether
// deleting an object cascades to its attribute values, relations, or child
// objects is unresolved, and the runner refuses to guess.
type DeleteObject struct {
	ObjectID string
}

func (DeleteObject) qualifier() {}

// Kind returns KindDeleteObject.
func (DeleteObject) Kind() Kind { return KindDeleteObject }

// InvolveObject records in history that the event references an alive
// object without changing it. Later qualifiers of the same event may lean
// on the reference, e.g. a relation to an object created by an earlier
// event.
type InvolveObject struct {
	ObjectID string
}

func (InvolveObject) qualifier() {}

// Kind returns KindInvolveObject.
func (InvolveObject) Kind() Kind { return KindInvolveObject }

// CreateAttributeValue attaches a new named text value to an alive object.
// The value id must never have been used for an attribute value before.
type CreateAttributeValue struct {
	ValueID  string
	ObjectID string
	Name     string
	Value    string
}

func (CreateAttributeValue) qualifier() {}

// Kind returns KindCreateAttributeValue.
func (CreateAttributeValue) Kind() Kind { return KindCreateAttributeValue }

// ModifyAttributeValue replaces the text of an alive attribute value whose
// owning object is also alive.
type ModifyAttributeValue struct {
	ValueID  string
	NewValue string
}

func (ModifyAttributeValue) qualifier() {}

// Kind returns KindModifyAttributeValue.
func (ModifyAttributeValue) Kind() Kind { return KindModifyAttributeValue }

// DeleteAttributeValue tombstones an alive attribute value.
type DeleteAttributeValue struct {
	ValueID string
}

func (DeleteAttributeValue) qualifier() {}

// Kind returns KindDeleteAttributeValue.
func (DeleteAttributeValue) Kind() Kind { return KindDeleteAttributeValue }

// InvolveAttributeValue records a reference to an alive attribute value
// without changing it.
type InvolveAttributeValue struct {
	ValueID string
}

func (InvolveAttributeValue) qualifier() {}

// Kind returns KindInvolveAttributeValue.
func (InvolveAttributeValue) Kind() Kind { return KindInvolveAttributeValue }

// CreateRelation introduces a typed directed relation between two distinct
// alive objects. The relation id must never have been used before.
type CreateRelation struct {
	RelationID   string
	FromObjectID string
	ToObjectID   string
	RelationType string
}

func (CreateRelation) qualifier() {}

// Kind returns KindCreateRelation.
func (CreateRelation) Kind() Kind { return KindCreateRelation }

// ModifyRelation replaces the type of an alive relation.
type ModifyRelation struct {
	RelationID string
	NewType    string
}

func (ModifyRelation) qualifier() {}

// Kind returns KindModifyRelation.
func (ModifyRelation) Kind() Kind { return KindModifyRelation }

// DeleteRelation tombstones an alive relation.
type DeleteRelation struct {
	RelationID string
}

func (DeleteRelation) qualifier() {}

// Kind returns KindDeleteRelation.
func (DeleteRelation) Kind() Kind { return KindDeleteRelation }

// InvolveRelation records a reference to an alive relation without
// changing it.
type InvolveRelation struct {
	RelationID string
}

func (InvolveRelation) qualifier() {}

// Kind returns KindInvolveRelation.
func (InvolveRelation) Kind() Kind { return KindInvolveRelation }
