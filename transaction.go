package oced

// applyBatch validates and applies an ordered qualifier batch against a
// clone of base. Qualifier i sees the cumulative effect of qualifiers
// 0..i-1 of the same batch. On the first violation the clone is discarded
// and the offending index and code are returned; otherwise the clone is
// returned as the next committed state. base is never touched.
func applyBatch(base *stateStore, batch []Qualifier) (*stateStore, *ValidationError) {
	working := base.clone()
	for i, q := range batch {
		var prev Qualifier
		if i > 0 {
			prev = batch[i-1]
		}
		if verr := applyQualifier(working, q, i, prev); verr != nil {
			return nil, verr
		}
	}
	return working, nil
}

// applyQualifier validates one qualifier against the evolving working
// state and applies its effect in place. prev is the immediately preceding
// qualifier of the same event (nil for the first), needed for the adjacent
// no-op rule.
func applyQualifier(w *stateStore, q Qualifier, index int, prev Qualifier) *ValidationError {
	switch q := q.(type) {
	case CreateObject:
		if _, used := w.objects[q.ObjectID]; used {
			return newValidationError(ErrCodeDuplicateCreate, index,
				"object id %q already used", q.ObjectID)
		}
		w.objects[q.ObjectID] = Object{ID: q.ObjectID, Type: q.ObjectType, Alive: true}

	case ModifyObject:
		obj, ok := w.objects[q.ObjectID]
		if !ok || !obj.Alive {
			return newValidationError(ErrCodeDeadOrUnknownReference, index,
				"object %q is absent or deleted", q.ObjectID)
		}
		if adjacentTarget(prev, targetObject, q.ObjectID) && obj.Type == q.NewType {
			return newValidationError(ErrCodeNoOpModify, index,
				"object %q already has type %q after the preceding qualifier", q.ObjectID, q.NewType)
		}
		obj.Type = q.NewType
		w.objects[q.ObjectID] = obj

	case DeleteObject:
		return newValidationError(ErrCodeUnsupported, index,
			"delete_object is not supported: cascading deletion is unresolved")

	case InvolveObject:
		if !w.objectAlive(q.ObjectID) {
			return newValidationError(ErrCodeDeadOrUnknownReference, index,
				"object %q is absent or deleted", q.ObjectID)
		}
		// No state effect; the involvement lives in history only.

	case CreateAttributeValue:
		if _, used := w.values[q.ValueID]; used {
			return newValidationError(ErrCodeDuplicateCreate, index,
				"attribute value id %q already used", q.ValueID)
		}
		if !w.objectAlive(q.ObjectID) {
			return newValidationError(ErrCodeDeadOrUnknownReference, index,
				"object %q is absent or deleted", q.ObjectID)
		}
		w.values[q.ValueID] = AttributeValue{
			ID:       q.ValueID,
			ObjectID: q.ObjectID,
			Name:     q.Name,
			Value:    q.Value,
			Alive:    true,
		}

	case ModifyAttributeValue:
		v, ok := w.values[q.ValueID]
		if !ok || !v.Alive {
			return newValidationError(ErrCodeDeadOrUnknownReference, index,
				"attribute value %q is absent or deleted", q.ValueID)
		}
		if !w.objectAlive(v.ObjectID) {
			return newValidationError(ErrCodeDeadOrUnknownReference, index,
				"object %q owning attribute value %q is absent or deleted", v.ObjectID, q.ValueID)
		}
		if adjacentTarget(prev, targetValue, q.ValueID) && v.Value == q.NewValue {
			return newValidationError(ErrCodeNoOpModify, index,
				"attribute value %q already holds %q after the preceding qualifier", q.ValueID, q.NewValue)
		}
		v.Value = q.NewValue
		w.values[q.ValueID] = v

	case DeleteAttributeValue:
		v, ok := w.values[q.ValueID]
		if !ok || !v.Alive {
			return newValidationError(ErrCodeDeadOrUnknownReference, index,
				"attribute value %q is absent or deleted", q.ValueID)
		}
		v.Alive = false
		w.values[q.ValueID] = v

	case InvolveAttributeValue:
		if !w.valueAlive(q.ValueID) {
			return newValidationError(ErrCodeDeadOrUnknownReference, index,
				"attribute value %q is absent or deleted", q.ValueID)
		}

	case CreateRelation:
		if q.FromObjectID == q.ToObjectID {
			return newValidationError(ErrCodeSelfRelation, index,
				"relation %q has identical endpoints %q", q.RelationID, q.FromObjectID)
		}
		if _, used := w.relations[q.RelationID]; used {
			return newValidationError(ErrCodeDuplicateCreate, index,
				"relation id %q already used", q.RelationID)
		}
		if !w.objectAlive(q.FromObjectID) {
			return newValidationError(ErrCodeDeadOrUnknownReference, index,
				"relation source object %q is absent or deleted", q.FromObjectID)
		}
		if !w.objectAlive(q.ToObjectID) {
			return newValidationError(ErrCodeDeadOrUnknownReference, index,
				"relation target object %q is absent or deleted", q.ToObjectID)
		}
		w.relations[q.RelationID] = Relation{
			ID:           q.RelationID,
			FromObjectID: q.FromObjectID,
			ToObjectID:   q.ToObjectID,
			Type:         q.RelationType,
			Alive:        true,
		}

	case ModifyRelation:
		r, ok := w.relations[q.RelationID]
		if !ok || !r.Alive {
			return newValidationError(ErrCodeDeadOrUnknownReference, index,
				"relation %q is absent or deleted", q.RelationID)
		}
		if adjacentTarget(prev, targetRelation, q.RelationID) && r.Type == q.NewType {
			return newValidationError(ErrCodeNoOpModify, index,
				"relation %q already has type %q after the preceding qualifier", q.RelationID, q.NewType)
		}
		r.Type = q.NewType
		w.relations[q.RelationID] = r

	case DeleteRelation:
		r, ok := w.relations[q.RelationID]
		if !ok || !r.Alive {
			return newValidationError(ErrCodeDeadOrUnknownReference, index,
				"relation %q is absent or deleted", q.RelationID)
		}
		r.Alive = false
		w.relations[q.RelationID] = r

	case InvolveRelation:
		if !w.relationAlive(q.RelationID) {
			return newValidationError(ErrCodeDeadOrUnknownReference, index,
				"relation %q is absent or deleted", q.RelationID)
		}

	default:
		// Unreachable while Qualifier stays sealed.
		return newValidationError(ErrCodeUnsupported, index,
			"unknown qualifier type %T", q)
	}
	return nil
}

// targetKind separates the three id namespaces for adjacency checks.
type targetKind int

const (
	targetObject targetKind = iota
	targetValue
	targetRelation
)

// adjacentTarget reports whether prev targets the given entity. Used by
// the no-op rule: a Modify is rejected only when the immediately preceding
// qualifier touched the same entity and the modify would change nothing.
func adjacentTarget(prev Qualifier, kind targetKind, id string) bool {
	if prev == nil {
		return false
	}
	pk, pid, ok := qualifierTarget(prev)
	return ok && pk == kind && pid == id
}

// qualifierTarget returns the primary entity a qualifier targets.
func qualifierTarget(q Qualifier) (targetKind, string, bool) {
	switch q := q.(type) {
	case CreateObject:
		return targetObject, q.ObjectID, true
	case ModifyObject:
		return targetObject, q.ObjectID, true
	case DeleteObject:
		return targetObject, q.ObjectID, true
	case InvolveObject:
		return targetObject, q.ObjectID, true
	case CreateAttributeValue:
		return targetValue, q.ValueID, true
	case ModifyAttributeValue:
		return targetValue, q.ValueID, true
	case DeleteAttributeValue:
		return targetValue, q.ValueID, true
	case InvolveAttributeValue:
		return targetValue, q.ValueID, true
	case CreateRelation:
		return targetRelation, q.RelationID, true
	case ModifyRelation:
		return targetRelation, q.RelationID, true
	case DeleteRelation:
		return targetRelation, q.RelationID, true
	case InvolveRelation:
		return targetRelation, q.RelationID, true
	}
	return 0, "", false
}
