package baml

import "fmt"

// Tables holds the info records of a stream keyed by id. Later records
// refer to assemblies, types, attributes and strings through these ids.
// Negative ids are well-known entries resolved by a static table of the
// consumer and are never stored here.
type Tables struct {
	assemblies map[int16]*AssemblyInfoRecord
	types      map[int16]Record
	attributes map[int16]*AttributeInfoRecord
	strings    map[int16]*StringInfoRecord
}

// NewTables returns empty tables.
func NewTables() *Tables {
	return &Tables{
		assemblies: make(map[int16]*AssemblyInfoRecord),
		types:      make(map[int16]Record),
		attributes: make(map[int16]*AttributeInfoRecord),
		strings:    make(map[int16]*StringInfoRecord),
	}
}

// IsKnownID reports whether id refers to a well-known entry.
func IsKnownID(id int16) bool {
	return id < 0
}

// Add stores rec if it is an info record and reports whether it was. The
// record is kept by identity, so it must be pinned, as info records are
// from construction. Info records declaring a well-known id are rejected.
func (t *Tables) Add(rec Record) (bool, error) {
	var (
		id     int16
		exists bool
		store  func()
	)
	switch r := rec.(type) {
	case *AssemblyInfoRecord:
		id = r.AssemblyID
		_, exists = t.assemblies[id]
		store = func() { t.assemblies[id] = r }
	case *TypeInfoRecord:
		id = r.TypeID
		_, exists = t.types[id]
		store = func() { t.types[id] = r }
	case *TypeSerializerInfoRecord:
		id = r.TypeID
		_, exists = t.types[id]
		store = func() { t.types[id] = r }
	case *AttributeInfoRecord:
		id = r.AttributeID
		_, exists = t.attributes[id]
		store = func() { t.attributes[id] = r }
	case *StringInfoRecord:
		id = r.StringID
		_, exists = t.strings[id]
		store = func() { t.strings[id] = r }
	default:
		return false, nil
	}
	if IsKnownID(id) {
		return true, fmt.Errorf("%w: %s declares id %d", ErrKnownID, rec.Type(), id)
	}
	if exists {
		return true, fmt.Errorf("%w: duplicate %s id %d", ErrStreamContract, rec.Type(), id)
	}
	store()
	return true, nil
}

func checkID(kind string, id int16) error {
	if IsKnownID(id) {
		return fmt.Errorf("%w: %s id %d", ErrKnownID, kind, id)
	}
	return nil
}

// Assembly returns the assembly info for id.
func (t *Tables) Assembly(id int16) (*AssemblyInfoRecord, error) {
	if err := checkID("assembly", id); err != nil {
		return nil, err
	}
	r, ok := t.assemblies[id]
	if !ok {
		return nil, fmt.Errorf("%w: assembly id %d", ErrUnknownID, id)
	}
	return r, nil
}

// TypeInfo returns the type info for id. Types declared with a serializer
// are returned through their embedded type info.
func (t *Tables) TypeInfo(id int16) (*TypeInfoRecord, error) {
	if err := checkID("type", id); err != nil {
		return nil, err
	}
	switch r := t.types[id].(type) {
	case *TypeInfoRecord:
		return r, nil
	case *TypeSerializerInfoRecord:
		return &r.TypeInfoRecord, nil
	}
	return nil, fmt.Errorf("%w: type id %d", ErrUnknownID, id)
}

// Serializer returns the serializer type id declared for a type, if any.
func (t *Tables) Serializer(typeID int16) (int16, bool) {
	r, ok := t.types[typeID].(*TypeSerializerInfoRecord)
	if !ok {
		return 0, false
	}
	return r.SerializerTypeID, true
}

// Attribute returns the attribute info for id.
func (t *Tables) Attribute(id int16) (*AttributeInfoRecord, error) {
	if err := checkID("attribute", id); err != nil {
		return nil, err
	}
	r, ok := t.attributes[id]
	if !ok {
		return nil, fmt.Errorf("%w: attribute id %d", ErrUnknownID, id)
	}
	return r, nil
}

// StringValue returns the string table entry for id.
func (t *Tables) StringValue(id int16) (string, error) {
	if err := checkID("string", id); err != nil {
		return "", err
	}
	r, ok := t.strings[id]
	if !ok {
		return "", fmt.Errorf("%w: string id %d", ErrUnknownID, id)
	}
	return r.Value, nil
}

// Len returns the total number of stored info records.
func (t *Tables) Len() int {
	return len(t.assemblies) + len(t.types) + len(t.attributes) + len(t.strings)
}
