package baml

import "fmt"

// Manager hands out record instances for one reader and one writer. The
// read cache keeps one resident record per type that is overwritten by the
// next read of that type unless it was pinned. The write cache holds at
// most one released record per type. Manager has no locking: the read side
// and the write side may each be driven by one goroutine.
type Manager struct {
	readCache  [LastRecordType]Record
	writeCache []Record
}

// NewManager returns a manager with empty caches.
func NewManager() *Manager {
	return &Manager{}
}

// AcquireForRead returns the record to decode the next record of type t
// into. The resident instance is reused unless it is pinned. Callers that
// need a record to survive the next read of the same type must pin or
// clone it. It returns nil for tags without a record kind.
func (m *Manager) AcquireForRead(t RecordType) Record {
	if !t.Valid() || t.Reserved() {
		return nil
	}
	rec := m.readCache[t]
	if rec == nil || rec.IsPinned() {
		rec = Allocate(t)
		m.readCache[t] = rec
	}
	return rec
}

// AcquireForWrite returns a record of type t to populate and write. It
// returns nil for tags without a record kind.
func (m *Manager) AcquireForWrite(t RecordType) Record {
	if !t.Valid() || t.Reserved() {
		return nil
	}
	var rec Record
	if m.writeCache != nil {
		rec = m.writeCache[t]
		m.writeCache[t] = nil
	}
	if rec == nil {
		rec = Allocate(t)
	}
	rec.SetSize(-1)
	return rec
}

// derived is implemented by the in-memory variants that share a tag with
// a plainer kind. They are never cached.
type derived interface {
	derivedVariant()
}

// Release returns a written record to the write cache. Pinned records and
// derived variants are left to their holder. Releasing a record while its
// slot is occupied means two records of one type were borrowed at once,
// which the write path does not support.
func (m *Manager) Release(rec Record) {
	if rec == nil || rec.IsPinned() {
		return
	}
	if _, ok := rec.(derived); ok {
		return
	}
	if m.writeCache == nil {
		m.writeCache = make([]Record, LastRecordType)
	}
	t := rec.Type()
	if m.writeCache[t] != nil {
		panic(fmt.Sprintf("baml: multiple concurrent borrows of %s records on the write path are not supported", t))
	}
	rec.SetNext(nil)
	m.writeCache[t] = rec
}

// Allocate constructs a fresh record of type t. Reserved tags have no
// record kind and yield nil. A tag outside the taxonomy means the taxonomy
// and the allocator drifted apart, and panics.
func Allocate(t RecordType) Record {
	switch t {
	case Unknown, ClrEvent, XmlAttribute, ProcessingInstruction, Comment,
		DefTag, EndAttributes, NamedElementStart:
		return nil

	case DocumentStart:
		return newDocumentStartRecord()
	case DocumentEnd, ElementEnd, PropertyComplexEnd, PropertyArrayEnd,
		PropertyIListEnd, PropertyIDictionaryEnd, KeyElementEnd,
		ConstructorParametersStart, ConstructorParametersEnd, StaticResourceEnd:
		return newMarkerRecord(t)
	case ElementStart, StaticResourceStart:
		return newElementStartRecord(t)
	case Property:
		return &PropertyRecord{}
	case PropertyCustom:
		return &PropertyCustomRecord{}
	case PropertyComplexStart, PropertyArrayStart, PropertyIListStart, PropertyIDictionaryStart:
		return newComplexStartRecord(t)
	case LiteralContent:
		return &LiteralContentRecord{}
	case Text:
		return &TextRecord{}
	case TextWithConverter:
		return &TextWithConverterRecord{}
	case RoutedEvent:
		return &RoutedEventRecord{}
	case XmlnsProperty:
		return &XmlnsPropertyRecord{}
	case DefAttribute:
		return &DefAttributeRecord{}
	case PIMapping:
		return &PIMappingRecord{}
	case AssemblyInfo:
		return newAssemblyInfoRecord()
	case TypeInfo:
		return newTypeInfoRecord()
	case TypeSerializerInfo:
		return newTypeSerializerInfoRecord()
	case AttributeInfo:
		return newAttributeInfoRecord()
	case StringInfo:
		return newStringInfoRecord()
	case PropertyStringReference:
		return &PropertyStringReferenceRecord{}
	case PropertyTypeReference:
		return &PropertyTypeReferenceRecord{}
	case PropertyWithExtension:
		return &PropertyWithExtensionRecord{}
	case PropertyWithConverter:
		return &PropertyWithConverterRecord{}
	case DeferableContentStart:
		return newDeferableContentStartRecord()
	case DefAttributeKeyString:
		return newDefAttributeKeyStringRecord()
	case DefAttributeKeyType, KeyElementStart:
		return newKeyTypeRecord(t)
	case ConstructorParameterType:
		return &ConstructorParameterTypeRecord{}
	case ConnectionID:
		return &ConnectionIDRecord{}
	case ContentProperty:
		return &ContentPropertyRecord{}
	case StaticResourceID:
		return &StaticResourceIDRecord{}
	case TextWithID:
		return &TextWithIDRecord{}
	case PresentationOptionsAttribute:
		return &PresentationOptionsAttributeRecord{}
	case LineNumberAndPosition:
		return &LineNumberAndPositionRecord{}
	case LinePosition:
		return &LinePositionRecord{}
	case OptimizedStaticResource:
		return newOptimizedStaticResourceRecord()
	case PropertyWithStaticResourceID:
		return &PropertyWithStaticResourceIDRecord{}
	}
	panic(fmt.Sprintf("baml: no record kind for %s", t))
}

// Clone returns an independent copy of rec. The copy has the same concrete
// kind as rec, including the named element start and custom property write
// variants that share a tag with a plainer kind.
func Clone(rec Record) Record {
	var dst Record
	switch rec.(type) {
	case *NamedElementStartRecord:
		dst = NewNamedElementStartRecord()
	case *PropertyCustomWriteInfoRecord:
		dst = NewPropertyCustomWriteInfoRecord()
	default:
		dst = Allocate(rec.Type())
	}
	rec.CopyInto(dst)
	return dst
}
