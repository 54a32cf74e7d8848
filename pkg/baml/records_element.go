package baml

// elementHeader is the 3 byte prefix shared by element starts and type
// keys: a 16 bit type id and a flags byte.
type elementHeader struct {
	TypeID                   int16
	CreateUsingTypeConverter bool
	IsInjected               bool
}

func (h *elementHeader) load(in *Input) error {
	var err error
	if h.TypeID, err = in.ReadInt16(); err != nil {
		return err
	}
	flags, err := in.ReadUint8()
	if err != nil {
		return err
	}
	h.CreateUsingTypeConverter = createUsingConverterSection.Flag(uint32(flags))
	h.IsInjected = isInjectedSection.Flag(uint32(flags))
	return nil
}

func (h *elementHeader) write(enc *Encoder) {
	var flags uint32
	flags = createUsingConverterSection.SetFlag(flags, h.CreateUsingTypeConverter)
	flags = isInjectedSection.SetFlag(flags, h.IsInjected)
	enc.PutInt16(h.TypeID)
	enc.PutUint8(uint8(flags))
}

// ElementStartRecord opens an object element. It also backs
// StaticResourceStart, which has the same shape.
type ElementStartRecord struct {
	Base
	elementHeader
	kind RecordType
}

func newElementStartRecord(kind RecordType) *ElementStartRecord {
	return &ElementStartRecord{kind: kind}
}

func (r *ElementStartRecord) Type() RecordType { return r.kind }

func (r *ElementStartRecord) Size() int32 { return 3 }

func (r *ElementStartRecord) LoadData(in *Input) error { return r.elementHeader.load(in) }

func (r *ElementStartRecord) WriteData(enc *Encoder) error {
	r.elementHeader.write(enc)
	return enc.Err()
}

func (r *ElementStartRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// NamedElementStartRecord is an element start that also carries the
// runtime name of the element. The name is not written; on the wire the
// record is a plain ElementStart.
type NamedElementStartRecord struct {
	ElementStartRecord
	RuntimeName      string
	IsTemplateAsRoot bool
}

// NewNamedElementStartRecord returns an empty named element start.
func NewNamedElementStartRecord() *NamedElementStartRecord {
	return &NamedElementStartRecord{ElementStartRecord: ElementStartRecord{kind: ElementStart}}
}

func (r *NamedElementStartRecord) CopyInto(dst Record) { copyRecord(r, dst) }

func (r *NamedElementStartRecord) derivedVariant() {}

// ComplexStartRecord opens a complex property. It backs
// PropertyComplexStart, PropertyArrayStart, PropertyIListStart and
// PropertyIDictionaryStart.
type ComplexStartRecord struct {
	Base
	kind        RecordType
	AttributeID int16
}

func newComplexStartRecord(kind RecordType) *ComplexStartRecord {
	return &ComplexStartRecord{kind: kind}
}

func (r *ComplexStartRecord) Type() RecordType { return r.kind }

func (r *ComplexStartRecord) Size() int32 { return 2 }

func (r *ComplexStartRecord) LoadData(in *Input) (err error) {
	r.AttributeID, err = in.ReadInt16()
	return err
}

func (r *ComplexStartRecord) WriteData(enc *Encoder) error {
	enc.PutInt16(r.AttributeID)
	return enc.Err()
}

func (r *ComplexStartRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// ConstructorParameterTypeRecord is a constructor argument given as a type.
type ConstructorParameterTypeRecord struct {
	Base
	TypeID int16
}

func (r *ConstructorParameterTypeRecord) Type() RecordType { return ConstructorParameterType }

func (r *ConstructorParameterTypeRecord) Size() int32 { return 2 }

func (r *ConstructorParameterTypeRecord) LoadData(in *Input) (err error) {
	r.TypeID, err = in.ReadInt16()
	return err
}

func (r *ConstructorParameterTypeRecord) WriteData(enc *Encoder) error {
	enc.PutInt16(r.TypeID)
	return enc.Err()
}

func (r *ConstructorParameterTypeRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// ConnectionIDRecord ties the current element to a generated event or
// field connection.
type ConnectionIDRecord struct {
	Base
	ConnectionID int32
}

func (r *ConnectionIDRecord) Type() RecordType { return ConnectionID }

func (r *ConnectionIDRecord) Size() int32 { return 4 }

func (r *ConnectionIDRecord) LoadData(in *Input) (err error) {
	r.ConnectionID, err = in.ReadInt32()
	return err
}

func (r *ConnectionIDRecord) WriteData(enc *Encoder) error {
	enc.PutInt32(r.ConnectionID)
	return enc.Err()
}

func (r *ConnectionIDRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// ContentPropertyRecord names the content property of the current element.
type ContentPropertyRecord struct {
	Base
	AttributeID int16
}

func (r *ContentPropertyRecord) Type() RecordType { return ContentProperty }

func (r *ContentPropertyRecord) Size() int32 { return 2 }

func (r *ContentPropertyRecord) LoadData(in *Input) (err error) {
	r.AttributeID, err = in.ReadInt16()
	return err
}

func (r *ContentPropertyRecord) WriteData(enc *Encoder) error {
	enc.PutInt16(r.AttributeID)
	return enc.Err()
}

func (r *ContentPropertyRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// StaticResourceIDRecord refers to a static resource by its index in the
// enclosing deferred section.
type StaticResourceIDRecord struct {
	Base
	StaticResourceID int16
}

func (r *StaticResourceIDRecord) Type() RecordType { return StaticResourceID }

func (r *StaticResourceIDRecord) Size() int32 { return 2 }

func (r *StaticResourceIDRecord) LoadData(in *Input) (err error) {
	r.StaticResourceID, err = in.ReadInt16()
	return err
}

func (r *StaticResourceIDRecord) WriteData(enc *Encoder) error {
	enc.PutInt16(r.StaticResourceID)
	return enc.Err()
}

func (r *StaticResourceIDRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// LineNumberAndPositionRecord carries debug line information.
type LineNumberAndPositionRecord struct {
	Base
	LineNumber   int32
	LinePosition int32
}

func (r *LineNumberAndPositionRecord) Type() RecordType { return LineNumberAndPosition }

func (r *LineNumberAndPositionRecord) Size() int32 { return 8 }

func (r *LineNumberAndPositionRecord) LoadData(in *Input) error {
	var err error
	if r.LineNumber, err = in.ReadInt32(); err != nil {
		return err
	}
	r.LinePosition, err = in.ReadInt32()
	return err
}

func (r *LineNumberAndPositionRecord) WriteData(enc *Encoder) error {
	enc.PutInt32(r.LineNumber)
	enc.PutInt32(r.LinePosition)
	return enc.Err()
}

func (r *LineNumberAndPositionRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// LinePositionRecord carries a debug column on the current line.
type LinePositionRecord struct {
	Base
	LinePosition int32
}

func (r *LinePositionRecord) Type() RecordType { return LinePosition }

func (r *LinePositionRecord) Size() int32 { return 4 }

func (r *LinePositionRecord) LoadData(in *Input) (err error) {
	r.LinePosition, err = in.ReadInt32()
	return err
}

func (r *LinePositionRecord) WriteData(enc *Encoder) error {
	enc.PutInt32(r.LinePosition)
	return enc.Err()
}

func (r *LinePositionRecord) CopyInto(dst Record) { copyRecord(r, dst) }
