package baml

import "fmt"

// PropertyRecord sets an attribute to a string value.
type PropertyRecord struct {
	VariableBase
	AttributeID int16
	Value       string
}

func (r *PropertyRecord) Type() RecordType { return Property }

func (r *PropertyRecord) LoadData(in *Input) error {
	var err error
	if r.AttributeID, err = in.ReadInt16(); err != nil {
		return err
	}
	r.Value, err = in.ReadString()
	return err
}

func (r *PropertyRecord) WriteData(enc *Encoder) error {
	enc.PutInt16(r.AttributeID)
	enc.PutString(r.Value)
	return enc.Err()
}

func (r *PropertyRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// PropertyWithConverterRecord is a property whose string value is turned
// into an object by the given converter type.
type PropertyWithConverterRecord struct {
	VariableBase
	AttributeID     int16
	Value           string
	ConverterTypeID int16
}

func (r *PropertyWithConverterRecord) Type() RecordType { return PropertyWithConverter }

func (r *PropertyWithConverterRecord) LoadData(in *Input) error {
	var err error
	if r.AttributeID, err = in.ReadInt16(); err != nil {
		return err
	}
	if r.Value, err = in.ReadString(); err != nil {
		return err
	}
	r.ConverterTypeID, err = in.ReadInt16()
	return err
}

func (r *PropertyWithConverterRecord) WriteData(enc *Encoder) error {
	enc.PutInt16(r.AttributeID)
	enc.PutString(r.Value)
	enc.PutInt16(r.ConverterTypeID)
	return enc.Err()
}

func (r *PropertyWithConverterRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// customValueTypeSection is the bit of the serializer word telling that
// the custom value is a type id rather than serializer output.
var customValueTypeSection = Section{Offset: 14, Width: 1}

// PropertyCustomRecord holds a property value produced by a custom binary
// serializer. Value is the serializer output, opaque to this package.
type PropertyCustomRecord struct {
	VariableBase
	AttributeID      int16
	SerializerTypeID int16
	IsValueTypeID    bool
	Value            []byte
}

func (r *PropertyCustomRecord) Type() RecordType { return PropertyCustom }

func (r *PropertyCustomRecord) LoadData(in *Input) error {
	var err error
	if r.AttributeID, err = in.ReadInt16(); err != nil {
		return err
	}
	word, err := in.ReadInt16()
	if err != nil {
		return err
	}
	r.IsValueTypeID, r.SerializerTypeID = unpackSerializerWord(uint16(word))

	n := r.PayloadLen() - 4
	if n < 0 {
		return fmt.Errorf("%w: custom property payload of %d bytes", ErrSizeMismatch, r.PayloadLen())
	}
	b, err := in.ReadBytes(int(n))
	if err != nil {
		return err
	}
	r.Value = append(r.Value[:0], b...)
	return nil
}

func (r *PropertyCustomRecord) validate() error {
	_, err := packSerializerWord(r.SerializerTypeID, r.IsValueTypeID)
	return err
}

func (r *PropertyCustomRecord) writeHeader(enc *Encoder) error {
	word, err := packSerializerWord(r.SerializerTypeID, r.IsValueTypeID)
	if err != nil {
		return err
	}
	enc.PutInt16(r.AttributeID)
	enc.PutInt16(int16(word))
	return nil
}

func (r *PropertyCustomRecord) WriteData(enc *Encoder) error {
	if err := r.writeHeader(enc); err != nil {
		return err
	}
	enc.PutBytes(r.Value)
	return enc.Err()
}

func (r *PropertyCustomRecord) CopyInto(dst Record) {
	copyRecord(r, dst)
	d := dst.(*PropertyCustomRecord)
	d.Value = append([]byte(nil), r.Value...)
}

// ValueType decodes Value when IsValueTypeID is set: a type id followed by
// an optional member name.
func (r *PropertyCustomRecord) ValueType() (int16, string, error) {
	if !r.IsValueTypeID {
		return 0, "", fmt.Errorf("custom property value is not a type id")
	}
	in := NewInput(r.Value)
	id, err := in.ReadInt16()
	if err != nil {
		return 0, "", err
	}
	member, err := in.ReadString()
	if err != nil {
		return 0, "", err
	}
	return id, member, nil
}

// packSerializerWord folds the value-is-type flag into bit 14. Ids must
// keep bit 14 equal to the sign bit so that they can be restored on read.
func packSerializerWord(id int16, isValueTypeID bool) (uint16, error) {
	if id < -0x4000 || id > 0x3FFF {
		return 0, fmt.Errorf("%w: serializer type id %d", ErrIDOverflow, id)
	}
	return uint16(customValueTypeSection.SetFlag(uint32(uint16(id)), isValueTypeID)), nil
}

func unpackSerializerWord(word uint16) (bool, int16) {
	isType := customValueTypeSection.Flag(uint32(word))
	// Restore bit 14 from the sign bit.
	signed := uint32(word)&0x8000 != 0
	return isType, int16(customValueTypeSection.SetFlag(uint32(word), signed))
}

// PropertyCustomWriteInfoRecord is the write side of a custom property: it
// carries the value before serialization. When IsValueTypeID is set the
// value is written as ValueID and ValueMemberName, otherwise Value is
// written as is. On the wire it is a plain PropertyCustom record.
type PropertyCustomWriteInfoRecord struct {
	PropertyCustomRecord
	ValueID         int16
	ValueMemberName string
	ValueTypeName   string
}

// NewPropertyCustomWriteInfoRecord returns an empty write info record.
func NewPropertyCustomWriteInfoRecord() *PropertyCustomWriteInfoRecord {
	return &PropertyCustomWriteInfoRecord{}
}

func (r *PropertyCustomWriteInfoRecord) WriteData(enc *Encoder) error {
	if err := r.writeHeader(enc); err != nil {
		return err
	}
	if r.IsValueTypeID {
		enc.PutInt16(r.ValueID)
		enc.PutString(r.ValueMemberName)
		return enc.Err()
	}
	enc.PutBytes(r.Value)
	return enc.Err()
}

func (r *PropertyCustomWriteInfoRecord) CopyInto(dst Record) {
	copyRecord(r, dst)
	d := dst.(*PropertyCustomWriteInfoRecord)
	d.Value = append([]byte(nil), r.Value...)
}

func (r *PropertyCustomWriteInfoRecord) derivedVariant() {}

// PropertyStringReferenceRecord sets an attribute to an entry of the
// string table.
type PropertyStringReferenceRecord struct {
	Base
	AttributeID int16
	StringID    int16
}

func (r *PropertyStringReferenceRecord) Type() RecordType { return PropertyStringReference }

func (r *PropertyStringReferenceRecord) Size() int32 { return 4 }

func (r *PropertyStringReferenceRecord) LoadData(in *Input) error {
	var err error
	if r.AttributeID, err = in.ReadInt16(); err != nil {
		return err
	}
	r.StringID, err = in.ReadInt16()
	return err
}

func (r *PropertyStringReferenceRecord) WriteData(enc *Encoder) error {
	enc.PutInt16(r.AttributeID)
	enc.PutInt16(r.StringID)
	return enc.Err()
}

func (r *PropertyStringReferenceRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// PropertyTypeReferenceRecord sets an attribute to a type.
type PropertyTypeReferenceRecord struct {
	Base
	AttributeID int16
	TypeID      int16
}

func (r *PropertyTypeReferenceRecord) Type() RecordType { return PropertyTypeReference }

func (r *PropertyTypeReferenceRecord) Size() int32 { return 4 }

func (r *PropertyTypeReferenceRecord) LoadData(in *Input) error {
	var err error
	if r.AttributeID, err = in.ReadInt16(); err != nil {
		return err
	}
	r.TypeID, err = in.ReadInt16()
	return err
}

func (r *PropertyTypeReferenceRecord) WriteData(enc *Encoder) error {
	enc.PutInt16(r.AttributeID)
	enc.PutInt16(r.TypeID)
	return enc.Err()
}

func (r *PropertyTypeReferenceRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// PropertyWithStaticResourceIDRecord sets an attribute to a static resource
// of the enclosing deferred section.
type PropertyWithStaticResourceIDRecord struct {
	Base
	AttributeID      int16
	StaticResourceID int16
}

func (r *PropertyWithStaticResourceIDRecord) Type() RecordType { return PropertyWithStaticResourceID }

func (r *PropertyWithStaticResourceIDRecord) Size() int32 { return 4 }

func (r *PropertyWithStaticResourceIDRecord) LoadData(in *Input) error {
	var err error
	if r.AttributeID, err = in.ReadInt16(); err != nil {
		return err
	}
	r.StaticResourceID, err = in.ReadInt16()
	return err
}

func (r *PropertyWithStaticResourceIDRecord) WriteData(enc *Encoder) error {
	enc.PutInt16(r.AttributeID)
	enc.PutInt16(r.StaticResourceID)
	return enc.Err()
}

func (r *PropertyWithStaticResourceIDRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// RoutedEventRecord attaches a handler name to a routed event.
type RoutedEventRecord struct {
	VariableBase
	AttributeID int16
	Value       string
}

func (r *RoutedEventRecord) Type() RecordType { return RoutedEvent }

func (r *RoutedEventRecord) LoadData(in *Input) error {
	var err error
	if r.AttributeID, err = in.ReadInt16(); err != nil {
		return err
	}
	r.Value, err = in.ReadString()
	return err
}

func (r *RoutedEventRecord) WriteData(enc *Encoder) error {
	enc.PutInt16(r.AttributeID)
	enc.PutString(r.Value)
	return enc.Err()
}

func (r *RoutedEventRecord) CopyInto(dst Record) { copyRecord(r, dst) }
