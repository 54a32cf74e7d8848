package baml

import "fmt"

// Info records populate the id tables consulted by later records. They are
// pinned at construction: their identity outlives the next read of the
// same type.

// AttributeUsage classifies how an attribute is used by the parser.
type AttributeUsage byte

const (
	AttributeUsageDefault AttributeUsage = iota
	AttributeUsageXmlLang
	AttributeUsageXmlSpace
	AttributeUsageRuntimeName
)

// TypeInfoFlags are stored in the high 4 bits of the type info assembly
// word.
type TypeInfoFlags byte

const (
	TypeInfoInternal    TypeInfoFlags = 0x1
	TypeInfoUnusedTwo   TypeInfoFlags = 0x2
	TypeInfoUnusedThree TypeInfoFlags = 0x4
)

// checkAssemblyID rejects ids that would spill into the type info flags.
func checkAssemblyID(id int16) error {
	if id < 0 || !assemblyIDSection.Fits(uint32(id)) {
		return fmt.Errorf("%w: assembly id %d does not fit %d bits", ErrIDOverflow, id, assemblyIDSection.Width)
	}
	return nil
}

// AssemblyInfoRecord maps an assembly id to its full name.
type AssemblyInfoRecord struct {
	VariableBase
	AssemblyID       int16
	AssemblyFullName string

	// Assembly is the resolved runtime handle. It is never written.
	Assembly any
}

func newAssemblyInfoRecord() *AssemblyInfoRecord {
	r := &AssemblyInfoRecord{}
	r.Pin()
	return r
}

func (r *AssemblyInfoRecord) Type() RecordType { return AssemblyInfo }

func (r *AssemblyInfoRecord) LoadData(in *Input) error {
	var err error
	if r.AssemblyID, err = in.ReadInt16(); err != nil {
		return err
	}
	r.AssemblyFullName, err = in.ReadString()
	return err
}

func (r *AssemblyInfoRecord) validate() error { return checkAssemblyID(r.AssemblyID) }

func (r *AssemblyInfoRecord) WriteData(enc *Encoder) error {
	if err := r.validate(); err != nil {
		return err
	}
	enc.PutInt16(r.AssemblyID)
	enc.PutString(r.AssemblyFullName)
	return enc.Err()
}

func (r *AssemblyInfoRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// TypeInfoRecord maps a type id to its full name and owning assembly.
type TypeInfoRecord struct {
	VariableBase
	TypeID       int16
	AssemblyID   int16
	Flags        TypeInfoFlags
	TypeFullName string

	// RuntimeType is the resolved runtime handle. It is never written.
	RuntimeType any
}

func newTypeInfoRecord() *TypeInfoRecord {
	r := &TypeInfoRecord{}
	r.Pin()
	return r
}

func (r *TypeInfoRecord) Type() RecordType { return TypeInfo }

func (r *TypeInfoRecord) LoadData(in *Input) error {
	var err error
	if r.TypeID, err = in.ReadInt16(); err != nil {
		return err
	}
	word, err := in.ReadInt16()
	if err != nil {
		return err
	}
	r.AssemblyID = int16(assemblyIDSection.Get(uint32(uint16(word))))
	r.Flags = TypeInfoFlags(typeInfoFlagsSection.Get(uint32(uint16(word))))
	r.TypeFullName, err = in.ReadString()
	return err
}

func (r *TypeInfoRecord) validate() error {
	if err := checkAssemblyID(r.AssemblyID); err != nil {
		return err
	}
	if !typeInfoFlagsSection.Fits(uint32(r.Flags)) {
		return fmt.Errorf("%w: type info flags %#x", ErrIDOverflow, r.Flags)
	}
	return nil
}

func (r *TypeInfoRecord) writeInfo(enc *Encoder) error {
	if err := r.validate(); err != nil {
		return err
	}
	var word uint32
	word = assemblyIDSection.Set(word, uint32(r.AssemblyID))
	word = typeInfoFlagsSection.Set(word, uint32(r.Flags))
	enc.PutInt16(r.TypeID)
	enc.PutInt16(int16(uint16(word)))
	enc.PutString(r.TypeFullName)
	return nil
}

func (r *TypeInfoRecord) WriteData(enc *Encoder) error {
	if err := r.writeInfo(enc); err != nil {
		return err
	}
	return enc.Err()
}

func (r *TypeInfoRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// TypeSerializerInfoRecord is a type info that also names the custom
// serializer type used for values of the type.
type TypeSerializerInfoRecord struct {
	TypeInfoRecord
	SerializerTypeID int16
}

func newTypeSerializerInfoRecord() *TypeSerializerInfoRecord {
	r := &TypeSerializerInfoRecord{}
	r.Pin()
	return r
}

func (r *TypeSerializerInfoRecord) Type() RecordType { return TypeSerializerInfo }

func (r *TypeSerializerInfoRecord) LoadData(in *Input) error {
	if err := r.TypeInfoRecord.LoadData(in); err != nil {
		return err
	}
	var err error
	r.SerializerTypeID, err = in.ReadInt16()
	return err
}

func (r *TypeSerializerInfoRecord) WriteData(enc *Encoder) error {
	if err := r.writeInfo(enc); err != nil {
		return err
	}
	enc.PutInt16(r.SerializerTypeID)
	return enc.Err()
}

func (r *TypeSerializerInfoRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// AttributeInfoRecord maps an attribute id to a member name on an owner
// type.
type AttributeInfoRecord struct {
	VariableBase
	AttributeID    int16
	OwnerTypeID    int16
	AttributeUsage AttributeUsage
	Name           string

	// Member is the resolved runtime property or event. It is never written.
	Member any
}

func newAttributeInfoRecord() *AttributeInfoRecord {
	r := &AttributeInfoRecord{}
	r.Pin()
	return r
}

func (r *AttributeInfoRecord) Type() RecordType { return AttributeInfo }

func (r *AttributeInfoRecord) LoadData(in *Input) error {
	var err error
	if r.AttributeID, err = in.ReadInt16(); err != nil {
		return err
	}
	if r.OwnerTypeID, err = in.ReadInt16(); err != nil {
		return err
	}
	usage, err := in.ReadUint8()
	if err != nil {
		return err
	}
	r.AttributeUsage = AttributeUsage(usage)
	r.Name, err = in.ReadString()
	return err
}

func (r *AttributeInfoRecord) WriteData(enc *Encoder) error {
	enc.PutInt16(r.AttributeID)
	enc.PutInt16(r.OwnerTypeID)
	enc.PutUint8(byte(r.AttributeUsage))
	enc.PutString(r.Name)
	return enc.Err()
}

func (r *AttributeInfoRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// StringInfoRecord adds an entry to the string table.
type StringInfoRecord struct {
	VariableBase
	StringID int16
	Value    string
}

func newStringInfoRecord() *StringInfoRecord {
	r := &StringInfoRecord{}
	r.Pin()
	return r
}

func (r *StringInfoRecord) Type() RecordType { return StringInfo }

func (r *StringInfoRecord) LoadData(in *Input) error {
	var err error
	if r.StringID, err = in.ReadInt16(); err != nil {
		return err
	}
	r.Value, err = in.ReadString()
	return err
}

func (r *StringInfoRecord) WriteData(enc *Encoder) error {
	enc.PutInt16(r.StringID)
	enc.PutString(r.Value)
	return enc.Err()
}

func (r *StringInfoRecord) CopyInto(dst Record) { copyRecord(r, dst) }
