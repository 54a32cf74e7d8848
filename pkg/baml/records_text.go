package baml

import "fmt"

// TextRecord is element text content.
type TextRecord struct {
	VariableBase
	Value string
}

func (r *TextRecord) Type() RecordType { return Text }

func (r *TextRecord) LoadData(in *Input) (err error) {
	r.Value, err = in.ReadString()
	return err
}

func (r *TextRecord) WriteData(enc *Encoder) error {
	enc.PutString(r.Value)
	return enc.Err()
}

func (r *TextRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// TextWithConverterRecord is text converted by a specific converter type.
type TextWithConverterRecord struct {
	VariableBase
	Value           string
	ConverterTypeID int16
}

func (r *TextWithConverterRecord) Type() RecordType { return TextWithConverter }

func (r *TextWithConverterRecord) LoadData(in *Input) error {
	var err error
	if r.Value, err = in.ReadString(); err != nil {
		return err
	}
	r.ConverterTypeID, err = in.ReadInt16()
	return err
}

func (r *TextWithConverterRecord) WriteData(enc *Encoder) error {
	enc.PutString(r.Value)
	enc.PutInt16(r.ConverterTypeID)
	return enc.Err()
}

func (r *TextWithConverterRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// TextWithIDRecord is text stored in the string table. Only ValueID is
// written; Value is filled by a consumer resolving the id.
type TextWithIDRecord struct {
	VariableBase
	ValueID int16
	Value   string
}

func (r *TextWithIDRecord) Type() RecordType { return TextWithID }

func (r *TextWithIDRecord) LoadData(in *Input) (err error) {
	r.ValueID, err = in.ReadInt16()
	return err
}

func (r *TextWithIDRecord) WriteData(enc *Encoder) error {
	enc.PutInt16(r.ValueID)
	return enc.Err()
}

func (r *TextWithIDRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// LiteralContentRecord is markup kept verbatim, followed by two reserved
// line fields.
type LiteralContentRecord struct {
	VariableBase
	Value        string
	LineNumber   int32
	LinePosition int32
}

func (r *LiteralContentRecord) Type() RecordType { return LiteralContent }

func (r *LiteralContentRecord) LoadData(in *Input) error {
	var err error
	if r.Value, err = in.ReadString(); err != nil {
		return err
	}
	if r.LineNumber, err = in.ReadInt32(); err != nil {
		return err
	}
	r.LinePosition, err = in.ReadInt32()
	return err
}

func (r *LiteralContentRecord) WriteData(enc *Encoder) error {
	enc.PutString(r.Value)
	enc.PutInt32(r.LineNumber)
	enc.PutInt32(r.LinePosition)
	return enc.Err()
}

func (r *LiteralContentRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// XmlnsPropertyRecord declares a namespace prefix and the assemblies the
// namespace maps to.
type XmlnsPropertyRecord struct {
	VariableBase
	Prefix       string
	XmlNamespace string
	AssemblyIDs  []int16
}

func (r *XmlnsPropertyRecord) Type() RecordType { return XmlnsProperty }

func (r *XmlnsPropertyRecord) LoadData(in *Input) error {
	var err error
	if r.Prefix, err = in.ReadString(); err != nil {
		return err
	}
	if r.XmlNamespace, err = in.ReadString(); err != nil {
		return err
	}
	count, err := in.ReadInt16()
	if err != nil {
		return err
	}
	if count < 0 {
		return fmt.Errorf("%w: negative assembly count %d", ErrSizeMismatch, count)
	}
	r.AssemblyIDs = r.AssemblyIDs[:0]
	for i := int16(0); i < count; i++ {
		id, err := in.ReadInt16()
		if err != nil {
			return err
		}
		r.AssemblyIDs = append(r.AssemblyIDs, id)
	}
	return nil
}

func (r *XmlnsPropertyRecord) validate() error {
	if len(r.AssemblyIDs) > 0x7FFF {
		return fmt.Errorf("%w: %d assembly ids", ErrIDOverflow, len(r.AssemblyIDs))
	}
	return nil
}

func (r *XmlnsPropertyRecord) WriteData(enc *Encoder) error {
	if err := r.validate(); err != nil {
		return err
	}
	enc.PutString(r.Prefix)
	enc.PutString(r.XmlNamespace)
	enc.PutInt16(int16(len(r.AssemblyIDs)))
	for _, id := range r.AssemblyIDs {
		enc.PutInt16(id)
	}
	return enc.Err()
}

func (r *XmlnsPropertyRecord) CopyInto(dst Record) {
	copyRecord(r, dst)
	d := dst.(*XmlnsPropertyRecord)
	d.AssemblyIDs = append([]int16(nil), r.AssemblyIDs...)
}

// PIMappingRecord maps an xml namespace to a code namespace in an assembly.
type PIMappingRecord struct {
	VariableBase
	XmlNamespace string
	ClrNamespace string
	AssemblyID   int16
}

func (r *PIMappingRecord) Type() RecordType { return PIMapping }

func (r *PIMappingRecord) LoadData(in *Input) error {
	var err error
	if r.XmlNamespace, err = in.ReadString(); err != nil {
		return err
	}
	if r.ClrNamespace, err = in.ReadString(); err != nil {
		return err
	}
	r.AssemblyID, err = in.ReadInt16()
	return err
}

func (r *PIMappingRecord) WriteData(enc *Encoder) error {
	enc.PutString(r.XmlNamespace)
	enc.PutString(r.ClrNamespace)
	enc.PutInt16(r.AssemblyID)
	return enc.Err()
}

func (r *PIMappingRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// DefAttributeRecord is a directive attribute (x:Name, x:Uid, ...). Only
// NameID is written; Name is filled by a consumer.
type DefAttributeRecord struct {
	VariableBase
	Value  string
	NameID int16
	Name   string
}

func (r *DefAttributeRecord) Type() RecordType { return DefAttribute }

func (r *DefAttributeRecord) LoadData(in *Input) error {
	var err error
	if r.Value, err = in.ReadString(); err != nil {
		return err
	}
	r.NameID, err = in.ReadInt16()
	return err
}

func (r *DefAttributeRecord) WriteData(enc *Encoder) error {
	enc.PutString(r.Value)
	enc.PutInt16(r.NameID)
	return enc.Err()
}

func (r *DefAttributeRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// PresentationOptionsAttributeRecord is an attribute of the presentation
// options namespace, shaped like DefAttributeRecord.
type PresentationOptionsAttributeRecord struct {
	VariableBase
	Value  string
	NameID int16
	Name   string
}

func (r *PresentationOptionsAttributeRecord) Type() RecordType { return PresentationOptionsAttribute }

func (r *PresentationOptionsAttributeRecord) LoadData(in *Input) error {
	var err error
	if r.Value, err = in.ReadString(); err != nil {
		return err
	}
	r.NameID, err = in.ReadInt16()
	return err
}

func (r *PresentationOptionsAttributeRecord) WriteData(enc *Encoder) error {
	enc.PutString(r.Value)
	enc.PutInt16(r.NameID)
	return enc.Err()
}

func (r *PresentationOptionsAttributeRecord) CopyInto(dst Record) { copyRecord(r, dst) }
