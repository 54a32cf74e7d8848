package baml

import "fmt"

// StaticResourceExtensionTypeID is the well-known element index of the
// static resource extension, implied by OptimizedStaticResource records.
const StaticResourceExtensionTypeID int16 = 603

// OptimizedExtension is a single argument markup extension compacted into
// ids. When neither flag is set ValueID refers to the string table.
type OptimizedExtension struct {
	ExtensionTypeID        int16
	ValueID                int16
	IsValueTypeExtension   bool
	IsValueStaticExtension bool
}

// OptimizedMarkupExtension is implemented by the records carrying an
// OptimizedExtension.
type OptimizedMarkupExtension interface {
	Record
	Extension() OptimizedExtension
}

// Extension returns the extension fields.
func (x *OptimizedExtension) Extension() OptimizedExtension { return *x }

// PropertyWithExtensionRecord sets an attribute to an optimized markup
// extension. The extension id and both flags share one 16 bit word.
type PropertyWithExtensionRecord struct {
	Base
	OptimizedExtension
	AttributeID int16
}

func (r *PropertyWithExtensionRecord) Type() RecordType { return PropertyWithExtension }

func (r *PropertyWithExtensionRecord) Size() int32 { return 6 }

func (r *PropertyWithExtensionRecord) LoadData(in *Input) error {
	var err error
	if r.AttributeID, err = in.ReadInt16(); err != nil {
		return err
	}
	word, err := in.ReadInt16()
	if err != nil {
		return err
	}
	w := uint32(uint16(word))
	r.ExtensionTypeID = int16(extensionIDSection.Get(w))
	r.IsValueTypeExtension = valueTypeSection.Flag(w)
	r.IsValueStaticExtension = valueStaticSection.Flag(w)
	r.ValueID, err = in.ReadInt16()
	return err
}

func (r *PropertyWithExtensionRecord) validate() error {
	if r.ExtensionTypeID < 0 || !extensionIDSection.Fits(uint32(r.ExtensionTypeID)) {
		return fmt.Errorf("%w: extension type id %d does not fit %d bits",
			ErrIDOverflow, r.ExtensionTypeID, extensionIDSection.Width)
	}
	return nil
}

func (r *PropertyWithExtensionRecord) WriteData(enc *Encoder) error {
	if err := r.validate(); err != nil {
		return err
	}
	var w uint32
	w = extensionIDSection.Set(w, uint32(r.ExtensionTypeID))
	w = valueTypeSection.SetFlag(w, r.IsValueTypeExtension)
	w = valueStaticSection.SetFlag(w, r.IsValueStaticExtension)
	enc.PutInt16(r.AttributeID)
	enc.PutInt16(int16(uint16(w)))
	enc.PutInt16(r.ValueID)
	return enc.Err()
}

func (r *PropertyWithExtensionRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// OptimizedStaticResourceRecord is a static resource reference inside a
// deferred section. The extension type is always the static resource
// extension; only the flags and the value id are written.
type OptimizedStaticResourceRecord struct {
	Base
	OptimizedExtension
}

func newOptimizedStaticResourceRecord() *OptimizedStaticResourceRecord {
	return &OptimizedStaticResourceRecord{
		OptimizedExtension: OptimizedExtension{ExtensionTypeID: StaticResourceExtensionTypeID},
	}
}

func (r *OptimizedStaticResourceRecord) Type() RecordType { return OptimizedStaticResource }

func (r *OptimizedStaticResourceRecord) Size() int32 { return 3 }

func (r *OptimizedStaticResourceRecord) LoadData(in *Input) error {
	flags, err := in.ReadUint8()
	if err != nil {
		return err
	}
	r.ExtensionTypeID = StaticResourceExtensionTypeID
	r.IsValueTypeExtension = staticResTypeSection.Flag(uint32(flags))
	r.IsValueStaticExtension = staticResStaticSection.Flag(uint32(flags))
	r.ValueID, err = in.ReadInt16()
	return err
}

func (r *OptimizedStaticResourceRecord) WriteData(enc *Encoder) error {
	var flags uint32
	flags = staticResTypeSection.SetFlag(flags, r.IsValueTypeExtension)
	flags = staticResStaticSection.SetFlag(flags, r.IsValueStaticExtension)
	enc.PutUint8(uint8(flags))
	enc.PutInt16(r.ValueID)
	return enc.Err()
}

func (r *OptimizedStaticResourceRecord) CopyInto(dst Record) { copyRecord(r, dst) }
