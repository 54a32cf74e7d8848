package baml

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// build allocates a record of type t and fills it in.
func build[T Record](t RecordType, fill func(r T)) Record {
	r := Allocate(t).(T)
	fill(r)
	return r
}

// encode writes rec into a fresh buffer.
func encode(t *testing.T, rec Record) []byte {
	t.Helper()
	buf := NewBuffer()
	require.NoError(t, Write(buf, rec))
	return buf.Bytes()
}

// decodeOne reads back a single record from data.
func decodeOne(t *testing.T, data []byte) Record {
	t.Helper()
	recs, err := ReadAll(data)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	return recs[0]
}

func allKinds() []Record {
	return []Record{
		build(DocumentStart, func(r *DocumentStartRecord) {
			r.LoadAsync = true
			r.MaxAsyncRecords = math.MaxInt32
			r.DebugBaml = true
		}),
		Allocate(DocumentEnd),
		build(ElementStart, func(r *ElementStartRecord) {
			r.TypeID = math.MinInt16
			r.IsInjected = true
		}),
		build(StaticResourceStart, func(r *ElementStartRecord) {
			r.TypeID = math.MaxInt16
			r.CreateUsingTypeConverter = true
		}),
		Allocate(ElementEnd),
		Allocate(StaticResourceEnd),
		build(Property, func(r *PropertyRecord) {
			r.AttributeID = -1
			r.Value = "Hello, wörld"
		}),
		build(PropertyWithConverter, func(r *PropertyWithConverterRecord) {
			r.AttributeID = 42
			r.Value = "#FF00FF"
			r.ConverterTypeID = math.MinInt16
		}),
		build(PropertyCustom, func(r *PropertyCustomRecord) {
			r.AttributeID = 7
			r.SerializerTypeID = -0x4000
			r.IsValueTypeID = false
			r.Value = []byte{0x00, 0xFF, 0x10}
		}),
		build(PropertyCustom, func(r *PropertyCustomRecord) {
			r.AttributeID = 8
			r.SerializerTypeID = 0x3FFF
			r.IsValueTypeID = true
			r.Value = []byte{0x01, 0x00, 0x00}
		}),
		build(PropertyComplexStart, func(r *ComplexStartRecord) { r.AttributeID = 1 }),
		Allocate(PropertyComplexEnd),
		build(PropertyArrayStart, func(r *ComplexStartRecord) { r.AttributeID = 2 }),
		Allocate(PropertyArrayEnd),
		build(PropertyIListStart, func(r *ComplexStartRecord) { r.AttributeID = 3 }),
		Allocate(PropertyIListEnd),
		build(PropertyIDictionaryStart, func(r *ComplexStartRecord) { r.AttributeID = -4 }),
		Allocate(PropertyIDictionaryEnd),
		build(LiteralContent, func(r *LiteralContentRecord) {
			r.Value = "<x:XData/>"
			r.LineNumber = 10
			r.LinePosition = math.MaxInt32
		}),
		build(Text, func(r *TextRecord) { r.Value = "" }),
		build(TextWithConverter, func(r *TextWithConverterRecord) {
			r.Value = "12,3"
			r.ConverterTypeID = 99
		}),
		build(TextWithID, func(r *TextWithIDRecord) { r.ValueID = 5 }),
		build(RoutedEvent, func(r *RoutedEventRecord) {
			r.AttributeID = 11
			r.Value = "OnClick"
		}),
		build(XmlnsProperty, func(r *XmlnsPropertyRecord) {
			r.Prefix = "x"
			r.XmlNamespace = "http://schemas.example.com/winfx/2006/xaml"
			r.AssemblyIDs = []int16{0, 1, math.MaxInt16}
		}),
		build(PIMapping, func(r *PIMappingRecord) {
			r.XmlNamespace = "clr-namespace:Demo"
			r.ClrNamespace = "Demo"
			r.AssemblyID = 3
		}),
		build(DefAttribute, func(r *DefAttributeRecord) {
			r.Value = "root"
			r.NameID = -2
		}),
		build(PresentationOptionsAttribute, func(r *PresentationOptionsAttributeRecord) {
			r.Value = "True"
			r.NameID = 6
		}),
		build(AssemblyInfo, func(r *AssemblyInfoRecord) {
			r.AssemblyID = 0x0FFF
			r.AssemblyFullName = "Demo, Version=1.0.0.0, Culture=neutral"
		}),
		build(TypeInfo, func(r *TypeInfoRecord) {
			r.TypeID = 12
			r.AssemblyID = 0x0FFF
			r.Flags = TypeInfoInternal | TypeInfoUnusedThree
			r.TypeFullName = "Demo.Widget"
		}),
		build(TypeSerializerInfo, func(r *TypeSerializerInfoRecord) {
			r.TypeID = 13
			r.AssemblyID = 0
			r.TypeFullName = "Demo.Brush"
			r.SerializerTypeID = -744
		}),
		build(AttributeInfo, func(r *AttributeInfoRecord) {
			r.AttributeID = 14
			r.OwnerTypeID = -1
			r.AttributeUsage = AttributeUsageRuntimeName
			r.Name = "Name"
		}),
		build(StringInfo, func(r *StringInfoRecord) {
			r.StringID = 15
			r.Value = "Brush1"
		}),
		build(PropertyStringReference, func(r *PropertyStringReferenceRecord) {
			r.AttributeID = 1
			r.StringID = 15
		}),
		build(PropertyTypeReference, func(r *PropertyTypeReferenceRecord) {
			r.AttributeID = 2
			r.TypeID = -3
		}),
		build(PropertyWithExtension, func(r *PropertyWithExtensionRecord) {
			r.AttributeID = 3
			r.ExtensionTypeID = 0x0FFF
			r.ValueID = -9
			r.IsValueTypeExtension = true
			r.IsValueStaticExtension = true
		}),
		build(PropertyWithExtension, func(r *PropertyWithExtensionRecord) {
			r.AttributeID = 4
			r.ExtensionTypeID = StaticResourceExtensionTypeID
			r.ValueID = 15
		}),
		build(DeferableContentStart, func(r *DeferableContentStartRecord) { r.ContentSize = 1234 }),
		build(DefAttributeKeyString, func(r *DefAttributeKeyStringRecord) {
			r.ValueID = 15
			r.ValuePosition = 77
			r.Shared = true
			r.SharedSet = true
		}),
		build(DefAttributeKeyType, func(r *KeyTypeRecord) {
			r.TypeID = -20
			r.ValuePosition = math.MaxInt32
			r.SharedSet = true
		}),
		build(KeyElementStart, func(r *KeyTypeRecord) {
			r.TypeID = 12
			r.CreateUsingTypeConverter = true
			r.Shared = true
		}),
		Allocate(KeyElementEnd),
		Allocate(ConstructorParametersStart),
		Allocate(ConstructorParametersEnd),
		build(ConstructorParameterType, func(r *ConstructorParameterTypeRecord) { r.TypeID = -100 }),
		build(ConnectionID, func(r *ConnectionIDRecord) { r.ConnectionID = math.MinInt32 }),
		build(ContentProperty, func(r *ContentPropertyRecord) { r.AttributeID = 30 }),
		build(StaticResourceID, func(r *StaticResourceIDRecord) { r.StaticResourceID = 2 }),
		build(LineNumberAndPosition, func(r *LineNumberAndPositionRecord) {
			r.LineNumber = 1
			r.LinePosition = 2
		}),
		build(LinePosition, func(r *LinePositionRecord) { r.LinePosition = 80 }),
		build(OptimizedStaticResource, func(r *OptimizedStaticResourceRecord) {
			r.ValueID = 44
			r.IsValueStaticExtension = true
		}),
		build(PropertyWithStaticResourceID, func(r *PropertyWithStaticResourceIDRecord) {
			r.AttributeID = 5
			r.StaticResourceID = 1
		}),
	}
}

func TestRoundTrip(t *testing.T) {
	for _, want := range allKinds() {
		want := want
		t.Run(want.Type().String(), func(t *testing.T) {
			data := encode(t, want)
			assert.Equal(t, byte(want.Type()), data[0])

			got := decodeOne(t, data)
			assert.Equal(t, want.Type(), got.Type())
			assert.Equal(t, Describe(want), Describe(got))

			// Writing the decoded record again gives the same bytes.
			assert.Equal(t, data, encode(t, got))
		})
	}
}

func TestEveryKindHasARecord(t *testing.T) {
	seen := map[RecordType]bool{}
	for _, rec := range allKinds() {
		seen[rec.Type()] = true
	}
	for rt := Unknown + 1; rt < LastRecordType; rt++ {
		if rt.Reserved() {
			assert.Nil(t, Allocate(rt), rt.String())
			continue
		}
		assert.True(t, seen[rt], "no round trip case for %s", rt)
	}
}

func TestElementStartWire(t *testing.T) {
	var (
		assert = assert.New(t)
		data   = []byte{0x03, 0x2C, 0x01, 0x01}
	)

	rec := decodeOne(t, data)
	el, ok := rec.(*ElementStartRecord)
	assert.True(ok)
	assert.Equal(ElementStart, el.Type())
	assert.Equal(int16(300), el.TypeID)
	assert.True(el.CreateUsingTypeConverter)
	assert.False(el.IsInjected)
	assert.Equal(int32(3), el.Size())

	assert.Equal(data, encode(t, el))
}

func TestTextWire(t *testing.T) {
	rec := build(Text, func(r *TextRecord) { r.Value = "hi" })
	data := encode(t, rec)
	assert.Equal(t, []byte{byte(Text), 0x04, 0x02, 'h', 'i'}, data)
	assert.Equal(t, int32(4), rec.Size())
	assert.Equal(t, int32(3), rec.(*TextRecord).PayloadLen())
}

func TestComputeEncodedSize(t *testing.T) {
	cases := []struct {
		raw, size, width int32
	}{
		{0, 1, 1},
		{126, 127, 1},
		{127, 129, 2},
		{128, 130, 2},
		{16381, 16383, 2},
		{16382, 16385, 3},
		{16383, 16386, 3},
		{16384, 16387, 3},
	}
	for _, c := range cases {
		size, width := computeEncodedSize(c.raw)
		assert.Equal(t, c.size, size, "raw %d", c.raw)
		assert.Equal(t, c.width, width, "raw %d", c.raw)
		// The prefix must be exactly as wide as the value it encodes.
		assert.Equal(t, width, sizeOf7BitInt(size), "raw %d", c.raw)
	}
}

func TestSizePrefixBoundaries(t *testing.T) {
	// Text payload is the 7-bit string length plus the bytes, so these
	// lengths put the raw payload on either side of the 1, 2 and 3 byte
	// prefix boundaries.
	for _, n := range []int{0, 124, 125, 126, 127, 128, 16378, 16379, 16380, 16381, 16382, 16384, 70000} {
		rec := build(Text, func(r *TextRecord) { r.Value = strings.Repeat("a", n) })
		data := encode(t, rec)

		in := NewInput(data[1:])
		size, width, err := in.Read7BitInt()
		require.NoError(t, err)
		assert.Equal(t, rec.Size(), size, "len %d", n)
		assert.Equal(t, int(sizeOf7BitInt(size)), width, "len %d", n)
		assert.Equal(t, 1+int(size), len(data), "len %d", n)

		got := decodeOne(t, data)
		assert.Equal(t, n, len(got.(*TextRecord).Value))
	}
}

func TestNamedElementStart(t *testing.T) {
	assert := assert.New(t)

	named := NewNamedElementStartRecord()
	named.TypeID = 77
	named.RuntimeName = "root"
	named.IsTemplateAsRoot = true
	assert.Equal(ElementStart, named.Type())

	// Only the element start header reaches the wire.
	data := encode(t, named)
	assert.Equal([]byte{byte(ElementStart), 77, 0, 0}, data)

	got := decodeOne(t, data)
	_, ok := got.(*ElementStartRecord)
	assert.True(ok)
}

func TestPropertyCustomWriteInfo(t *testing.T) {
	assert := assert.New(t)

	info := NewPropertyCustomWriteInfoRecord()
	info.AttributeID = 9
	info.SerializerTypeID = -5
	info.IsValueTypeID = true
	info.ValueID = 12
	info.ValueMemberName = "Red"
	info.ValueTypeName = "Demo.Colors"
	assert.Equal(PropertyCustom, info.Type())

	data := encode(t, info)
	assert.Equal(int32(11), info.Size())

	got := decodeOne(t, data).(*PropertyCustomRecord)
	assert.Equal(int16(9), got.AttributeID)
	assert.Equal(int16(-5), got.SerializerTypeID)
	assert.True(got.IsValueTypeID)

	id, member, err := got.ValueType()
	assert.NoError(err)
	assert.Equal(int16(12), id)
	assert.Equal("Red", member)

	t.Run("Serializer_Output", func(t *testing.T) {
		info.IsValueTypeID = false
		info.Value = []byte("opaque")
		got := decodeOne(t, encode(t, info)).(*PropertyCustomRecord)
		assert.False(got.IsValueTypeID)
		assert.Equal([]byte("opaque"), got.Value)
		_, _, err := got.ValueType()
		assert.Error(err)
	})
}

func TestOptimizedStaticResourceExtensionID(t *testing.T) {
	rec := Allocate(OptimizedStaticResource).(*OptimizedStaticResourceRecord)
	assert.Equal(t, StaticResourceExtensionTypeID, rec.ExtensionTypeID)

	var ext OptimizedMarkupExtension = rec
	assert.Equal(t, StaticResourceExtensionTypeID, ext.Extension().ExtensionTypeID)

	got := decodeOne(t, []byte{byte(OptimizedStaticResource), 0x01, 0x05, 0x00}).(*OptimizedStaticResourceRecord)
	assert.Equal(t, StaticResourceExtensionTypeID, got.ExtensionTypeID)
	assert.True(t, got.IsValueTypeExtension)
	assert.False(t, got.IsValueStaticExtension)
	assert.Equal(t, int16(5), got.ValueID)
}

func TestExtensionWordLayout(t *testing.T) {
	rec := build(PropertyWithExtension, func(r *PropertyWithExtensionRecord) {
		r.AttributeID = 1
		r.ExtensionTypeID = 0x0123
		r.IsValueStaticExtension = true
		r.IsValueTypeExtension = true
		r.ValueID = 2
	})
	data := encode(t, rec)
	// 0x0123 | 0x2000 | 0x4000
	assert.Equal(t, []byte{byte(PropertyWithExtension), 0x01, 0x00, 0x23, 0x61, 0x02, 0x00}, data)
}

func TestIDOverflow(t *testing.T) {
	cases := []Record{
		build(PropertyWithExtension, func(r *PropertyWithExtensionRecord) { r.ExtensionTypeID = 0x1000 }),
		build(PropertyWithExtension, func(r *PropertyWithExtensionRecord) { r.ExtensionTypeID = -1 }),
		build(AssemblyInfo, func(r *AssemblyInfoRecord) { r.AssemblyID = 0x1000 }),
		build(TypeInfo, func(r *TypeInfoRecord) { r.AssemblyID = -1 }),
		build(TypeInfo, func(r *TypeInfoRecord) { r.Flags = 0x10 }),
		build(TypeSerializerInfo, func(r *TypeSerializerInfoRecord) { r.AssemblyID = 0x2000 }),
		build(PropertyCustom, func(r *PropertyCustomRecord) { r.SerializerTypeID = 0x4000 }),
		build(PropertyCustom, func(r *PropertyCustomRecord) { r.SerializerTypeID = -0x4001 }),
	}
	for _, rec := range cases {
		buf := NewBuffer()
		err := Write(buf, rec)
		assert.ErrorIs(t, err, ErrIDOverflow, rec.Type().String())
		assert.Zero(t, buf.Len(), rec.Type().String())
	}

	t.Run("Stream_Stays_Decodable", func(t *testing.T) {
		buf := NewBuffer()
		require.NoError(t, Write(buf, Allocate(DocumentStart)))
		bad := build(AssemblyInfo, func(r *AssemblyInfoRecord) { r.AssemblyID = 0x1000 })
		require.ErrorIs(t, Write(buf, bad), ErrIDOverflow)
		require.NoError(t, Write(buf, Allocate(DocumentEnd)))

		recs, err := ReadAll(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, []RecordType{DocumentStart, DocumentEnd}, types(recs))
	})
}

func TestWriteNilSink(t *testing.T) {
	assert.NoError(t, Write(nil, Allocate(DocumentStart)))
}

func TestPinCount(t *testing.T) {
	assert := assert.New(t)

	rec := Allocate(Text)
	assert.False(rec.IsPinned())

	for i := 0; i < 5; i++ {
		rec.Pin()
	}
	assert.Equal(3, rec.PinCount())

	for i := 0; i < 5; i++ {
		rec.Unpin()
	}
	assert.Equal(0, rec.PinCount())
	assert.False(rec.IsPinned())

	// Info and key records are pinned from the start.
	for _, rt := range []RecordType{AssemblyInfo, TypeInfo, TypeSerializerInfo, AttributeInfo,
		StringInfo, DefAttributeKeyString, DefAttributeKeyType, KeyElementStart} {
		assert.True(Allocate(rt).IsPinned(), rt.String())
	}
}

func TestCopyInto(t *testing.T) {
	for _, src := range allKinds() {
		dst := Allocate(src.Type())
		src.CopyInto(dst)
		assert.Equal(t, Describe(src), Describe(dst), src.Type().String())
		assert.Equal(t, encode(t, src), encode(t, dst), src.Type().String())
	}
}

func TestCopyIntoKindMismatch(t *testing.T) {
	assert.Panics(t, func() {
		Allocate(Text).CopyInto(Allocate(Property))
	})
}

func TestDocumentStartUpdateInPlace(t *testing.T) {
	var (
		assert = assert.New(t)
		buf    = NewBuffer()
		doc    = Allocate(DocumentStart).(*DocumentStartRecord)
	)

	assert.ErrorIs(doc.UpdateInPlace(buf), ErrNotWritten)

	assert.NoError(Write(buf, doc))
	assert.Equal(int64(0), doc.FilePos())
	assert.NoError(Write(buf, build(Text, func(r *TextRecord) { r.Value = "x" })))
	end := buf.Len()

	doc.LoadAsync = true
	doc.MaxAsyncRecords = 100
	assert.NoError(doc.UpdateInPlace(buf))

	pos, err := buf.Seek(0, 1)
	assert.NoError(err)
	assert.Equal(int64(end), pos)
	assert.Equal(end, buf.Len())

	recs, err := ReadAll(buf.Bytes())
	assert.NoError(err)
	got := recs[0].(*DocumentStartRecord)
	assert.True(got.LoadAsync)
	assert.Equal(int32(100), got.MaxAsyncRecords)
}

func TestPatchUnset(t *testing.T) {
	key := Allocate(DefAttributeKeyString).(*DefAttributeKeyStringRecord)
	assert.Equal(t, int64(-1), key.ValuePositionPosition())
	assert.ErrorIs(t, key.UpdateValuePosition(1, NewBuffer()), ErrValuePositionUnset)

	start := Allocate(DeferableContentStart).(*DeferableContentStartRecord)
	assert.Equal(t, int64(-1), start.ContentSizePosition())
	assert.ErrorIs(t, start.UpdateContentSize(1, NewBuffer()), ErrContentSizeUnset)
}

func TestPatchIsPositionNeutral(t *testing.T) {
	var (
		assert = assert.New(t)
		buf    = NewBuffer()
		key    = Allocate(DefAttributeKeyType).(*KeyTypeRecord)
	)

	assert.NoError(Write(buf, Allocate(DocumentStart)))
	assert.NoError(Write(buf, key))
	assert.Equal(int64(7+1+3), key.ValuePositionPosition())
	assert.NoError(Write(buf, build(Text, func(r *TextRecord) { r.Value = "value" })))

	before := append([]byte(nil), buf.Bytes()...)
	end, _ := buf.Seek(0, 1)

	assert.NoError(key.UpdateValuePosition(0x01020304, buf))
	pos, _ := buf.Seek(0, 1)
	assert.Equal(end, pos)
	assert.Equal(int32(0x01020304), key.ValuePosition)

	after := buf.Bytes()
	assert.Equal(len(before), len(after))
	p := key.ValuePositionPosition()
	assert.Equal([]byte{0x04, 0x03, 0x02, 0x01}, after[p:p+4])
	assert.True(bytes.Equal(before[:p], after[:p]))
	assert.True(bytes.Equal(before[p+4:], after[p+4:]))
}
