package baml

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTables(t *testing.T) {
	var (
		assert = assert.New(t)
		tb     = NewTables()
	)

	t.Run("Add", func(t *testing.T) {
		ok, err := tb.Add(Allocate(Text))
		assert.NoError(err)
		assert.False(ok)

		for _, rec := range []Record{
			build(AssemblyInfo, func(r *AssemblyInfoRecord) { r.AssemblyID = 1 }),
			build(TypeInfo, func(r *TypeInfoRecord) {
				r.TypeID = 2
				r.TypeFullName = "Demo.A"
			}),
			build(TypeSerializerInfo, func(r *TypeSerializerInfoRecord) {
				r.TypeID = 3
				r.TypeFullName = "Demo.B"
				r.SerializerTypeID = 9
			}),
			build(AttributeInfo, func(r *AttributeInfoRecord) {
				r.AttributeID = 4
				r.Name = "Width"
			}),
			build(StringInfo, func(r *StringInfoRecord) {
				r.StringID = 5
				r.Value = "five"
			}),
		} {
			ok, err := tb.Add(rec)
			assert.NoError(err)
			assert.True(ok)
		}
		assert.Equal(5, tb.Len())
	})

	t.Run("Duplicate", func(t *testing.T) {
		ok, err := tb.Add(build(TypeSerializerInfo, func(r *TypeSerializerInfoRecord) { r.TypeID = 2 }))
		assert.True(ok)
		assert.ErrorIs(err, ErrStreamContract)
		typ, err := tb.TypeInfo(2)
		assert.NoError(err)
		assert.Equal("Demo.A", typ.TypeFullName)
	})

	t.Run("Declared_Known_ID", func(t *testing.T) {
		ok, err := tb.Add(build(StringInfo, func(r *StringInfoRecord) {
			r.StringID = -7
			r.Value = "well-known"
		}))
		assert.True(ok)
		assert.ErrorIs(err, ErrKnownID)
		assert.Equal(5, tb.Len())

		_, err = tb.StringValue(-7)
		assert.ErrorIs(err, ErrKnownID)
	})

	t.Run("Lookup", func(t *testing.T) {
		typ, err := tb.TypeInfo(3)
		assert.NoError(err)
		assert.Equal("Demo.B", typ.TypeFullName)

		ser, ok := tb.Serializer(3)
		assert.True(ok)
		assert.Equal(int16(9), ser)
		_, ok = tb.Serializer(2)
		assert.False(ok)

		attr, err := tb.Attribute(4)
		assert.NoError(err)
		assert.Equal("Width", attr.Name)

		s, err := tb.StringValue(5)
		assert.NoError(err)
		assert.Equal("five", s)
	})

	t.Run("Known_IDs", func(t *testing.T) {
		assert.True(IsKnownID(-1))
		assert.False(IsKnownID(0))

		_, err := tb.Assembly(-1)
		assert.ErrorIs(err, ErrKnownID)
		_, err = tb.TypeInfo(-50)
		assert.ErrorIs(err, ErrKnownID)
		_, err = tb.StringValue(-2)
		assert.ErrorIs(err, ErrKnownID)
		_, err = tb.TypeInfo(100)
		assert.ErrorIs(err, ErrUnknownID)
		_, err = tb.Assembly(2)
		assert.ErrorIs(err, ErrUnknownID)
	})
}

func TestValidate(t *testing.T) {
	seq := func(ts ...RecordType) []Record {
		out := make([]Record, 0, len(ts))
		for _, rt := range ts {
			out = append(out, Allocate(rt))
		}
		return out
	}

	cases := []struct {
		name  string
		types []RecordType
		ok    bool
	}{
		{"Empty_Document", []RecordType{DocumentStart, DocumentEnd}, true},
		{"Nested", []RecordType{DocumentStart, ElementStart, PropertyComplexStart, ElementStart,
			ElementEnd, PropertyComplexEnd, Text, ElementEnd, DocumentEnd}, true},
		{"Key_Element", []RecordType{DocumentStart, DeferableContentStart, KeyElementStart,
			KeyElementEnd, DocumentEnd}, true},
		{"No_Start", []RecordType{ElementStart, ElementEnd}, false},
		{"Empty", nil, false},
		{"Mismatched_End", []RecordType{DocumentStart, ElementStart, PropertyArrayEnd, DocumentEnd}, false},
		{"After_End", []RecordType{DocumentStart, DocumentEnd, Text}, false},
		{"Second_Start", []RecordType{DocumentStart, DocumentStart}, false},
		{"Unclosed", []RecordType{DocumentStart, StaticResourceStart}, false},
		{"Early_Document_End", []RecordType{DocumentStart, ConstructorParametersStart, DocumentEnd}, false},
	}
	for _, c := range cases {
		err := Validate(seq(c.types...))
		if c.ok {
			assert.NoError(t, err, c.name)
		} else {
			assert.ErrorIs(t, err, ErrStreamContract, c.name)
		}
	}
}

func TestRecordTypeNames(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("ElementStart", ElementStart.String())
	assert.Equal(RecordType(3), ElementStart)
	assert.Equal(RecordType(56), PropertyWithStaticResourceID)
	assert.True(PropertyWithStaticResourceID.Valid())
	assert.False(LastRecordType.Valid())
	assert.False(Unknown.Valid())

	for rt := Unknown; rt < LastRecordType; rt++ {
		assert.NotEmpty(rt.String())
	}
}
