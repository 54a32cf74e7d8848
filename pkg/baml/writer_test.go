package baml

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emit acquires a record of type rt from w, fills it and emits it.
func emit[T Record](t *testing.T, w *Writer, rt RecordType, fill func(r T)) {
	t.Helper()
	rec, err := w.Acquire(rt)
	require.NoError(t, err)
	fill(rec.(T))
	require.NoError(t, w.Emit(rec))
}

func noop[T Record](T) {}

// sampleStream writes a small well formed document.
func sampleStream(t *testing.T, cfg ...Config) []byte {
	t.Helper()
	buf := NewBuffer()
	w, err := NewWriter(buf, cfg...)
	require.NoError(t, err)

	_, err = w.StartDocument()
	require.NoError(t, err)
	emit(t, w, AssemblyInfo, func(r *AssemblyInfoRecord) {
		r.AssemblyID = 1
		r.AssemblyFullName = "Demo"
	})
	emit(t, w, TypeInfo, func(r *TypeInfoRecord) {
		r.TypeID = 5
		r.AssemblyID = 1
		r.TypeFullName = "Demo.Widget"
	})
	emit(t, w, StringInfo, func(r *StringInfoRecord) {
		r.StringID = 8
		r.Value = "Brush"
	})
	emit(t, w, ElementStart, func(r *ElementStartRecord) { r.TypeID = 5 })
	emit(t, w, Property, func(r *PropertyRecord) {
		r.AttributeID = -1
		r.Value = "x"
	})
	emit(t, w, Text, func(r *TextRecord) { r.Value = "a" })
	emit(t, w, Text, func(r *TextRecord) { r.Value = "b" })
	emit(t, w, ElementEnd, noop[*MarkerRecord])
	require.NoError(t, w.EndDocument())
	assert.Equal(t, 10, w.Count())
	return buf.Bytes()
}

func types(recs []Record) []RecordType {
	out := make([]RecordType, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Type())
	}
	return out
}

func TestNewWriter(t *testing.T) {
	_, err := NewWriter(nil)
	assert.ErrorIs(t, err, ErrNoSink)

	_, err = NewWriter(NewBuffer(), WithLoadAsync(0))
	assert.Error(t, err)

	w, err := NewWriter(NewBuffer())
	assert.NoError(t, err)
	assert.NotNil(t, w.Manager())

	_, err = w.Acquire(Comment)
	assert.ErrorIs(t, err, ErrUnknownRecordType)
}

func TestWriterDocument(t *testing.T) {
	var (
		assert = assert.New(t)
		data   = sampleStream(t, WithStrict(), WithLoadAsync(50), WithDebugBaml())
	)

	recs, err := ReadAll(data, WithStrict())
	assert.NoError(err)
	assert.Equal([]RecordType{DocumentStart, AssemblyInfo, TypeInfo, StringInfo, ElementStart,
		Property, Text, Text, ElementEnd, DocumentEnd}, types(recs))

	doc := recs[0].(*DocumentStartRecord)
	assert.True(doc.LoadAsync)
	assert.Equal(int32(50), doc.MaxAsyncRecords)
	assert.True(doc.DebugBaml)

	assert.Equal("a", recs[6].(*TextRecord).Value)
	assert.Equal("b", recs[7].(*TextRecord).Value)
	assert.NoError(Validate(recs))
}

func TestWriterSetLoadAsync(t *testing.T) {
	var (
		assert = assert.New(t)
		buf    = NewBuffer()
	)
	w, err := NewWriter(buf)
	require.NoError(t, err)

	assert.ErrorIs(w.SetLoadAsync(true, 1), ErrNotWritten)

	doc, err := w.StartDocument()
	require.NoError(t, err)
	assert.False(doc.LoadAsync)
	assert.Equal(int32(-1), doc.MaxAsyncRecords)
	assert.True(doc.IsPinned())

	emit(t, w, Text, func(r *TextRecord) { r.Value = "body" })
	before, err := w.Pos()
	require.NoError(t, err)

	assert.NoError(w.SetLoadAsync(true, 200))
	after, err := w.Pos()
	require.NoError(t, err)
	assert.Equal(before, after)
	assert.NoError(w.EndDocument())

	recs, err := ReadAll(buf.Bytes(), WithStrict())
	assert.NoError(err)
	got := recs[0].(*DocumentStartRecord)
	assert.True(got.LoadAsync)
	assert.Equal(int32(200), got.MaxAsyncRecords)
	assert.Equal(DocumentEnd, recs[len(recs)-1].Type())
}

func TestWriterStrict(t *testing.T) {
	w, err := NewWriter(NewBuffer(), WithStrict())
	require.NoError(t, err)

	rec, err := w.Acquire(ElementEnd)
	require.NoError(t, err)
	assert.ErrorIs(t, w.Emit(rec), ErrStreamContract)

	// The failed record was still released.
	_, err = w.Acquire(ElementEnd)
	assert.NoError(t, err)

	_, err = w.StartDocument()
	assert.NoError(t, err)
	emit(t, w, ElementStart, noop[*ElementStartRecord])
	assert.ErrorIs(t, w.EndDocument(), ErrStreamContract)
}

func TestDeferredSection(t *testing.T) {
	var (
		assert = assert.New(t)
		buf    = NewBuffer()
	)
	w, err := NewWriter(buf, WithStrict())
	require.NoError(t, err)
	_, err = w.StartDocument()
	require.NoError(t, err)

	sec, err := w.BeginDeferredSection()
	require.NoError(t, err)

	k1rec, err := w.Acquire(DefAttributeKeyString)
	require.NoError(t, err)
	k1 := k1rec.(*DefAttributeKeyStringRecord)
	k1.ValueID = 1
	k1.ValuePosition = 99

	k2rec, err := w.Acquire(DefAttributeKeyType)
	require.NoError(t, err)
	k2 := k2rec.(*KeyTypeRecord)
	k2.TypeID = -120
	k2.Shared = true

	assert.NoError(sec.AddKey(k1))
	assert.NoError(sec.AddKey(k2))
	assert.Len(sec.Keys(), 2)

	assert.ErrorIs(sec.BeginValue(k1), ErrSectionState)
	assert.NoError(sec.BeginValues())
	assert.ErrorIs(sec.AddKey(k1), ErrSectionState)
	assert.ErrorIs(sec.BeginValues(), ErrSectionState)

	assert.NoError(sec.BeginValue(k1))
	emit(t, w, Text, func(r *TextRecord) { r.Value = "a" })
	assert.NoError(sec.BeginValue(k2))
	emit(t, w, Text, func(r *TextRecord) { r.Value = "bb" })

	end, err := w.Pos()
	require.NoError(t, err)
	assert.NoError(sec.Close())
	pos, err := w.Pos()
	require.NoError(t, err)
	assert.Equal(end, pos, "patching moved the sink")
	assert.ErrorIs(sec.Close(), ErrSectionState)

	assert.Equal(int32(0), k1.ValuePosition)
	assert.Equal(int32(4), k2.ValuePosition)
	assert.NoError(w.EndDocument())

	data := buf.Bytes()
	recs, err := ReadAll(data, WithStrict())
	require.NoError(t, err)
	assert.Equal([]RecordType{DocumentStart, DeferableContentStart, DefAttributeKeyString,
		DefAttributeKeyType, Text, Text, DocumentEnd}, types(recs))

	// Keys are 10 bytes each, the values 4 and 5 bytes.
	assert.Equal(int32(29), recs[1].(*DeferableContentStartRecord).ContentSize)
	assert.Equal(int32(0), recs[2].(*DefAttributeKeyStringRecord).ValuePosition)
	assert.Equal(int32(4), recs[3].(*KeyTypeRecord).ValuePosition)
	assert.True(recs[3].(*KeyTypeRecord).Shared)

	// Value positions land on the value records.
	valuesStart := 7 + 5 + 10 + 10
	assert.Equal(byte(Text), data[valuesStart])
	assert.Equal(byte(Text), data[valuesStart+4])
	assert.Equal(valuesStart+9, 7+5+29)
}

func TestDeferredSectionNested(t *testing.T) {
	var (
		assert = assert.New(t)
		buf    = NewBuffer()
	)
	w, err := NewWriter(buf)
	require.NoError(t, err)

	outer, err := w.BeginDeferredSection()
	require.NoError(t, err)
	inner, err := w.BeginDeferredSection()
	require.NoError(t, err)
	emit(t, w, Text, func(r *TextRecord) { r.Value = "x" })
	assert.NoError(inner.Close())
	assert.NoError(outer.Close())

	rd, err := NewReader(WithKeepRecords())
	require.NoError(t, err)
	rd.Feed(buf.Bytes())
	rd.Close()
	for {
		_, err := rd.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	first := rd.Records().(*DeferableContentStartRecord)
	second := first.Next().(*DeferableContentStartRecord)
	assert.Equal(int32(5+4), first.ContentSize)
	assert.Equal(int32(4), second.ContentSize)
}
