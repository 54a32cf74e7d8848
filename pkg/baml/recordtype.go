package baml

import "fmt"

// RecordType is the 1-byte tag identifying a record kind on the wire.
// Values are wire-stable: new kinds are appended before LastRecordType and
// existing values are never renumbered.
type RecordType byte

const (
	Unknown RecordType = iota
	DocumentStart
	DocumentEnd
	ElementStart
	ElementEnd
	Property
	PropertyCustom
	PropertyComplexStart
	PropertyComplexEnd
	PropertyArrayStart
	PropertyArrayEnd
	PropertyIListStart
	PropertyIListEnd
	PropertyIDictionaryStart
	PropertyIDictionaryEnd
	LiteralContent
	Text
	TextWithConverter
	RoutedEvent
	ClrEvent
	XmlnsProperty
	XmlAttribute
	ProcessingInstruction
	Comment
	DefTag
	DefAttribute
	EndAttributes
	PIMapping
	AssemblyInfo
	TypeInfo
	TypeSerializerInfo
	AttributeInfo
	StringInfo
	PropertyStringReference
	PropertyTypeReference
	PropertyWithExtension
	PropertyWithConverter
	DeferableContentStart
	DefAttributeKeyString
	DefAttributeKeyType
	KeyElementStart
	KeyElementEnd
	ConstructorParametersStart
	ConstructorParametersEnd
	ConstructorParameterType
	ConnectionID
	ContentProperty
	NamedElementStart
	StaticResourceStart
	StaticResourceEnd
	StaticResourceID
	TextWithID
	PresentationOptionsAttribute
	LineNumberAndPosition
	LinePosition
	OptimizedStaticResource
	PropertyWithStaticResourceID

	// LastRecordType sizes lookup tables. It is never written.
	LastRecordType
)

var recordTypeNames = [LastRecordType]string{
	Unknown:                      "Unknown",
	DocumentStart:                "DocumentStart",
	DocumentEnd:                  "DocumentEnd",
	ElementStart:                 "ElementStart",
	ElementEnd:                   "ElementEnd",
	Property:                     "Property",
	PropertyCustom:               "PropertyCustom",
	PropertyComplexStart:         "PropertyComplexStart",
	PropertyComplexEnd:           "PropertyComplexEnd",
	PropertyArrayStart:           "PropertyArrayStart",
	PropertyArrayEnd:             "PropertyArrayEnd",
	PropertyIListStart:           "PropertyIListStart",
	PropertyIListEnd:             "PropertyIListEnd",
	PropertyIDictionaryStart:     "PropertyIDictionaryStart",
	PropertyIDictionaryEnd:       "PropertyIDictionaryEnd",
	LiteralContent:               "LiteralContent",
	Text:                         "Text",
	TextWithConverter:            "TextWithConverter",
	RoutedEvent:                  "RoutedEvent",
	ClrEvent:                     "ClrEvent",
	XmlnsProperty:                "XmlnsProperty",
	XmlAttribute:                 "XmlAttribute",
	ProcessingInstruction:        "ProcessingInstruction",
	Comment:                      "Comment",
	DefTag:                       "DefTag",
	DefAttribute:                 "DefAttribute",
	EndAttributes:                "EndAttributes",
	PIMapping:                    "PIMapping",
	AssemblyInfo:                 "AssemblyInfo",
	TypeInfo:                     "TypeInfo",
	TypeSerializerInfo:           "TypeSerializerInfo",
	AttributeInfo:                "AttributeInfo",
	StringInfo:                   "StringInfo",
	PropertyStringReference:      "PropertyStringReference",
	PropertyTypeReference:        "PropertyTypeReference",
	PropertyWithExtension:        "PropertyWithExtension",
	PropertyWithConverter:        "PropertyWithConverter",
	DeferableContentStart:        "DeferableContentStart",
	DefAttributeKeyString:        "DefAttributeKeyString",
	DefAttributeKeyType:          "DefAttributeKeyType",
	KeyElementStart:              "KeyElementStart",
	KeyElementEnd:                "KeyElementEnd",
	ConstructorParametersStart:   "ConstructorParametersStart",
	ConstructorParametersEnd:     "ConstructorParametersEnd",
	ConstructorParameterType:     "ConstructorParameterType",
	ConnectionID:                 "ConnectionId",
	ContentProperty:              "ContentProperty",
	NamedElementStart:            "NamedElementStart",
	StaticResourceStart:          "StaticResourceStart",
	StaticResourceEnd:            "StaticResourceEnd",
	StaticResourceID:             "StaticResourceId",
	TextWithID:                   "TextWithId",
	PresentationOptionsAttribute: "PresentationOptionsAttribute",
	LineNumberAndPosition:        "LineNumberAndPosition",
	LinePosition:                 "LinePosition",
	OptimizedStaticResource:      "OptimizedStaticResource",
	PropertyWithStaticResourceID: "PropertyWithStaticResourceId",
}

// String returns the name of the record type.
func (t RecordType) String() string {
	if t < LastRecordType {
		return recordTypeNames[t]
	}
	return fmt.Sprintf("RecordType(%d)", byte(t))
}

// Valid reports whether t lies inside the taxonomy, excluding the Unknown
// sentinel and the end marker.
func (t RecordType) Valid() bool {
	return t > Unknown && t < LastRecordType
}

// Reserved reports whether t is a tag of the taxonomy that has no record
// kind behind it. Reading a reserved tag is a malformed stream.
func (t RecordType) Reserved() bool {
	switch t {
	case Unknown, ClrEvent, XmlAttribute, ProcessingInstruction, Comment,
		DefTag, EndAttributes, NamedElementStart:
		return true
	}
	return false
}

// endFor maps every record type that opens a scope to the type closing it.
var endFor = map[RecordType]RecordType{
	DocumentStart:              DocumentEnd,
	ElementStart:               ElementEnd,
	PropertyComplexStart:       PropertyComplexEnd,
	PropertyArrayStart:         PropertyArrayEnd,
	PropertyIListStart:         PropertyIListEnd,
	PropertyIDictionaryStart:   PropertyIDictionaryEnd,
	KeyElementStart:            KeyElementEnd,
	ConstructorParametersStart: ConstructorParametersEnd,
	StaticResourceStart:        StaticResourceEnd,
}
