package baml

// Summary is a flat, serializable view of a record used for dumps and
// exports. Fields holds the wire fields by name; runtime handles are left
// out.
type Summary struct {
	Type   string         `cbor:"type" json:"type"`
	Size   int32          `cbor:"size" json:"size"`
	Fields map[string]any `cbor:"fields,omitempty" json:"fields,omitempty"`
}

// Describe returns the summary of rec.
func Describe(rec Record) Summary {
	s := Summary{
		Type: rec.Type().String(),
		Size: rec.Size(),
	}

	f := map[string]any{}
	switch r := rec.(type) {
	case *DocumentStartRecord:
		f["load_async"] = r.LoadAsync
		f["max_async_records"] = r.MaxAsyncRecords
		f["debug_baml"] = r.DebugBaml
	case *MarkerRecord:
	case *NamedElementStartRecord:
		describeElement(f, &r.elementHeader)
		f["runtime_name"] = r.RuntimeName
		f["template_as_root"] = r.IsTemplateAsRoot
	case *ElementStartRecord:
		describeElement(f, &r.elementHeader)
	case *ComplexStartRecord:
		f["attribute_id"] = r.AttributeID
	case *ConstructorParameterTypeRecord:
		f["type_id"] = r.TypeID
	case *ConnectionIDRecord:
		f["connection_id"] = r.ConnectionID
	case *ContentPropertyRecord:
		f["attribute_id"] = r.AttributeID
	case *StaticResourceIDRecord:
		f["static_resource_id"] = r.StaticResourceID
	case *LineNumberAndPositionRecord:
		f["line_number"] = r.LineNumber
		f["line_position"] = r.LinePosition
	case *LinePositionRecord:
		f["line_position"] = r.LinePosition

	case *PropertyRecord:
		f["attribute_id"] = r.AttributeID
		f["value"] = r.Value
	case *PropertyWithConverterRecord:
		f["attribute_id"] = r.AttributeID
		f["value"] = r.Value
		f["converter_type_id"] = r.ConverterTypeID
	case *PropertyCustomWriteInfoRecord:
		describeCustom(f, &r.PropertyCustomRecord)
		f["value_id"] = r.ValueID
		f["value_member_name"] = r.ValueMemberName
		f["value_type_name"] = r.ValueTypeName
	case *PropertyCustomRecord:
		describeCustom(f, r)
	case *PropertyStringReferenceRecord:
		f["attribute_id"] = r.AttributeID
		f["string_id"] = r.StringID
	case *PropertyTypeReferenceRecord:
		f["attribute_id"] = r.AttributeID
		f["type_id"] = r.TypeID
	case *PropertyWithStaticResourceIDRecord:
		f["attribute_id"] = r.AttributeID
		f["static_resource_id"] = r.StaticResourceID
	case *RoutedEventRecord:
		f["attribute_id"] = r.AttributeID
		f["value"] = r.Value
	case *PropertyWithExtensionRecord:
		f["attribute_id"] = r.AttributeID
		describeExtension(f, &r.OptimizedExtension)
	case *OptimizedStaticResourceRecord:
		describeExtension(f, &r.OptimizedExtension)

	case *TextRecord:
		f["value"] = r.Value
	case *TextWithConverterRecord:
		f["value"] = r.Value
		f["converter_type_id"] = r.ConverterTypeID
	case *TextWithIDRecord:
		f["value_id"] = r.ValueID
	case *LiteralContentRecord:
		f["value"] = r.Value
		f["line_number"] = r.LineNumber
		f["line_position"] = r.LinePosition
	case *XmlnsPropertyRecord:
		f["prefix"] = r.Prefix
		f["xml_namespace"] = r.XmlNamespace
		f["assembly_ids"] = append([]int16(nil), r.AssemblyIDs...)
	case *PIMappingRecord:
		f["xml_namespace"] = r.XmlNamespace
		f["clr_namespace"] = r.ClrNamespace
		f["assembly_id"] = r.AssemblyID
	case *DefAttributeRecord:
		f["value"] = r.Value
		f["name_id"] = r.NameID
	case *PresentationOptionsAttributeRecord:
		f["value"] = r.Value
		f["name_id"] = r.NameID

	case *AssemblyInfoRecord:
		f["assembly_id"] = r.AssemblyID
		f["assembly_full_name"] = r.AssemblyFullName
	case *TypeSerializerInfoRecord:
		describeTypeInfo(f, &r.TypeInfoRecord)
		f["serializer_type_id"] = r.SerializerTypeID
	case *TypeInfoRecord:
		describeTypeInfo(f, r)
	case *AttributeInfoRecord:
		f["attribute_id"] = r.AttributeID
		f["owner_type_id"] = r.OwnerTypeID
		f["attribute_usage"] = uint8(r.AttributeUsage)
		f["name"] = r.Name
	case *StringInfoRecord:
		f["string_id"] = r.StringID
		f["value"] = r.Value

	case *DefAttributeKeyStringRecord:
		f["value_id"] = r.ValueID
		describeKey(f, &r.KeyFields)
	case *KeyTypeRecord:
		describeElement(f, &r.elementHeader)
		describeKey(f, &r.KeyFields)
	case *DeferableContentStartRecord:
		f["content_size"] = r.ContentSize
	}

	if len(f) > 0 {
		s.Fields = f
	}
	return s
}

func describeElement(f map[string]any, h *elementHeader) {
	f["type_id"] = h.TypeID
	f["create_using_type_converter"] = h.CreateUsingTypeConverter
	f["is_injected"] = h.IsInjected
}

func describeCustom(f map[string]any, r *PropertyCustomRecord) {
	f["attribute_id"] = r.AttributeID
	f["serializer_type_id"] = r.SerializerTypeID
	f["is_value_type_id"] = r.IsValueTypeID
	f["value"] = append([]byte(nil), r.Value...)
}

func describeExtension(f map[string]any, x *OptimizedExtension) {
	f["extension_type_id"] = x.ExtensionTypeID
	f["value_id"] = x.ValueID
	f["is_value_type_extension"] = x.IsValueTypeExtension
	f["is_value_static_extension"] = x.IsValueStaticExtension
}

func describeTypeInfo(f map[string]any, r *TypeInfoRecord) {
	f["type_id"] = r.TypeID
	f["assembly_id"] = r.AssemblyID
	f["flags"] = uint8(r.Flags)
	f["type_full_name"] = r.TypeFullName
}

func describeKey(f map[string]any, k *KeyFields) {
	f["value_position"] = k.ValuePosition
	f["shared"] = k.Shared
	f["shared_set"] = k.SharedSet
}
