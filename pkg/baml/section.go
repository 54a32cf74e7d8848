package baml

import "fmt"

// Section is a bit range inside a flag word. Sections of one lineage are
// chained with NextSection so that each claims the bits right after the
// previous one and no two of them overlap.
type Section struct {
	Offset uint8
	Width  uint8
}

// NewSection returns the first section of a lineage, starting at bit 0.
func NewSection(width uint8) Section {
	return Section{Offset: 0, Width: width}
}

// NextSection returns a section of the given width placed right after prev.
func NextSection(prev Section, width uint8) Section {
	return Section{Offset: prev.Offset + prev.Width, Width: width}
}

// End is the first bit past the section.
func (s Section) End() uint8 {
	return s.Offset + s.Width
}

// Max is the largest value the section can hold.
func (s Section) Max() uint32 {
	return 1<<s.Width - 1
}

// Mask returns the bits of the section in place.
func (s Section) Mask() uint32 {
	return s.Max() << s.Offset
}

// Get extracts the section value from word.
func (s Section) Get(word uint32) uint32 {
	return (word & s.Mask()) >> s.Offset
}

// Set returns word with the section replaced by v. Bits of v beyond the
// section width are dropped; callers check Fits first where that matters.
func (s Section) Set(word, v uint32) uint32 {
	return word&^s.Mask() | (v<<s.Offset)&s.Mask()
}

// Fits reports whether v can be stored without truncation.
func (s Section) Fits(v uint32) bool {
	return v <= s.Max()
}

// Flag reads a one bit section as a bool.
func (s Section) Flag(word uint32) bool {
	return s.Get(word) != 0
}

// SetFlag stores a bool into a one bit section.
func (s Section) SetFlag(word uint32, on bool) uint32 {
	if on {
		return s.Set(word, 1)
	}
	return s.Set(word, 0)
}

// checkSections verifies that the sections fit inside a word of the given
// bit width and do not overlap each other.
func checkSections(bits uint8, sections ...Section) error {
	var used uint64
	for i, s := range sections {
		if s.Width == 0 {
			return fmt.Errorf("section %d has zero width", i)
		}
		if s.End() > bits {
			return fmt.Errorf("section %d [%d,%d) exceeds %d bit word", i, s.Offset, s.End(), bits)
		}
		m := uint64(s.Mask())
		if used&m != 0 {
			return fmt.Errorf("section %d [%d,%d) overlaps an earlier section", i, s.Offset, s.End())
		}
		used |= m
	}
	return nil
}

func mustSections(lineage string, bits uint8, sections ...Section) {
	if err := checkSections(bits, sections...); err != nil {
		panic(fmt.Sprintf("baml: bad flag layout for %s: %v", lineage, err))
	}
}

// Flag layouts. The pin count is the only in-memory section; the others are
// observable on the wire.
var (
	// Record flags byte.
	pinSection = NewSection(2)

	// Element start flags byte.
	createUsingConverterSection = NewSection(1)
	isInjectedSection           = NextSection(createUsingConverterSection, 1)

	// Optimized markup extension word: 12 bit id, one reserved bit, then the
	// static and type flags (0x2000, 0x4000).
	extensionIDSection       = NewSection(12)
	extensionReservedSection = NextSection(extensionIDSection, 1)
	valueStaticSection       = NextSection(extensionReservedSection, 1)
	valueTypeSection         = NextSection(valueStaticSection, 1)

	// Optimized static resource flags byte.
	staticResTypeSection   = NewSection(1)
	staticResStaticSection = NextSection(staticResTypeSection, 1)

	// Type info assembly word: 12 bit assembly id and 4 bits of TypeInfoFlags.
	assemblyIDSection    = NewSection(12)
	typeInfoFlagsSection = NextSection(assemblyIDSection, 4)
)

func init() {
	mustSections("record", 8, pinSection)
	mustSections("element start", 8, createUsingConverterSection, isInjectedSection)
	mustSections("optimized extension", 16, extensionIDSection, extensionReservedSection,
		valueStaticSection, valueTypeSection)
	mustSections("optimized static resource", 8, staticResTypeSection, staticResStaticSection)
	mustSections("type info", 16, assemblyIDSection, typeInfoFlagsSection)
}
