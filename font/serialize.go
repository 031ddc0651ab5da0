package font

import (
	"bytes"
	"encoding/binary"
	"fmt"

	gotext "github.com/go-text/typesetting/font"

	"github.com/minikin-go/minikin/internal/bitset"
	"github.com/minikin-go/minikin/locale"
)

// The wire layout below follows spec.md §6 "Persisted state layout" exactly:
// Font{style, locale-list id, sorted supported axes, opaque typeface
// metadata}; FontFamily{locale-list id, font count, fonts…, variant (u8),
// sorted supported axes, isColorEmoji (u8), isCustomFallback (u8), coverage
// bitset, cmap-fmt14 as (size, nonEmptyCount, (index, bitset)…)};
// FontCollection{maxChar (u32), family-index array (u32[]), Range[] (pairs
// of u16 packed as u32), familyVec (u8[]), sorted supported axes}.
//
// TypefaceMetadata is the opaque blob identifying which on-disk/in-memory
// typeface a Font's Face should be rebuilt from; this module does not parse
// font files itself, so the caller supplies both the writer and, on
// deserialization, a resolver turning the blob back into a gotext.Face.
type TypefaceMetadata []byte

func writeU8(buf *bytes.Buffer, v uint8) { buf.WriteByte(v) }

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func readU8(r *bytes.Reader) (uint8, error) { return r.ReadByte() }

func readU32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}
func readU16(r *bytes.Reader) (uint16, error) {
	var b [2]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

// WriteFont appends f's wire representation to buf. meta is the opaque
// typeface blob the caller associates with f's Face.
func WriteFont(buf *bytes.Buffer, f *Font, meta TypefaceMetadata) {
	writeU16(buf, uint16(f.style.Weight))
	writeU8(buf, uint8(f.style.Slant))
	writeU32(buf, uint32(f.localeListID))
	writeU16(buf, uint16(len(f.supportedAxes)))
	for _, a := range f.supportedAxes {
		writeU32(buf, uint32(a))
	}
	writeU32(buf, uint32(len(meta)))
	buf.Write(meta)
}

// ReadFont parses a Font previously written by WriteFont. resolveFace turns
// the embedded opaque typeface blob back into a shaper-native Face.
func ReadFont(r *bytes.Reader, resolveFace func(TypefaceMetadata) gotext.Face) (*Font, error) {
	weight, err := readU16(r)
	if err != nil {
		return nil, fmt.Errorf("font: read weight: %w", err)
	}
	slant, err := readU8(r)
	if err != nil {
		return nil, fmt.Errorf("font: read slant: %w", err)
	}
	localeID, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("font: read locale id: %w", err)
	}
	axisCount, err := readU16(r)
	if err != nil {
		return nil, fmt.Errorf("font: read axis count: %w", err)
	}
	axes := make([]AxisTag, axisCount)
	for i := range axes {
		v, err := readU32(r)
		if err != nil {
			return nil, fmt.Errorf("font: read axis %d: %w", i, err)
		}
		axes[i] = AxisTag(v)
	}
	metaLen, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("font: read meta length: %w", err)
	}
	meta := make(TypefaceMetadata, metaLen)
	if _, err := r.Read(meta); err != nil {
		return nil, fmt.Errorf("font: read meta: %w", err)
	}
	style := FontStyle{Weight: int(weight), Slant: Slant(slant)}
	face := resolveFace(meta)
	return Build(face, style, axes, locale.ID(localeID)), nil
}

// WriteFontFamily appends fam's wire representation to buf. fontMetas must
// supply one TypefaceMetadata blob per font in fam.Fonts(), in order.
func WriteFontFamily(buf *bytes.Buffer, fam *FontFamily, fontMetas []TypefaceMetadata) {
	writeU32(buf, uint32(fam.LocaleListID()))
	writeU16(buf, uint16(len(fam.Fonts())))
	for i, f := range fam.Fonts() {
		WriteFont(buf, f, fontMetas[i])
	}
	writeU8(buf, uint8(fam.Variant()))
	writeU16(buf, uint16(len(fam.SupportedAxes())))
	for _, a := range fam.SupportedAxes() {
		writeU32(buf, uint32(a))
	}
	writeU8(buf, boolToU8(fam.IsColorEmojiFamily()))
	writeU8(buf, boolToU8(fam.IsCustomFallback()))
	writeBitset(buf, fam.Coverage())
	writeU16(buf, uint16(len(fam.vsCoverage)))
	nonEmpty := 0
	for _, bs := range fam.vsCoverage {
		if !bs.Empty() {
			nonEmpty++
		}
	}
	writeU16(buf, uint16(nonEmpty))
	for idx, bs := range fam.vsCoverage {
		if bs.Empty() {
			continue
		}
		writeU16(buf, uint16(idx))
		writeBitset(buf, &fam.vsCoverage[idx])
	}
}

func boolToU8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// ReadFontFamily parses a FontFamily previously written by WriteFontFamily.
func ReadFontFamily(r *bytes.Reader, resolveFace func(TypefaceMetadata) gotext.Face) (*FontFamily, error) {
	localeID, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("family: read locale id: %w", err)
	}
	fontCount, err := readU16(r)
	if err != nil {
		return nil, fmt.Errorf("family: read font count: %w", err)
	}
	fonts := make([]*Font, fontCount)
	for i := range fonts {
		f, err := ReadFont(r, resolveFace)
		if err != nil {
			return nil, fmt.Errorf("family: read font %d: %w", i, err)
		}
		fonts[i] = f
	}
	variant, err := readU8(r)
	if err != nil {
		return nil, fmt.Errorf("family: read variant: %w", err)
	}
	axisCount, err := readU16(r)
	if err != nil {
		return nil, fmt.Errorf("family: read axis count: %w", err)
	}
	for i := uint16(0); i < axisCount; i++ {
		if _, err := readU32(r); err != nil {
			return nil, fmt.Errorf("family: read axis %d: %w", i, err)
		}
	}
	isColorEmoji, err := readU8(r)
	if err != nil {
		return nil, fmt.Errorf("family: read isColorEmoji: %w", err)
	}
	isCustomFallback, err := readU8(r)
	if err != nil {
		return nil, fmt.Errorf("family: read isCustomFallback: %w", err)
	}
	var coverage bitset.SparseBitSet
	if err := readBitsetInto(r, &coverage); err != nil {
		return nil, fmt.Errorf("family: read coverage: %w", err)
	}
	vsSize, err := readU16(r)
	if err != nil {
		return nil, fmt.Errorf("family: read vs size: %w", err)
	}
	nonEmptyCount, err := readU16(r)
	if err != nil {
		return nil, fmt.Errorf("family: read vs nonEmptyCount: %w", err)
	}
	vsCoverage := make([]bitset.SparseBitSet, vsSize)
	for i := uint16(0); i < nonEmptyCount; i++ {
		idx, err := readU16(r)
		if err != nil {
			return nil, fmt.Errorf("family: read vs index %d: %w", i, err)
		}
		if int(idx) >= len(vsCoverage) {
			return nil, fmt.Errorf("family: vs index %d out of range", idx)
		}
		if err := readBitsetInto(r, &vsCoverage[idx]); err != nil {
			return nil, fmt.Errorf("family: read vs bitset %d: %w", i, err)
		}
	}
	fam := &FontFamily{
		localeListID:     locale.ID(localeID),
		variant:          FamilyVariant(variant),
		fonts:            fonts,
		coverage:         coverage,
		vsCoverage:       vsCoverage,
		isColorEmoji:     isColorEmoji != 0,
		isCustomFallback: isCustomFallback != 0,
	}
	axisSet := map[AxisTag]bool{}
	for _, f := range fonts {
		for _, a := range f.SupportedAxes() {
			axisSet[a] = true
		}
	}
	axes := make([]AxisTag, 0, len(axisSet))
	for a := range axisSet {
		axes = append(axes, a)
	}
	sortAxisTags(axes)
	fam.supportedAxes = axes
	return fam, nil
}

// writeBitset serializes a SparseBitSet in the coverage-bitset wire
// form: word count (u32) followed by that many little-endian u64 words.
func writeBitset(buf *bytes.Buffer, bs *bitset.SparseBitSet) {
	words := bitsetWords(bs)
	writeU32(buf, uint32(len(words)))
	for _, w := range words {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], w)
		buf.Write(b[:])
	}
}

func readBitsetInto(r *bytes.Reader, bs *bitset.SparseBitSet) error {
	count, err := readU32(r)
	if err != nil {
		return fmt.Errorf("bitset: read word count: %w", err)
	}
	for i := uint32(0); i < count; i++ {
		var b [8]byte
		if _, err := r.Read(b[:]); err != nil {
			return fmt.Errorf("bitset: read word %d: %w", i, err)
		}
		w := binary.LittleEndian.Uint64(b[:])
		for bit := 0; bit < 64; bit++ {
			if w&(1<<uint(bit)) != 0 {
				bs.Add(i*64 + uint32(bit))
			}
		}
	}
	return nil
}

// bitsetWords extracts the raw word slice from a SparseBitSet for
// serialization. SparseBitSet keeps its words unexported, so this walks set
// bits instead of reaching into the struct, trading a little serialization
// throughput for keeping SparseBitSet's internals private to internal/bitset.
func bitsetWords(bs *bitset.SparseBitSet) []uint64 {
	var words []uint64
	var cur uint32
	for {
		v, ok := bs.NextSetBit(cur)
		if !ok {
			break
		}
		word := v / 64
		for uint32(len(words)) <= word {
			words = append(words, 0)
		}
		words[word] |= 1 << (v % 64)
		cur = v + 1
	}
	return words
}

// FontCollectionBlob is the u32 maxChar / family-index / Range[] / familyVec
// / supported-axes wire form described in spec.md §6. Family and font
// content itself is written separately, deduplicated across a whole vector
// of collections by the caller, per the "shared graphs" design note.
type FontCollectionBlob struct {
	MaxChar       uint32
	FamilyIndex   []uint32
	Ranges        []u16RangePair
	FamilyVec     []uint8
	SupportedAxes []AxisTag
}

// u16RangePair is a pair of u16 offsets packed into one u32, matching the
// original's Range encoding.
type u16RangePair struct {
	Start, End uint16
}

func packRange(p u16RangePair) uint32 {
	return uint32(p.Start) | uint32(p.End)<<16
}

func unpackRange(v uint32) u16RangePair {
	return u16RangePair{Start: uint16(v), End: uint16(v >> 16)}
}

// WriteFontCollection serializes fc's page index into the wire form. The
// family pool itself (the actual Font/FontFamily payloads) is written once
// per deduplicated vector of collections by the caller, not per collection.
func WriteFontCollection(buf *bytes.Buffer, fc *FontCollection) {
	blob := toCollectionBlob(fc)
	writeU32(buf, blob.MaxChar)
	writeU32(buf, uint32(len(blob.FamilyIndex)))
	for _, idx := range blob.FamilyIndex {
		writeU32(buf, idx)
	}
	writeU32(buf, uint32(len(blob.Ranges)))
	for _, rg := range blob.Ranges {
		writeU32(buf, packRange(rg))
	}
	writeU32(buf, uint32(len(blob.FamilyVec)))
	buf.Write(blob.FamilyVec)
	writeU16(buf, uint16(len(blob.SupportedAxes)))
	for _, a := range blob.SupportedAxes {
		writeU32(buf, uint32(a))
	}
}

// toCollectionBlob flattens fc's per-page family index into the
// Range[]+familyVec encoding: one Range per page listing the [start,end)
// slice of familyVec holding that page's family indices, in priority order.
func toCollectionBlob(fc *FontCollection) FontCollectionBlob {
	var maxChar uint32
	var familyIndex []uint32
	var ranges []u16RangePair
	var familyVec []uint8
	var axisSet = map[AxisTag]bool{}

	for i, fam := range fc.families {
		familyIndex = append(familyIndex, uint32(i))
		for _, a := range fam.SupportedAxes() {
			axisSet[a] = true
		}
	}

	pageKeys := make([]uint32, 0, len(fc.pages))
	for p := range fc.pages {
		pageKeys = append(pageKeys, p)
	}
	sortUint32(pageKeys)
	for _, page := range pageKeys {
		start := len(familyVec)
		for _, idx := range fc.pages[page] {
			if idx > 0xFF {
				continue // family index would overflow the one-byte slot
			}
			familyVec = append(familyVec, uint8(idx))
		}
		ranges = append(ranges, u16RangePair{Start: uint16(start), End: uint16(len(familyVec))})
		top := (page+1)*pageSize - 1
		if top > maxChar {
			maxChar = top
		}
	}

	axes := make([]AxisTag, 0, len(axisSet))
	for a := range axisSet {
		axes = append(axes, a)
	}
	sortAxisTags(axes)

	return FontCollectionBlob{
		MaxChar:       maxChar,
		FamilyIndex:   familyIndex,
		Ranges:        ranges,
		FamilyVec:     familyVec,
		SupportedAxes: axes,
	}
}

func sortUint32(s []uint32) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func sortAxisTags(s []AxisTag) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
