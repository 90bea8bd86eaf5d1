package inversesubset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode"

	"github.com/tdewolff/parse/v2"
	"golang.org/x/text/encoding/charmap"
)

// MaxCmapSegments is the maximum number of segments or groups accepted in a cmap subtable.
const MaxCmapSegments = 20000

// MaxCmapCodes is the maximum number of character codes visited in a cmap subtable.
const MaxCmapCodes = unicode.MaxRune + 1

// errSkipSubtable is returned for subtables that do not map single code points to glyphs.
var errSkipSubtable = fmt.Errorf("subtable skipped")

type cmapEncodingRecord struct {
	PlatformID uint16
	EncodingID uint16
	Offset     uint32
}

func (record cmapEncodingRecord) isUnicode() bool {
	if record.PlatformID == 0 {
		return true
	}
	return record.PlatformID == 3 && (record.EncodingID == 1 || record.EncodingID == 10)
}

func (record cmapEncodingRecord) isSymbol() bool {
	return record.PlatformID == 3 && record.EncodingID == 0
}

func (record cmapEncodingRecord) isMacRoman() bool {
	return record.PlatformID == 1 && record.EncodingID == 0
}

// cmapCodePoints returns all code points that the cmap table maps to a glyph other than .notdef. Unicode subtables are merged; the symbol and Macintosh Roman subtables are only used when there are no Unicode subtables that can be read. Subtables that do not map single code points, such as formats 2, 8, 13, and 14, are skipped.
func cmapCodePoints(b []byte, numGlyphs uint16) (Set, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("cmap: bad table")
	}

	r := parse.NewBinaryReader(b)
	if r.ReadUint16() != 0 {
		return nil, fmt.Errorf("cmap: bad version")
	}
	numTables := r.ReadUint16()
	if uint32(len(b)) < 4+8*uint32(numTables) {
		return nil, fmt.Errorf("cmap: bad table")
	}

	var unicodeRecords, symbolRecords, macRecords []cmapEncodingRecord
	for j := 0; j < int(numTables); j++ {
		record := cmapEncodingRecord{
			PlatformID: r.ReadUint16(),
			EncodingID: r.ReadUint16(),
			Offset:     r.ReadUint32(),
		}
		if uint32(len(b))-4 < record.Offset {
			return nil, fmt.Errorf("cmap: bad subtable %d", j)
		}
		if record.isUnicode() {
			unicodeRecords = append(unicodeRecords, record)
		} else if record.isSymbol() {
			symbolRecords = append(symbolRecords, record)
		} else if record.isMacRoman() {
			macRecords = append(macRecords, record)
		}
	}

	decodeUnicode := func(code uint32) (rune, bool) {
		return rune(code), code <= unicode.MaxRune
	}
	decodeMacRoman := func(code uint32) (rune, bool) {
		if 256 <= code {
			return 0, false
		}
		return charmap.Macintosh.DecodeByte(byte(code)), true
	}
	for _, group := range []struct {
		records []cmapEncodingRecord
		decode  func(uint32) (rune, bool)
	}{
		{unicodeRecords, decodeUnicode},
		{symbolRecords, decodeUnicode},
		{macRecords, decodeMacRoman},
	} {
		set, err := walkCmapRecords(b, group.records, numGlyphs, group.decode)
		if err != ErrNoCharacterMap {
			return set, err
		}
	}
	return nil, ErrNoCharacterMap
}

// walkCmapRecords merges the code points of the subtables of records. It returns ErrNoCharacterMap when every subtable was skipped.
func walkCmapRecords(b []byte, records []cmapEncodingRecord, numGlyphs uint16, decode func(uint32) (rune, bool)) (Set, error) {
	set := Set{}
	walked := 0
	visited := map[uint32]bool{}
	for _, record := range records {
		if visited[record.Offset] {
			continue
		}
		visited[record.Offset] = true

		err := walkCmapSubtable(b[record.Offset:], func(code, glyphID uint32) {
			if glyphID == 0 || uint32(numGlyphs) <= glyphID {
				return
			}
			if r, ok := decode(code); ok {
				set.Add(CodePoint(r))
			}
		})
		if errors.Is(err, errSkipSubtable) {
			continue
		} else if err != nil {
			return nil, fmt.Errorf("cmap: subtable (%d,%d): %w", record.PlatformID, record.EncodingID, err)
		}
		walked++
	}
	if walked == 0 {
		return nil, ErrNoCharacterMap
	}
	return set, nil
}

// cmapSubtableHeader returns the format, the header size and the length of the subtable that starts at b[0].
func cmapSubtableHeader(b []byte) (uint16, uint32, uint32, error) {
	format := binary.BigEndian.Uint16(b)
	var headerSize, length uint32
	switch format {
	case 0, 2, 4, 6:
		headerSize = 4
		length = uint32(binary.BigEndian.Uint16(b[2:]))
	case 8, 10, 12, 13:
		if len(b) < 8 {
			return 0, 0, 0, fmt.Errorf("bad subtable")
		}
		headerSize = 8
		length = binary.BigEndian.Uint32(b[4:])
	case 14:
		if len(b) < 6 {
			return 0, 0, 0, fmt.Errorf("bad subtable")
		}
		headerSize = 6
		length = binary.BigEndian.Uint32(b[2:])
	default:
		return 0, 0, 0, fmt.Errorf("bad format %d", format)
	}
	if length < headerSize {
		return 0, 0, 0, fmt.Errorf("bad length")
	} else if uint32(len(b)) < length {
		// some fonts overstate the length of the last subtable
		length = uint32(len(b))
	}
	return format, headerSize, length, nil
}

// walkCmapSubtable calls fn for every character code of the subtable and the glyph ID it maps to. Formats 2, 8, 13, and 14 return errSkipSubtable.
func walkCmapSubtable(b []byte, fn func(code, glyphID uint32)) error {
	format, headerSize, length, err := cmapSubtableHeader(b)
	if err != nil {
		return err
	}
	rs := parse.NewBinaryReader(b[headerSize:length])

	// at most MaxCmapCodes codes are visited, even with overlapping segments
	codes := 0
	emit := func(code, glyphID uint32) {
		if codes++; codes <= MaxCmapCodes {
			fn(code, glyphID)
		}
	}

	switch format {
	case 0:
		if rs.Len() < 2+256 {
			return fmt.Errorf("bad format 0 subtable")
		}
		_ = rs.ReadUint16() // language
		for code := uint32(0); code < 256; code++ {
			emit(code, uint32(rs.ReadUint8()))
		}
	case 4:
		if rs.Len() < 10 {
			return fmt.Errorf("bad format 4 subtable")
		}
		_ = rs.ReadUint16() // language
		segCountX2 := rs.ReadUint16()
		if segCountX2%2 != 0 || segCountX2 == 0 {
			return fmt.Errorf("bad segCount")
		}
		segCount := int(segCountX2 / 2)
		if MaxCmapSegments < segCount {
			return fmt.Errorf("too many segments")
		}
		_ = rs.ReadUint16() // searchRange
		_ = rs.ReadUint16() // entrySelector
		_ = rs.ReadUint16() // rangeShift
		if rs.Len() < 2+8*uint32(segCount) {
			return fmt.Errorf("bad format 4 subtable")
		}

		endCode := make([]uint16, segCount)
		for i := range endCode {
			endCode[i] = rs.ReadUint16()
		}
		_ = rs.ReadUint16() // reservedPad
		startCode := make([]uint16, segCount)
		for i := range startCode {
			startCode[i] = rs.ReadUint16()
			if endCode[i] < startCode[i] {
				return fmt.Errorf("bad startCode in segment %d", i)
			}
		}
		idDelta := make([]int16, segCount)
		for i := range idDelta {
			idDelta[i] = rs.ReadInt16()
		}
		idRangeOffset := make([]uint16, segCount)
		for i := range idRangeOffset {
			idRangeOffset[i] = rs.ReadUint16()
		}
		glyphIDArray := make([]uint16, rs.Len()/2)
		for i := range glyphIDArray {
			glyphIDArray[i] = rs.ReadUint16()
		}

		for i := 0; i < segCount; i++ {
			if startCode[i] == 0xFFFF {
				continue // terminating segment
			}
			for code := uint32(startCode[i]); code <= uint32(endCode[i]) && codes <= MaxCmapCodes; code++ {
				var glyphID uint16
				if idRangeOffset[i] == 0 {
					// modulo 65536
					glyphID = uint16(idDelta[i]) + uint16(code)
				} else {
					// idRangeOffset is relative to its own position in the idRangeOffset array
					index := int(idRangeOffset[i]/2) + int(code-uint32(startCode[i])) - (segCount - i)
					if index < 0 || len(glyphIDArray) <= index {
						return fmt.Errorf("bad idRangeOffset in segment %d", i)
					}
					if glyphID = glyphIDArray[index]; glyphID != 0 {
						glyphID += uint16(idDelta[i])
					}
				}
				emit(code, uint32(glyphID))
			}
		}
	case 6:
		if rs.Len() < 6 {
			return fmt.Errorf("bad format 6 subtable")
		}
		_ = rs.ReadUint16() // language
		firstCode := uint32(rs.ReadUint16())
		entryCount := uint32(rs.ReadUint16())
		if rs.Len() < 2*entryCount {
			return fmt.Errorf("bad format 6 subtable")
		}
		for i := uint32(0); i < entryCount; i++ {
			emit(firstCode+i, uint32(rs.ReadUint16()))
		}
	case 12:
		if rs.Len() < 8 {
			return fmt.Errorf("bad format 12 subtable")
		}
		_ = rs.ReadUint32() // language
		numGroups := rs.ReadUint32()
		if MaxCmapSegments < numGroups {
			return fmt.Errorf("too many groups")
		} else if rs.Len() < 12*numGroups {
			return fmt.Errorf("bad format 12 subtable")
		}
		var prevEndCharCode uint32
		for i := uint32(0); i < numGroups; i++ {
			startCharCode := rs.ReadUint32()
			endCharCode := rs.ReadUint32()
			startGlyphID := rs.ReadUint32()
			if endCharCode < startCharCode || unicode.MaxRune < endCharCode {
				return fmt.Errorf("bad character code range in group %d", i)
			} else if 0 < i && startCharCode <= prevEndCharCode {
				return fmt.Errorf("overlapping or unsorted group %d", i)
			}
			prevEndCharCode = endCharCode
			for code := startCharCode; code <= endCharCode && codes <= MaxCmapCodes; code++ {
				emit(code, startGlyphID+(code-startCharCode))
			}
		}
	case 10:
		if rs.Len() < 12 {
			return fmt.Errorf("bad format 10 subtable")
		}
		_ = rs.ReadUint32() // language
		startCharCode := rs.ReadUint32()
		numChars := rs.ReadUint32()
		if rs.Len() < 2*numChars || unicode.MaxRune+1 < uint64(startCharCode)+uint64(numChars) {
			return fmt.Errorf("bad format 10 subtable")
		}
		for i := uint32(0); i < numChars; i++ {
			emit(startCharCode+i, uint32(rs.ReadUint16()))
		}
	case 14:
		// variation sequences select glyphs for code point pairs, the base code points are mapped elsewhere
		return errSkipSubtable
	default:
		// mixed byte encodings (2, 8) and many-to-one last resort mappings (13)
		return errSkipSubtable
	}
	if MaxCmapCodes < codes {
		return fmt.Errorf("too many character codes")
	}
	return nil
}
