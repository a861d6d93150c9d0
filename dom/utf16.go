package dom

// Range offsets address the flattened text projection in UTF-16 code units,
// as host editing surfaces count characters. These helpers translate between
// UTF-16 offsets and Go string byte offsets.

// UTF16Length returns the length of s in UTF-16 code units. Characters
// outside the Basic Multilingual Plane count as two units (surrogate pair).
func UTF16Length(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// UTF16OffsetToByteOffset converts a UTF-16 code unit offset into a byte
// offset into s. Returns -1 if the offset is out of bounds or falls between
// the halves of a surrogate pair.
func UTF16OffsetToByteOffset(s string, offset int) int {
	if offset < 0 {
		return -1
	}
	count := 0
	for i, r := range s {
		if count == offset {
			return i
		}
		if count > offset {
			// offset points into a surrogate pair
			return -1
		}
		if r >= 0x10000 {
			count += 2
		} else {
			count++
		}
	}
	if count == offset {
		return len(s)
	}
	return -1
}

// ByteOffsetToUTF16Offset converts a byte offset into s to a UTF-16 code
// unit offset. Returns -1 if the byte offset is out of bounds.
func ByteOffsetToUTF16Offset(s string, byteOffset int) int {
	if byteOffset < 0 || byteOffset > len(s) {
		return -1
	}
	count := 0
	for i, r := range s {
		if i >= byteOffset {
			break
		}
		if r >= 0x10000 {
			count += 2
		} else {
			count++
		}
	}
	return count
}

// UTF16Substring extracts s[start:end] where start and end are UTF-16 code
// unit offsets. Offsets are clamped to the valid range.
func UTF16Substring(s string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end < start {
		return ""
	}
	startByte := UTF16OffsetToByteOffset(s, start)
	if startByte < 0 {
		return ""
	}
	endByte := UTF16OffsetToByteOffset(s, end)
	if endByte < 0 {
		endByte = len(s)
	}
	return s[startByte:endByte]
}
