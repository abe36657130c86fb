package token

// Raw-source scanning helpers. The AST does not record positions for
// marker characters, so construct extents are recovered by inspecting
// the bytes around the positions it does record.

// lineStartOf returns the offset of the first byte of the line
// containing pos.
func lineStartOf(source []byte, pos int) int {
	if pos > len(source) {
		pos = len(source)
	}
	for pos > 0 && source[pos-1] != '\n' {
		pos--
	}
	return pos
}

// lineEndOf returns the offset of the newline terminating the line
// containing pos, or len(source) if the line is unterminated.
func lineEndOf(source []byte, pos int) int {
	for pos < len(source) && source[pos] != '\n' {
		pos++
	}
	return pos
}

// runLen counts consecutive occurrences of ch adjacent to pos. With
// dir < 0 it counts backwards through source[..pos], with dir > 0 it
// counts forwards from source[pos..].
func runLen(source []byte, pos, dir int, ch byte) int {
	n := 0
	if dir < 0 {
		for pos-1-n >= 0 && source[pos-1-n] == ch {
			n++
		}
		return n
	}
	for pos+n < len(source) && source[pos+n] == ch {
		n++
	}
	return n
}

// skipBlank advances pos past spaces, tabs and newlines.
func skipBlank(source []byte, pos int) int {
	for pos < len(source) {
		switch source[pos] {
		case ' ', '\t', '\n', '\r':
			pos++
		default:
			return pos
		}
	}
	return pos
}

// listMarkerEnd parses a list item marker at the start of the line
// beginning at lineStart and returns the offset just past the marker and
// its following spaces. Returns lineStart if no marker is present.
func listMarkerEnd(source []byte, lineStart int) int {
	i := lineStart
	for i < len(source) && (source[i] == ' ' || source[i] == '\t') {
		i++
	}
	switch {
	case i < len(source) && (source[i] == '-' || source[i] == '*' || source[i] == '+'):
		i++
	case i < len(source) && source[i] >= '0' && source[i] <= '9':
		j := i
		for j < len(source) && source[j] >= '0' && source[j] <= '9' && j-i < 9 {
			j++
		}
		if j >= len(source) || (source[j] != '.' && source[j] != ')') {
			return lineStart
		}
		i = j + 1
	default:
		return lineStart
	}
	// Up to four spaces separate the marker from content.
	spaces := 0
	for i < len(source) && source[i] == ' ' && spaces < 4 {
		i++
		spaces++
	}
	if spaces == 0 && i < len(source) && source[i] != '\n' {
		return lineStart
	}
	return i
}

// attributeSpan locates a {...} attribute block following pos on the
// same line, after optional spaces. The parser consumes attribute
// bytes without recording their position, so they are recovered here.
func attributeSpan(source []byte, pos int) (int, int, bool) {
	i := pos
	for i < len(source) && source[i] == ' ' {
		i++
	}
	if i >= len(source) || source[i] != '{' {
		return 0, 0, false
	}
	j := i + 1
	for j < len(source) && source[j] != '}' && source[j] != '\n' {
		j++
	}
	if j >= len(source) || source[j] != '}' {
		return 0, 0, false
	}
	return i, j + 1, true
}

// scanLinkClose returns the offset just past the closing syntax of a
// link or image whose label content ends at contentEnd: the `]` plus an
// optional `(...)` destination or `[...]` reference. Parentheses nest
// and backslash escapes are honored.
func scanLinkClose(source []byte, contentEnd int) int {
	i := contentEnd
	if i >= len(source) || source[i] != ']' {
		return contentEnd
	}
	i++
	if i >= len(source) {
		return i
	}
	switch source[i] {
	case '(':
		depth := 1
		i++
		for i < len(source) && depth > 0 {
			switch source[i] {
			case '\\':
				i++
			case '(':
				depth++
			case ')':
				depth--
			case '\n':
				// Destinations never span a blank line; stop defensively.
			}
			i++
		}
		return i
	case '[':
		i++
		for i < len(source) && source[i] != ']' && source[i] != '\n' {
			if source[i] == '\\' {
				i++
			}
			i++
		}
		if i < len(source) && source[i] == ']' {
			i++
		}
		return i
	default:
		return i
	}
}
