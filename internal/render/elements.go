package render

import "strings"

// ElementKind distinguishes inline markdown constructs
type ElementKind int

const (
	// ElementImage is ![alt](target "title")
	ElementImage ElementKind = iota
	// ElementLink is [text](target "title")
	ElementLink
)

// String returns the kind name
func (k ElementKind) String() string {
	if k == ElementImage {
		return "image"
	}
	return "link"
}

// Element is an inline image or link found in markdown source
type Element struct {
	Kind ElementKind
	// Start and End are byte offsets of the whole construct
	Start int
	End   int
	// Text is the alt text of an image or the label of a link
	Text   string
	Target string
	Title  string
}

// ScanElements finds inline images and links outside code.
// Nested constructs (an image inside a link label) are reported once, as the outer element.
func ScanElements(md string) []Element {
	var elements []Element
	s := &scanner{src: md}

	for s.pos < len(s.src) {
		if s.atLineStart() {
			if fence, ok := s.fenceOpen(); ok {
				s.skipFence(fence)
				continue
			}
		}

		switch c := s.src[s.pos]; {
		case c == '\\':
			s.pos += 2
		case c == '`':
			s.skipCodeSpan()
		case c == '!' && s.peek(1) == '[':
			if el, ok := s.parseElement(s.pos, s.pos+1, ElementImage); ok {
				elements = append(elements, el)
				s.pos = el.End
			} else {
				s.pos++
			}
		case c == '[':
			if el, ok := s.parseElement(s.pos, s.pos, ElementLink); ok {
				elements = append(elements, el)
				s.pos = el.End
			} else {
				s.pos++
			}
		default:
			s.pos++
		}
	}

	return elements
}

type scanner struct {
	src string
	pos int
}

func (s *scanner) peek(n int) byte {
	if s.pos+n < len(s.src) {
		return s.src[s.pos+n]
	}
	return 0
}

func (s *scanner) atLineStart() bool {
	return s.pos == 0 || s.src[s.pos-1] == '\n'
}

// fenceOpen detects ``` or ~~~ (up to three spaces of indent) at the current line
func (s *scanner) fenceOpen() (string, bool) {
	line := s.currentLine()
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return "", false
	}
	for _, marker := range []byte{'`', '~'} {
		n := 0
		for n < len(trimmed) && trimmed[n] == marker {
			n++
		}
		if n >= 3 {
			if marker == '`' && strings.ContainsRune(trimmed[n:], '`') {
				return "", false
			}
			return trimmed[:n], true
		}
	}
	return "", false
}

func (s *scanner) currentLine() string {
	end := strings.IndexByte(s.src[s.pos:], '\n')
	if end < 0 {
		return s.src[s.pos:]
	}
	return s.src[s.pos : s.pos+end]
}

func (s *scanner) nextLine() {
	end := strings.IndexByte(s.src[s.pos:], '\n')
	if end < 0 {
		s.pos = len(s.src)
		return
	}
	s.pos += end + 1
}

// skipFence moves past a fenced block; an unclosed fence runs to the end
func (s *scanner) skipFence(fence string) {
	s.nextLine()
	for s.pos < len(s.src) {
		trimmed := strings.TrimSpace(s.currentLine())
		closing := strings.HasPrefix(trimmed, fence) &&
			strings.Trim(trimmed, fence[:1]) == ""
		s.nextLine()
		if closing {
			return
		}
	}
}

// skipCodeSpan skips a backtick run and, if a matching run exists, the span it opens
func (s *scanner) skipCodeSpan() {
	start := s.pos
	for s.pos < len(s.src) && s.src[s.pos] == '`' {
		s.pos++
	}
	run := s.src[start:s.pos]

	for i := s.pos; i < len(s.src); {
		j := strings.Index(s.src[i:], run)
		if j < 0 {
			return
		}
		end := i + j + len(run)
		if end < len(s.src) && s.src[end] == '`' {
			// Longer run; keep looking
			for end < len(s.src) && s.src[end] == '`' {
				end++
			}
			i = end
			continue
		}
		s.pos = end
		return
	}
}

// parseElement parses [label](dest "title") with the label bracket at open
func (s *scanner) parseElement(start, open int, kind ElementKind) (Element, bool) {
	labelEnd, ok := matchBracket(s.src, open)
	if !ok || labelEnd+1 >= len(s.src) || s.src[labelEnd+1] != '(' {
		return Element{}, false
	}

	target, title, end, ok := parseDestination(s.src, labelEnd+2)
	if !ok {
		return Element{}, false
	}

	return Element{
		Kind:   kind,
		Start:  start,
		End:    end,
		Text:   s.src[open+1 : labelEnd],
		Target: target,
		Title:  title,
	}, true
}

// matchBracket returns the index of the ] closing the [ at open
func matchBracket(src string, open int) (int, bool) {
	depth := 0
	for i := open; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '`':
			// Code spans inside labels may hold brackets
			if j := strings.IndexByte(src[i+1:], '`'); j >= 0 {
				i += j + 1
			}
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i, true
			}
		case '\n':
			if i+1 < len(src) && src[i+1] == '\n' {
				return 0, false
			}
		}
	}
	return 0, false
}

// parseDestination parses `dest "title")` starting just after the opening paren.
// It returns the index just after the closing paren.
func parseDestination(src string, pos int) (target, title string, end int, ok bool) {
	pos = skipSpaces(src, pos)
	if pos >= len(src) {
		return "", "", 0, false
	}

	if src[pos] == '<' {
		gt := strings.IndexByte(src[pos:], '>')
		if gt < 0 || strings.ContainsRune(src[pos:pos+gt], '\n') {
			return "", "", 0, false
		}
		target = src[pos+1 : pos+gt]
		pos += gt + 1
	} else {
		depth := 0
		begin := pos
	loop:
		for ; pos < len(src); pos++ {
			switch c := src[pos]; {
			case c == '\\':
				pos++
			case c == '(':
				depth++
			case c == ')':
				if depth == 0 {
					break loop
				}
				depth--
			case c == ' ' || c == '\t' || c == '\n':
				break loop
			}
		}
		if pos > len(src) {
			pos = len(src)
		}
		if depth != 0 {
			return "", "", 0, false
		}
		target = src[begin:pos]
	}

	pos = skipSpaces(src, pos)
	if pos < len(src) && (src[pos] == '"' || src[pos] == '\'' || src[pos] == '(') {
		closer := src[pos]
		if closer == '(' {
			closer = ')'
		}
		n := strings.IndexByte(src[pos+1:], closer)
		if n < 0 {
			return "", "", 0, false
		}
		title = src[pos+1 : pos+1+n]
		pos = skipSpaces(src, pos+n+2)
	}

	if pos >= len(src) || src[pos] != ')' {
		return "", "", 0, false
	}
	return target, title, pos + 1, true
}

func skipSpaces(src string, pos int) int {
	for pos < len(src) && (src[pos] == ' ' || src[pos] == '\t' || src[pos] == '\n') {
		pos++
	}
	return pos
}
