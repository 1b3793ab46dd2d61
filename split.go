package jregex

// Split slices input around the matches of the pattern.
//
// With limit > 0 at most limit pieces are returned and the last one holds
// the rest of the input. With limit < 0 every piece is returned. With
// limit == 0 trailing empty pieces are dropped. A zero-width match at the
// start of the input never produces a leading empty piece. If nothing
// matches the result is the input itself.
//
// Example:
//
//	jregex.MustCompile(`\s*,\s*`).Split("a , b,c", -1) // ["a" "b" "c"]
func (p *Pattern) Split(input string, limit int) []string {
	m := p.Matcher(input)
	var pieces []string
	index := 0
	for m.Find() {
		if limit > 0 && len(pieces) >= limit-1 {
			break
		}
		start, end := m.Start(0), m.End(0)
		if start == 0 && end == 0 && index == 0 {
			continue
		}
		pieces = append(pieces, input[index:start])
		index = end
	}
	if index == 0 {
		return []string{input}
	}
	pieces = append(pieces, input[index:])
	if limit == 0 {
		n := len(pieces)
		for n > 0 && pieces[n-1] == "" {
			n--
		}
		pieces = pieces[:n]
	}
	return pieces
}
