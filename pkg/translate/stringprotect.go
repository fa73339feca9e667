package translate

// protectStrings returns a bitset the same length as text where true
// marks a byte offset lying inside a single-quoted string literal
// (including the quotes themselves). `''` inside a literal is the
// standard SQL escaped-quote and does not end the literal.
func protectStrings(text string) []bool {
	protected := make([]bool, len(text))
	i, n := 0, len(text)
	for i < n {
		if text[i] != '\'' {
			i++
			continue
		}
		start := i
		i++
		for i < n {
			if text[i] == '\'' {
				if i+1 < n && text[i+1] == '\'' {
					i += 2
					continue
				}
				i++
				break
			}
			i++
		}
		for j := start; j < i && j < n; j++ {
			protected[j] = true
		}
	}
	return protected
}
