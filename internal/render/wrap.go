package render

import "strings"

// wrap breaks text into lines no wider than width. Text is expected in the
// single-byte encoding of the core fonts, so words can be cut at any byte.
func wrap(text string, width float64, measure func(string) float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		line := ""
		for _, word := range words {
			for len(word) > 1 && measure(word) > width {
				n := fit(word, width, measure)
				if line != "" {
					lines = append(lines, line)
					line = ""
				}
				lines = append(lines, word[:n])
				word = word[n:]
			}

			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if line == "" || measure(candidate) <= width {
				line = candidate
				continue
			}
			lines = append(lines, line)
			line = word
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// fit returns how many leading bytes of word fit in width, at least one
func fit(word string, width float64, measure func(string) float64) int {
	n := len(word)
	for n > 1 && measure(word[:n]) > width {
		n--
	}
	return n
}
