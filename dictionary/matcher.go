package dictionary

import "strings"

// ContainsLine reports whether target appears as a whole line of the
// wordlist. Matching is exact: both ends of the match must be a line
// break or a file edge, so a target that is merely a substring of a
// longer line never matches.
//
// A handle with no path configured reports no match rather than an
// error. With caching enabled the cached text is searched directly
// (loading it on first use); otherwise the file is scanned page by page
// through ReadWindow, bounding memory to one chunk plus the carry of a
// single partial line regardless of dictionary size. A line straddling
// a page boundary is still found via the carry.
func ContainsLine(h *Handle, target string) (bool, error) {
	if h == nil || h.path == "" {
		return false, nil
	}

	if h.cacheEnabled {
		text, err := h.ensureCache()
		if err != nil {
			return false, err
		}
		return textContainsLine(text, target), nil
	}

	carry := ""
	for page := 1; ; page++ {
		window, err := ReadWindow(h.path, h.chunkSize, page, h.encoding)
		if err != nil {
			return false, err
		}
		if window == "" {
			// End of file: the carry holds the final line when the
			// file lacks a trailing newline.
			return carry != "" && carry == target, nil
		}

		buf := carry + window
		last := strings.LastIndexByte(buf, '\n')
		if last < 0 {
			carry = buf
			continue
		}
		for _, line := range strings.Split(buf[:last], "\n") {
			if line == target {
				return true, nil
			}
		}
		carry = buf[last+1:]
	}
}

// textContainsLine checks exact line membership over a fully
// materialized wordlist.
func textContainsLine(text, target string) bool {
	if text == "" {
		return false
	}
	for line := range strings.SplitSeq(text, "\n") {
		if line == target && line != "" {
			return true
		}
	}
	// A trailing newline produces an empty final element above, so an
	// empty target only matches a genuinely blank line.
	if target == "" {
		return strings.Contains(text, "\n\n") || strings.HasPrefix(text, "\n")
	}
	return false
}
