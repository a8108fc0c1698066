package dmp

//go:generate stringer -type=Op -trimprefix=Op

import (
	"bytes"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Op is the diff operation enum.
type Op int

// Op values.
const (
	// OpDelete item represents a delete diff.
	OpDelete Op = -1
	// OpInsert item represents an insert diff.
	OpInsert Op = 1
	// OpEqual item represents an equal diff.
	OpEqual Op = 0
)

// Diff contains information about a single diff operation: the Text is
// never empty in a diff script returned to a caller (merge cleanup sweeps
// empties out), and no two adjacent segments in such a script share an Op.
type Diff struct {
	Op   Op
	Text string
}

// Diff finds the differences between two texts.
//
// If an invalid UTF-8 sequence is encountered, it will be replaced by the
// Unicode replacement character.
func (config *Config) Diff(text1, text2 string, checklines bool) []Diff {
	return config.DiffRunes([]rune(text1), []rune(text2), checklines)
}

// DiffRunes finds the differences between two rune sequences.
//
// If an invalid UTF-8 sequence is encountered, it will be replaced by the
// Unicode replacement character.
func (config *Config) DiffRunes(text1, text2 []rune, checklines bool) []Diff {
	var deadline time.Time
	if config.DiffTimeout > 0 {
		deadline = time.Now().Add(config.DiffTimeout)
	}
	return config.diffRunes(text1, text2, checklines, deadline)
}

func (config *Config) diffRunes(text1, text2 []rune, checklines bool, deadline time.Time) []Diff {
	if runeWindow(text1).equal(text2) {
		var diffs []Diff
		if len(text1) > 0 {
			diffs = append(diffs, Diff{OpEqual, string(text1)})
		}
		return diffs
	}
	// Trim off common prefix (speedup).
	commonlength := commonPrefixLength(text1, text2)
	commonprefix := text1[:commonlength]
	text1 = text1[commonlength:]
	text2 = text2[commonlength:]
	// Trim off common suffix (speedup).
	commonlength = commonSuffixLength(text1, text2)
	commonsuffix := text1[len(text1)-commonlength:]
	text1 = text1[:len(text1)-commonlength]
	text2 = text2[:len(text2)-commonlength]
	// Compute the diff on the middle block.
	diffs := config.diffCompute(text1, text2, checklines, deadline)
	// Restore the prefix and suffix.
	if len(commonprefix) != 0 {
		diffs = append([]Diff{{OpEqual, string(commonprefix)}}, diffs...)
	}
	if len(commonsuffix) != 0 {
		diffs = append(diffs, Diff{OpEqual, string(commonsuffix)})
	}
	return config.DiffCleanupMerge(diffs)
}

// diffCompute finds the differences between two rune slices.
//
// Assumes that the texts do not have any common prefix or suffix.
func (config *Config) diffCompute(text1, text2 []rune, checklines bool, deadline time.Time) []Diff {
	diffs := []Diff{}
	if len(text1) == 0 {
		// Just add some text (speedup).
		return append(diffs, Diff{OpInsert, string(text2)})
	} else if len(text2) == 0 {
		// Just delete some text (speedup).
		return append(diffs, Diff{OpDelete, string(text1)})
	}
	var longtext, shorttext []rune
	if len(text1) > len(text2) {
		longtext = text1
		shorttext = text2
	} else {
		longtext = text2
		shorttext = text1
	}
	if i := runeWindow(longtext).index(shorttext); i != -1 {
		op := OpInsert
		// Swap insertions for deletions if diff is reversed.
		if len(text1) > len(text2) {
			op = OpDelete
		}
		// Shorter text is inside the longer text (speedup).
		return []Diff{
			{op, string(longtext[:i])},
			{OpEqual, string(shorttext)},
			{op, string(longtext[i+len(shorttext):])},
		}
	} else if len(shorttext) == 1 {
		// Single character string.
		// After the previous speedup, the character can't be an equality.
		return []Diff{
			{OpDelete, string(text1)},
			{OpInsert, string(text2)},
		}
		// Check to see if the problem can be split in two.
	} else if hm := config.diffHalfMatch(text1, text2); hm != nil {
		// A half-match was found; send both pairs off for separate
		// processing and stitch the results around the shared middle.
		diffsA := config.diffRunes(hm.text1Before, hm.text2Before, checklines, deadline)
		diffsB := config.diffRunes(hm.text1After, hm.text2After, checklines, deadline)
		diffs := diffsA
		diffs = append(diffs, Diff{OpEqual, string(hm.common)})
		diffs = append(diffs, diffsB...)
		return diffs
	} else if checklines && len(text1) > 100 && len(text2) > 100 {
		return config.diffLineMode(text1, text2, deadline)
	}
	return config.diffBisect(text1, text2, deadline)
}

// diffLineMode does a quick line-level diff on both []runes, then rediffs
// the parts for greater accuracy. This speedup can produce non-minimal
// diffs.
func (config *Config) diffLineMode(text1, text2 []rune, deadline time.Time) []Diff {
	// Scan the text on a line-by-line basis first.
	rtext1, rtext2, linearray := config.DiffLinesToRunes(string(text1), string(text2))
	diffs := config.diffRunes(rtext1, rtext2, false, deadline)
	// Convert the diff back to original text.
	diffs = config.DiffCharsToLines(diffs, linearray)
	// Eliminate freak matches (e.g. blank lines).
	diffs = config.DiffCleanupSemantic(diffs)
	// Rediff any replacement blocks, this time character-by-character.
	// Add a dummy entry at the end.
	diffs = append(diffs, Diff{OpEqual, ""})
	pointer := 0
	countDelete := 0
	countInsert := 0
	// NOTE: Rune slices are slower than using strings in this case.
	textDelete := ""
	textInsert := ""
	for pointer < len(diffs) {
		switch diffs[pointer].Op {
		case OpInsert:
			countInsert++
			textInsert += diffs[pointer].Text
		case OpDelete:
			countDelete++
			textDelete += diffs[pointer].Text
		case OpEqual:
			// Upon reaching an equality, check for prior redundancies.
			if countDelete >= 1 && countInsert >= 1 {
				// Delete the offending records and add the merged ones.
				diffs = spliceSlice(diffs, pointer-countDelete-countInsert,
					countDelete+countInsert)
				pointer = pointer - countDelete - countInsert
				a := config.diffRunes([]rune(textDelete), []rune(textInsert), false, deadline)
				for j := len(a) - 1; j >= 0; j-- {
					diffs = spliceSlice(diffs, pointer, 0, a[j])
				}
				pointer = pointer + len(a)
			}
			countInsert = 0
			countDelete = 0
			textDelete = ""
			textInsert = ""
		}
		pointer++
	}
	return diffs[:len(diffs)-1] // Remove the dummy entry at the end.
}

// DiffBisect finds the 'middle snake' of a diff, splits the problem in two
// and returns the recursively constructed diff.
//
// See Myers's 1986 paper: An O(ND) Difference Algorithm and Its Variations.
func (config *Config) DiffBisect(text1, text2 string, deadline time.Time) []Diff {
	return config.diffBisect([]rune(text1), []rune(text2), deadline)
}

// bisectFrontier holds the furthest-reaching x coordinate reached on each
// diagonal of the forward and reverse search fronts used by Myers'
// bidirectional bisection. forward and reverse are sized 2*maxD+1 and
// indexed through offset so that negative diagonals are addressable.
type bisectFrontier struct {
	runes1, runes2 []rune
	len1, len2     int
	delta          int
	maxD           int
	offset         int
	width          int
	forward        []int
	reverse        []int
	k1start, k1end int
	k2start, k2end int
}

func newBisectFrontier(runes1, runes2 []rune) *bisectFrontier {
	len1, len2 := len(runes1), len(runes2)
	maxD := (len1 + len2 + 1) / 2
	f := &bisectFrontier{
		runes1: runes1, runes2: runes2,
		len1: len1, len2: len2,
		delta:   len1 - len2,
		maxD:    maxD,
		offset:  maxD,
		width:   2*maxD + 1,
		forward: make([]int, 2*maxD+1),
		reverse: make([]int, 2*maxD+1),
	}
	for i := range f.forward {
		f.forward[i] = -1
		f.reverse[i] = -1
	}
	f.forward[f.offset+1] = 0
	f.reverse[f.offset+1] = 0
	return f
}

// stepForward advances the forward front by one error level d. When
// mirrorMeets is set it also checks each newly-extended diagonal against the
// reverse front for an overlap, reporting the meeting coordinates.
func (f *bisectFrontier) stepForward(d int, mirrorMeets bool) (x, y int, ok bool) {
	for k1 := -d + f.k1start; k1 <= d-f.k1end; k1 += 2 {
		k1Offset := f.offset + k1
		var x1 int
		if k1 == -d || (k1 != d && f.forward[k1Offset-1] < f.forward[k1Offset+1]) {
			x1 = f.forward[k1Offset+1]
		} else {
			x1 = f.forward[k1Offset-1] + 1
		}
		y1 := x1 - k1
		for x1 < f.len1 && y1 < f.len2 && f.runes1[x1] == f.runes2[y1] {
			x1++
			y1++
		}
		f.forward[k1Offset] = x1
		switch {
		case x1 > f.len1:
			f.k1end += 2
		case y1 > f.len2:
			f.k1start += 2
		case mirrorMeets:
			k2Offset := f.offset + f.delta - k1
			if k2Offset >= 0 && k2Offset < f.width && f.reverse[k2Offset] != -1 {
				if x2 := f.len1 - f.reverse[k2Offset]; x1 >= x2 {
					return x1, y1, true
				}
			}
		}
	}
	return 0, 0, false
}

// stepReverse is the mirror image of stepForward, walking the reverse front
// and checking against the forward front when mirrorMeets is set.
func (f *bisectFrontier) stepReverse(d int, mirrorMeets bool) (x, y int, ok bool) {
	for k2 := -d + f.k2start; k2 <= d-f.k2end; k2 += 2 {
		k2Offset := f.offset + k2
		var x2 int
		if k2 == -d || (k2 != d && f.reverse[k2Offset-1] < f.reverse[k2Offset+1]) {
			x2 = f.reverse[k2Offset+1]
		} else {
			x2 = f.reverse[k2Offset-1] + 1
		}
		y2 := x2 - k2
		for x2 < f.len1 && y2 < f.len2 && f.runes1[f.len1-x2-1] == f.runes2[f.len2-y2-1] {
			x2++
			y2++
		}
		f.reverse[k2Offset] = x2
		switch {
		case x2 > f.len1:
			f.k2end += 2
		case y2 > f.len2:
			f.k2start += 2
		case mirrorMeets:
			k1Offset := f.offset + f.delta - k2
			if k1Offset >= 0 && k1Offset < f.width && f.forward[k1Offset] != -1 {
				x1 := f.forward[k1Offset]
				y1 := f.offset + x1 - k1Offset
				if x1 >= f.len1-x2 {
					return x1, y1, true
				}
			}
		}
	}
	return 0, 0, false
}

// diffBisect finds the 'middle snake' of a diff, splits the problem in two
// and returns the recursively constructed diff.
func (config *Config) diffBisect(runes1, runes2 []rune, deadline time.Time) []Diff {
	f := newBisectFrontier(runes1, runes2)
	// If the total number of characters is odd, the front path collides
	// with the reverse path; otherwise it's the reverse path that collides
	// with the front one.
	frontOdd := f.delta%2 != 0
	for d := 0; d < f.maxD; d++ {
		if !deadline.IsZero() && d%16 == 0 && time.Now().After(deadline) {
			break
		}
		if x, y, ok := f.stepForward(d, frontOdd); ok {
			return config.diffBisectSplit(runes1, runes2, x, y, deadline)
		}
		if x, y, ok := f.stepReverse(d, !frontOdd); ok {
			return config.diffBisectSplit(runes1, runes2, x, y, deadline)
		}
	}
	// Diff took too long and hit the deadline, or the number of edits equals
	// the number of characters, meaning there's no commonality at all.
	return []Diff{
		{OpDelete, string(runes1)},
		{OpInsert, string(runes2)},
	}
}

func (config *Config) diffBisectSplit(runes1, runes2 []rune, x, y int, deadline time.Time) []Diff {
	runes1a, runes1b := runes1[:x], runes1[x:]
	runes2a, runes2b := runes2[:y], runes2[y:]
	// Compute both diffs serially.
	diffs := config.diffRunes(runes1a, runes2a, false, deadline)
	diffsb := config.diffRunes(runes1b, runes2b, false, deadline)
	return append(diffs, diffsb...)
}

// DiffLinesToChars splits two texts into a list of strings, and reduces the
// texts to a string of hashes where each Unicode character represents one
// line. It's slightly faster to call DiffLinesToRunes first, followed by
// DiffRunes.
func (config *Config) DiffLinesToChars(text1, text2 string) (string, string, []string) {
	chars1, chars2, lineArray := config.diffLinesToStrings(text1, text2)
	return chars1, chars2, lineArray
}

// DiffLinesToRunes splits two texts into a list of runes.
func (config *Config) DiffLinesToRunes(text1, text2 string) ([]rune, []rune, []string) {
	chars1, chars2, lineArray := config.diffLinesToStrings(text1, text2)
	return []rune(chars1), []rune(chars2), lineArray
}

// DiffCharsToLines rehydrates the text in a diff from a string of line
// hashes to real lines of text.
func (config *Config) DiffCharsToLines(diffs []Diff, lineArray []string) []Diff {
	hydrated := make([]Diff, 0, len(diffs))
	for _, d := range diffs {
		chars := strings.Split(d.Text, ",")
		text := make([]string, len(chars))
		for i, r := range chars {
			i1, err := strconv.Atoi(r)
			if err == nil {
				text[i] = lineArray[i1]
			}
		}
		d.Text = strings.Join(text, "")
		hydrated = append(hydrated, d)
	}
	return hydrated
}

// DiffCommonPrefix determines the common prefix length of two strings.
func (config *Config) DiffCommonPrefix(text1, text2 string) int {
	return commonPrefixLength([]rune(text1), []rune(text2))
}

// DiffCommonSuffix determines the common suffix length of two strings.
func (config *Config) DiffCommonSuffix(text1, text2 string) int {
	return commonSuffixLength([]rune(text1), []rune(text2))
}

// DiffCommonOverlap determines if the suffix of one string is the prefix of
// another.
func (config *Config) DiffCommonOverlap(text1 string, text2 string) int {
	// Cache the text lengths to prevent multiple calls.
	text1Length := len(text1)
	text2Length := len(text2)
	// Eliminate the null case.
	if text1Length == 0 || text2Length == 0 {
		return 0
	}
	// Truncate the longer string.
	if text1Length > text2Length {
		text1 = text1[text1Length-text2Length:]
	} else if text1Length < text2Length {
		text2 = text2[0:text1Length]
	}
	textLength := min(text1Length, text2Length)
	// Quick check for the worst case.
	if text1 == text2 {
		return textLength
	}
	// Start by looking for a single character match and increase length
	// until no match is found.
	// Performance analysis: http://neil.fraser.name/news/2010/11/04/
	best := 0
	length := 1
	for {
		pattern := text1[textLength-length:]
		found := strings.Index(text2, pattern)
		if found == -1 {
			break
		}
		length += found
		if found == 0 || text1[textLength-length:] == text2[0:length] {
			best = length
			length++
		}
	}
	return best
}

// DiffHalfMatch checks whether the two texts share a substring which is at
// least half the length of the longer text. This speedup can produce
// non-minimal diffs, and is suppressed whenever DiffTimeout <= 0 (the
// caller asked for an unbounded, optimal diff).
func (config *Config) DiffHalfMatch(text1, text2 string) []string {
	hm := config.diffHalfMatch([]rune(text1), []rune(text2))
	if hm == nil {
		return nil
	}
	return []string{
		string(hm.text1Before), string(hm.text1After),
		string(hm.text2Before), string(hm.text2After),
		string(hm.common),
	}
}

// halfMatch is the oriented result of a successful half-match probe: the
// part of text1 and the part of text2 that fall before the shared middle,
// the parts that fall after it, and the shared middle itself.
type halfMatch struct {
	text1Before, text1After []rune
	text2Before, text2After []rune
	common                  []rune
}

// longShortSplit is the orientation-agnostic form diffHalfMatchI works in,
// keyed to whichever of the two input texts turned out to be longer.
type longShortSplit struct {
	longBefore, longAfter   []rune
	shortBefore, shortAfter []rune
	common                  []rune
}

func (config *Config) diffHalfMatch(text1, text2 []rune) *halfMatch {
	if config.DiffTimeout <= 0 {
		// Don't risk returning a non-optimal diff if we have unlimited time.
		return nil
	}
	text1Longer := len(text1) > len(text2)
	longtext, shorttext := text2, text1
	if text1Longer {
		longtext, shorttext = text1, text2
	}
	if len(longtext) < 4 || len(shorttext)*2 < len(longtext) {
		return nil // Pointless.
	}
	// Seed at the second quarter and again at the third quarter; together
	// the two seeds guarantee that any half-length common substring is
	// found, since it must fully contain at least one of them.
	atQuarter := config.diffHalfMatchI(longtext, shorttext, (len(longtext)+3)/4)
	atHalf := config.diffHalfMatchI(longtext, shorttext, (len(longtext)+1)/2)
	split := atHalf
	switch {
	case atQuarter == nil && atHalf == nil:
		return nil
	case atHalf == nil:
		split = atQuarter
	case atQuarter != nil && len(atQuarter.common) > len(atHalf.common):
		split = atQuarter
	}
	if text1Longer {
		return &halfMatch{split.longBefore, split.longAfter, split.shortBefore, split.shortAfter, split.common}
	}
	return &halfMatch{split.shortBefore, split.shortAfter, split.longBefore, split.longAfter, split.common}
}

// diffHalfMatchI checks if a substring of shorttext exists within longtext
// such that the substring is at least half the length of longtext, seeded
// by a 1/4-length window of longtext starting at i. Returns nil if no
// sufficiently long common middle was found.
func (config *Config) diffHalfMatchI(longtext, shorttext []rune, i int) *longShortSplit {
	seed := longtext[i : i+len(longtext)/4]
	shortWindow := runeWindow(shorttext)
	var best longShortSplit
	var bestLen int
	for j := shortWindow.indexFrom(seed, 0); j != -1; j = shortWindow.indexFrom(seed, j+1) {
		prefixLen := commonPrefixLength(longtext[i:], shorttext[j:])
		suffixLen := commonSuffixLength(longtext[:i], shorttext[:j])
		if candidateLen := suffixLen + prefixLen; bestLen < candidateLen {
			bestLen = candidateLen
			best = longShortSplit{
				longBefore:  longtext[:i-suffixLen],
				longAfter:   longtext[i+prefixLen:],
				shortBefore: shorttext[:j-suffixLen],
				shortAfter:  shorttext[j+prefixLen:],
				common:      append(append([]rune{}, shorttext[j-suffixLen:j]...), shorttext[j:j+prefixLen]...),
			}
		}
	}
	if bestLen*2 < len(longtext) {
		return nil
	}
	return &best
}

// indexStack is a stack of diff indices, used by the semantic and
// efficiency cleanup passes to remember candidate equality positions so
// scanning can resume from the right place after a splice. pop is a no-op
// on an empty stack, so callers can pop unconditionally wherever the
// original algorithm only pops "if there's something left".
type indexStack struct {
	indices []int
}

func (s *indexStack) push(i int) {
	s.indices = append(s.indices, i)
}

func (s *indexStack) pop() {
	if n := len(s.indices); n > 0 {
		s.indices = s.indices[:n-1]
	}
}

func (s *indexStack) clear() {
	s.indices = s.indices[:0]
}

func (s *indexStack) top() (int, bool) {
	if n := len(s.indices); n > 0 {
		return s.indices[n-1], true
	}
	return -1, false
}

// DiffCleanupSemantic reduces the number of edits by eliminating
// semantically trivial equalities, then realigns edits to logical
// boundaries and extracts delete/insert overlaps.
func (config *Config) DiffCleanupSemantic(diffs []Diff) []Diff {
	changes := false
	var equalities indexStack
	var lastequality string
	pointer := 0 // Index of current position.
	// Characters changed before (1) and after (2) the last equality.
	var insBefore, delBefore, insAfter, delAfter int
	for pointer < len(diffs) {
		if diffs[pointer].Op == OpEqual {
			equalities.push(pointer)
			insBefore, delBefore = insAfter, delAfter
			insAfter, delAfter = 0, 0
			lastequality = diffs[pointer].Text
		} else {
			if diffs[pointer].Op == OpInsert {
				insAfter += utf8.RuneCountInString(diffs[pointer].Text)
			} else {
				delAfter += utf8.RuneCountInString(diffs[pointer].Text)
			}
			// Eliminate an equality that is smaller or equal to the edits on
			// both sides of it.
			edgeBefore := max(insBefore, delBefore)
			edgeAfter := max(insAfter, delAfter)
			if eqLen := utf8.RuneCountInString(lastequality); eqLen > 0 &&
				eqLen <= edgeBefore && eqLen <= edgeAfter {
				insPoint, _ := equalities.top()
				diffs = spliceSlice(diffs, insPoint, 0, Diff{OpDelete, lastequality})
				diffs[insPoint+1].Op = OpInsert
				// Throw away the equality we just split, and the one
				// before it, since its edit distances are now stale.
				equalities.pop()
				equalities.pop()
				if top, ok := equalities.top(); ok {
					pointer = top
				} else {
					pointer = -1
				}
				insBefore, delBefore, insAfter, delAfter = 0, 0, 0, 0
				lastequality = ""
				changes = true
			}
		}
		pointer++
	}
	// Normalize the diff.
	if changes {
		diffs = config.DiffCleanupMerge(diffs)
	}
	diffs = config.DiffCleanupSemanticLossless(diffs)
	// Find any overlaps between deletions and insertions.
	// e.g: <del>abcxxx</del><ins>xxxdef</ins>
	//   -> <del>abc</del>xxx<ins>def</ins>
	// e.g: <del>xxxabc</del><ins>defxxx</ins>
	//   -> <ins>def</ins>xxx<del>abc</del>
	// Only extract an overlap if it is as big as the edit ahead or behind it.
	pointer = 1
	for pointer < len(diffs) {
		if diffs[pointer-1].Op == OpDelete &&
			diffs[pointer].Op == OpInsert {
			deletion := diffs[pointer-1].Text
			insertion := diffs[pointer].Text
			overlapLength1 := config.DiffCommonOverlap(deletion, insertion)
			overlapLength2 := config.DiffCommonOverlap(insertion, deletion)
			if overlapLength1 >= overlapLength2 {
				if float64(overlapLength1) >= float64(utf8.RuneCountInString(deletion))/2 ||
					float64(overlapLength1) >= float64(utf8.RuneCountInString(insertion))/2 {
					// Overlap found. Insert an equality and trim the
					// surrounding edits.
					diffs = spliceSlice(diffs, pointer, 0, Diff{OpEqual, insertion[:overlapLength1]})
					diffs[pointer-1].Text =
						deletion[0 : len(deletion)-overlapLength1]
					diffs[pointer+1].Text = insertion[overlapLength1:]
					pointer++
				}
			} else {
				if float64(overlapLength2) >= float64(utf8.RuneCountInString(deletion))/2 ||
					float64(overlapLength2) >= float64(utf8.RuneCountInString(insertion))/2 {
					// Reverse overlap found. Insert an equality and swap
					// and trim the surrounding edits.
					overlap := Diff{OpEqual, deletion[:overlapLength2]}
					diffs = spliceSlice(diffs, pointer, 0, overlap)
					diffs[pointer-1].Op = OpInsert
					diffs[pointer-1].Text = insertion[0 : len(insertion)-overlapLength2]
					diffs[pointer+1].Op = OpDelete
					diffs[pointer+1].Text = deletion[overlapLength2:]
					pointer++
				}
			}
			pointer++
		}
		pointer++
	}
	return diffs
}

// Boundary regexes used by diffCleanupSemanticScore.
var (
	nonAlphaNumericRE = regexp.MustCompile(`[^a-zA-Z0-9]`)
	whitespaceRE      = regexp.MustCompile(`\s`)
	crlfRE            = regexp.MustCompile(`[\r\n]`)
	blankEndRE        = regexp.MustCompile(`\n\r?\n$`)
	blankStartRE      = regexp.MustCompile(`^\r?\n\r?\n`)
)

// diffCleanupSemanticScore computes a score representing whether the
// internal boundary falls on a logical boundary. Scores range from 6
// (best) to 0 (worst).
func diffCleanupSemanticScore(one, two string) int {
	if len(one) == 0 || len(two) == 0 {
		// Edges are the best.
		return 6
	}
	// Each port of this function behaves slightly differently due to
	// subtle differences in each language's definition of things like
	// 'whitespace'. Since this function's purpose is largely cosmetic,
	// the choice has been made to use Go's native regexp semantics
	// rather than force total conformity with every other port.
	rune1, _ := utf8.DecodeLastRuneInString(one)
	rune2, _ := utf8.DecodeRuneInString(two)
	char1 := string(rune1)
	char2 := string(rune2)
	nonAlphaNumeric1 := nonAlphaNumericRE.MatchString(char1)
	nonAlphaNumeric2 := nonAlphaNumericRE.MatchString(char2)
	whitespace1 := nonAlphaNumeric1 && whitespaceRE.MatchString(char1)
	whitespace2 := nonAlphaNumeric2 && whitespaceRE.MatchString(char2)
	lineBreak1 := whitespace1 && crlfRE.MatchString(char1)
	lineBreak2 := whitespace2 && crlfRE.MatchString(char2)
	blankLine1 := lineBreak1 && (blankEndRE.MatchString(one) || blankStartRE.MatchString(one))
	blankLine2 := lineBreak2 && (blankEndRE.MatchString(two) || blankStartRE.MatchString(two))
	if blankLine1 || blankLine2 {
		// Five points for blank lines.
		return 5
	} else if lineBreak1 || lineBreak2 {
		// Four points for line breaks.
		return 4
	} else if nonAlphaNumeric1 && !whitespace1 && whitespace2 {
		// Three points for end of sentences.
		return 3
	} else if whitespace1 || whitespace2 {
		// Two points for whitespace.
		return 2
	} else if nonAlphaNumeric1 || nonAlphaNumeric2 {
		// One point for non-alphanumeric.
		return 1
	}
	return 0
}

// DiffCleanupSemanticLossless looks for single edits surrounded on both
// sides by equalities which can be shifted sideways to align the edit to
// a word boundary. E.g: The c<ins>at c</ins>ame. -> The <ins>cat </ins>came.
func (config *Config) DiffCleanupSemanticLossless(diffs []Diff) []Diff {
	// boundaryScore sums the logical-boundary score on both sides of an
	// edit sitting between left and right.
	boundaryScore := func(left, edit, right string) int {
		return diffCleanupSemanticScore(left, edit) + diffCleanupSemanticScore(edit, right)
	}
	pointer := 1
	// Intentionally ignore the first and last element (don't need checking).
	for pointer < len(diffs)-1 {
		if diffs[pointer-1].Op == OpEqual &&
			diffs[pointer+1].Op == OpEqual {
			// This is a single edit surrounded by equalities.
			equality1 := diffs[pointer-1].Text
			edit := diffs[pointer].Text
			equality2 := diffs[pointer+1].Text
			// First, shift the edit as far left as possible.
			if commonOffset := config.DiffCommonSuffix(equality1, edit); commonOffset > 0 {
				commonString := edit[len(edit)-commonOffset:]
				equality1 = equality1[0 : len(equality1)-commonOffset]
				edit = commonString + edit[:len(edit)-commonOffset]
				equality2 = commonString + equality2
			}
			// Second, step character by character right, looking for the
			// best fit.
			bestEquality1 := equality1
			bestEdit := edit
			bestEquality2 := equality2
			bestScore := boundaryScore(equality1, edit, equality2)
			for len(edit) != 0 && len(equality2) != 0 {
				_, sz := utf8.DecodeRuneInString(edit)
				if len(equality2) < sz || edit[:sz] != equality2[:sz] {
					break
				}
				equality1 += edit[:sz]
				edit = edit[sz:] + equality2[:sz]
				equality2 = equality2[sz:]
				// The >= encourages trailing rather than leading whitespace
				// on edits.
				if score := boundaryScore(equality1, edit, equality2); score >= bestScore {
					bestScore = score
					bestEquality1 = equality1
					bestEdit = edit
					bestEquality2 = equality2
				}
			}
			if diffs[pointer-1].Text != bestEquality1 {
				// We have an improvement, save it back to the diff.
				if len(bestEquality1) != 0 {
					diffs[pointer-1].Text = bestEquality1
				} else {
					diffs = spliceSlice(diffs, pointer-1, 1)
					pointer--
				}
				diffs[pointer].Text = bestEdit
				if len(bestEquality2) != 0 {
					diffs[pointer+1].Text = bestEquality2
				} else {
					diffs = spliceSlice(diffs, pointer+1, 1)
					pointer--
				}
			}
		}
		pointer++
	}
	return diffs
}

// DiffCleanupEfficiency reduces the number of edits by eliminating
// operationally trivial equalities, steered by DiffEditCost.
func (config *Config) DiffCleanupEfficiency(diffs []Diff) []Diff {
	changes := false
	var candidates indexStack
	lastequality := ""
	pointer := 0 // Index of current position.
	// pre* track the insert/delete flags carried by the edit run before the
	// last candidate equality; post* track the run since.
	preIns, preDel, postIns, postDel := false, false, false, false
	for pointer < len(diffs) {
		if diffs[pointer].Op == OpEqual {
			if len(diffs[pointer].Text) < config.DiffEditCost && (postIns || postDel) {
				candidates.push(pointer)
				preIns, preDel = postIns, postDel
				lastequality = diffs[pointer].Text
			} else {
				// Not a candidate, and can never become one: everything
				// seen so far is stale.
				candidates.clear()
				lastequality = ""
			}
			postIns, postDel = false, false
			pointer++
			continue
		}
		// An insertion or deletion.
		if diffs[pointer].Op == OpDelete {
			postDel = true
		} else {
			postIns = true
		}
		// Five shapes get split here:
		// <ins>A</ins><del>B</del>XY<ins>C</ins><del>D</del>
		// <ins>A</ins>X<ins>C</ins><del>D</del>
		// <ins>A</ins><del>B</del>X<ins>C</ins>
		// <ins>A</del>X<ins>C</ins><del>D</del>
		// <ins>A</ins><del>B</del>X<del>C</del>
		flagCount := 0
		for _, flag := range [...]bool{preIns, preDel, postIns, postDel} {
			if flag {
				flagCount++
			}
		}
		if len(lastequality) > 0 &&
			((preIns && preDel && postIns && postDel) ||
				(len(lastequality) < config.DiffEditCost/2 && flagCount == 3)) {
			insPoint, _ := candidates.top()
			diffs = spliceSlice(diffs, insPoint, 0, Diff{OpDelete, lastequality})
			diffs[insPoint+1].Op = OpInsert
			candidates.pop()
			lastequality = ""
			if preIns && preDel {
				// No changes made which could affect the previous entry;
				// keep going as though this equality was a four-way split.
				postIns, postDel = true, true
				candidates.clear()
			} else {
				candidates.pop()
				if top, ok := candidates.top(); ok {
					pointer = top
				} else {
					pointer = -1
				}
				postIns, postDel = false, false
			}
			changes = true
		}
		pointer++
	}
	if changes {
		diffs = config.DiffCleanupMerge(diffs)
	}
	return diffs
}

// mergeEditRun factors the common prefix/suffix out of an adjacent
// delete+insert run ending at pointer and splices the residual DELETE
// and/or INSERT back into diffs as a single segment each, returning the
// updated diffs and the pointer to resume scanning from.
func (config *Config) mergeEditRun(diffs []Diff, pointer, countDelete, countInsert int, textDelete, textInsert []rune) ([]Diff, int) {
	if countDelete != 0 && countInsert != 0 {
		if commonLen := commonPrefixLength(textInsert, textDelete); commonLen != 0 {
			x := pointer - countDelete - countInsert
			if x > 0 && diffs[x-1].Op == OpEqual {
				diffs[x-1].Text += string(textInsert[:commonLen])
			} else {
				diffs = append([]Diff{{OpEqual, string(textInsert[:commonLen])}}, diffs...)
				pointer++
			}
			textInsert = textInsert[commonLen:]
			textDelete = textDelete[commonLen:]
		}
		if commonLen := commonSuffixLength(textInsert, textDelete); commonLen != 0 {
			insertIndex := len(textInsert) - commonLen
			deleteIndex := len(textDelete) - commonLen
			diffs[pointer].Text = string(textInsert[insertIndex:]) + diffs[pointer].Text
			textInsert = textInsert[:insertIndex]
			textDelete = textDelete[:deleteIndex]
		}
	}
	switch {
	case len(textDelete) == 0 && len(textInsert) == 0:
		// Nothing is left of the run: drop it and rescan the equality that
		// followed it, so it merges with the one before the run.
		diffs = spliceSlice(diffs, pointer-countDelete-countInsert, countDelete+countInsert)
		return diffs, pointer - countDelete - countInsert
	case len(textDelete) == 0:
		diffs = spliceSlice(diffs, pointer-countDelete-countInsert, countDelete+countInsert, Diff{OpInsert, string(textInsert)})
	case len(textInsert) == 0:
		diffs = spliceSlice(diffs, pointer-countDelete-countInsert, countDelete+countInsert, Diff{OpDelete, string(textDelete)})
	default:
		diffs = spliceSlice(diffs, pointer-countDelete-countInsert, countDelete+countInsert,
			Diff{OpDelete, string(textDelete)}, Diff{OpInsert, string(textInsert)})
	}
	pointer = pointer - countDelete - countInsert + 1
	if len(textDelete) != 0 {
		pointer++
	}
	if len(textInsert) != 0 {
		pointer++
	}
	return diffs, pointer
}

// DiffCleanupMerge reorders and merges like edit sections. Any edit
// section can move as long as it doesn't cross an equality.
func (config *Config) DiffCleanupMerge(diffs []Diff) []Diff {
	// Add a dummy entry at the end.
	diffs = append(diffs, Diff{OpEqual, ""})
	pointer := 0
	countDelete, countInsert := 0, 0
	var textDelete, textInsert []rune
	for pointer < len(diffs) {
		switch diffs[pointer].Op {
		case OpInsert:
			countInsert++
			textInsert = append(textInsert, []rune(diffs[pointer].Text)...)
			pointer++
		case OpDelete:
			countDelete++
			textDelete = append(textDelete, []rune(diffs[pointer].Text)...)
			pointer++
		case OpEqual:
			// Upon reaching an equality, check for prior redundancies.
			switch {
			case countDelete+countInsert > 1:
				diffs, pointer = config.mergeEditRun(diffs, pointer, countDelete, countInsert, textDelete, textInsert)
			case pointer != 0 && diffs[pointer-1].Op == OpEqual:
				// Merge this equality with the previous one.
				diffs[pointer-1].Text += diffs[pointer].Text
				diffs = spliceSlice(diffs, pointer, 1)
			default:
				pointer++
			}
			countInsert, countDelete = 0, 0
			textDelete, textInsert = nil, nil
		}
	}
	if len(diffs[len(diffs)-1].Text) == 0 {
		diffs = diffs[0 : len(diffs)-1] // Remove the dummy entry at the end.
	}
	diffs, changed := config.shiftEditsOverEqualities(diffs)
	// If shifts were made, the diff needs reordering and another shift
	// sweep.
	if changed {
		diffs = config.DiffCleanupMerge(diffs)
	}
	return diffs
}

// shiftEditsOverEqualities looks for single edits surrounded on both sides
// by equalities which can be shifted sideways to eliminate an equality.
// E.g: A<ins>BA</ins>C -> <ins>AB</ins>AC
func (config *Config) shiftEditsOverEqualities(diffs []Diff) ([]Diff, bool) {
	changed := false
	pointer := 1
	// Intentionally ignore the first and last element (don't need checking).
	for pointer < len(diffs)-1 {
		if diffs[pointer-1].Op == OpEqual && diffs[pointer+1].Op == OpEqual {
			switch {
			case strings.HasSuffix(diffs[pointer].Text, diffs[pointer-1].Text):
				// Shift the edit over the previous equality.
				diffs[pointer].Text = diffs[pointer-1].Text +
					diffs[pointer].Text[:len(diffs[pointer].Text)-len(diffs[pointer-1].Text)]
				diffs[pointer+1].Text = diffs[pointer-1].Text + diffs[pointer+1].Text
				diffs = spliceSlice(diffs, pointer-1, 1)
				changed = true
			case strings.HasPrefix(diffs[pointer].Text, diffs[pointer+1].Text):
				// Shift the edit over the next equality.
				diffs[pointer-1].Text += diffs[pointer+1].Text
				diffs[pointer].Text =
					diffs[pointer].Text[len(diffs[pointer+1].Text):] + diffs[pointer+1].Text
				diffs = spliceSlice(diffs, pointer+1, 1)
				changed = true
			}
		}
		pointer++
	}
	return diffs, changed
}

// DiffXIndex returns the equivalent location in text2 given a location in
// text1, by accumulating non-insert lengths in text1 and non-delete
// lengths in text2 until passing the target.
func (config *Config) DiffXIndex(diffs []Diff, loc int) int {
	chars1 := 0
	chars2 := 0
	lastChars1 := 0
	lastChars2 := 0
	lastDiff := Diff{}
	for i := 0; i < len(diffs); i++ {
		d := diffs[i]
		if d.Op != OpInsert {
			// Equality or deletion.
			chars1 += len(d.Text)
		}
		if d.Op != OpDelete {
			// Equality or insertion.
			chars2 += len(d.Text)
		}
		if chars1 > loc {
			// Overshot the location.
			lastDiff = d
			break
		}
		lastChars1 = chars1
		lastChars2 = chars2
	}
	if lastDiff.Op == OpDelete {
		// The location was deleted.
		return lastChars2
	}
	// Add the remaining character length.
	return lastChars2 + (loc - lastChars1)
}

// DiffPrettyHtml converts a []Diff into a pretty HTML report. It is
// intended as an example from which to write one's own display functions,
// not as a wired dependency of any other operation here.
func (config *Config) DiffPrettyHtml(diffs []Diff) string {
	var buf bytes.Buffer
	for _, d := range diffs {
		text := strings.Replace(html.EscapeString(d.Text), "\n", "&para;<br>", -1)
		switch d.Op {
		case OpInsert:
			_, _ = buf.WriteString("<ins style=\"background:#e6ffe6;\">")
			_, _ = buf.WriteString(text)
			_, _ = buf.WriteString("</ins>")
		case OpDelete:
			_, _ = buf.WriteString("<del style=\"background:#ffe6e6;\">")
			_, _ = buf.WriteString(text)
			_, _ = buf.WriteString("</del>")
		case OpEqual:
			_, _ = buf.WriteString("<span>")
			_, _ = buf.WriteString(text)
			_, _ = buf.WriteString("</span>")
		}
	}
	return buf.String()
}

// DiffPrettyText converts a []Diff into a colored text report.
func (config *Config) DiffPrettyText(diffs []Diff) string {
	var buf bytes.Buffer
	for _, d := range diffs {
		text := d.Text
		switch d.Op {
		case OpInsert:
			_, _ = buf.WriteString("\x1b[32m")
			_, _ = buf.WriteString(text)
			_, _ = buf.WriteString("\x1b[0m")
		case OpDelete:
			_, _ = buf.WriteString("\x1b[31m")
			_, _ = buf.WriteString(text)
			_, _ = buf.WriteString("\x1b[0m")
		case OpEqual:
			_, _ = buf.WriteString(text)
		}
	}
	return buf.String()
}

// DiffText1 computes and returns the source text (all equalities and
// deletions).
func (config *Config) DiffText1(diffs []Diff) string {
	var buf bytes.Buffer
	for _, d := range diffs {
		if d.Op != OpInsert {
			_, _ = buf.WriteString(d.Text)
		}
	}
	return buf.String()
}

// DiffText2 computes and returns the destination text (all equalities and
// insertions).
func (config *Config) DiffText2(diffs []Diff) string {
	var buf bytes.Buffer
	for _, d := range diffs {
		if d.Op != OpDelete {
			_, _ = buf.WriteString(d.Text)
		}
	}
	return buf.String()
}

// DiffLevenshtein computes the Levenshtein distance: the number of
// inserted, deleted, or substituted characters.
func (config *Config) DiffLevenshtein(diffs []Diff) int {
	levenshtein := 0
	insertions := 0
	deletions := 0
	for _, d := range diffs {
		switch d.Op {
		case OpInsert:
			insertions += utf8.RuneCountInString(d.Text)
		case OpDelete:
			deletions += utf8.RuneCountInString(d.Text)
		case OpEqual:
			// A deletion and an insertion is one substitution.
			levenshtein += max(insertions, deletions)
			insertions = 0
			deletions = 0
		}
	}
	levenshtein += max(insertions, deletions)
	return levenshtein
}

// DiffToDelta crushes the diff into an encoded string which describes the
// operations required to transform text1 into text2. E.g. "=3\t-2\t+ing"
// means: keep 3 chars, delete 2 chars, insert "ing". Operations are
// tab-separated; inserted text is escaped using %xx notation.
func (config *Config) DiffToDelta(diffs []Diff) string {
	var buf bytes.Buffer
	for _, d := range diffs {
		switch d.Op {
		case OpInsert:
			_, _ = buf.WriteString("+")
			_, _ = buf.WriteString(strings.Replace(url.QueryEscape(d.Text), "+", " ", -1))
			_, _ = buf.WriteString("\t")
		case OpDelete:
			_, _ = buf.WriteString("-")
			_, _ = buf.WriteString(strconv.Itoa(utf8.RuneCountInString(d.Text)))
			_, _ = buf.WriteString("\t")
		case OpEqual:
			_, _ = buf.WriteString("=")
			_, _ = buf.WriteString(strconv.Itoa(utf8.RuneCountInString(d.Text)))
			_, _ = buf.WriteString("\t")
		}
	}
	delta := buf.String()
	if len(delta) != 0 {
		// Strip off trailing tab character.
		delta = delta[0 : utf8.RuneCountInString(delta)-1]
		delta = unescaper.Replace(delta)
	}
	return delta
}

// DiffFromDelta given the original text1, and an encoded string which
// describes the operations required to transform text1 into text2,
// rebuilds the full diff.
func (config *Config) DiffFromDelta(text1 string, delta string) (diffs []Diff, err error) {
	i := 0
	runes := []rune(text1)
	for _, token := range strings.Split(delta, "\t") {
		if len(token) == 0 {
			// Blank tokens are ok (from a trailing \t).
			continue
		}
		// Each token begins with a one character parameter which specifies
		// the operation of this token (delete, insert, equality).
		param := token[1:]
		switch op := token[0]; op {
		case '+':
			// Decode would turn all "+" into " ".
			param = strings.Replace(param, "+", "%2b", -1)
			param, err = url.QueryUnescape(param)
			if err != nil {
				return nil, fmt.Errorf("%v: %w", err, ErrInvalidEscape)
			}
			if !utf8.ValidString(param) {
				return nil, fmt.Errorf("invalid UTF-8 token %q: %w", param, ErrInvalidEscape)
			}
			diffs = append(diffs, Diff{OpInsert, param})
		case '=', '-':
			n, numErr := strconv.ParseInt(param, 10, 0)
			if numErr != nil {
				return nil, fmt.Errorf("%v: %w", numErr, ErrInvalidLength)
			} else if n < 0 {
				return nil, fmt.Errorf("negative number in delta: %d: %w", n, ErrInvalidLength)
			}
			i += int(n)
			// Break out if we are out of bounds.
			if i > len(runes) {
				break
			}
			// Remember that string slicing is by byte - we want by rune
			// here.
			text := string(runes[i-int(n) : i])
			if op == '=' {
				diffs = append(diffs, Diff{OpEqual, text})
			} else {
				diffs = append(diffs, Diff{OpDelete, text})
			}
		default:
			// Anything else is an error.
			return nil, fmt.Errorf("invalid diff operation %q: %w", string(op), ErrInvalidOperation)
		}
	}
	if i != len(runes) {
		return nil, fmt.Errorf("delta length (%v) is different from source text length (%v): %w", i, len(runes), ErrDeltaLengthMismatch)
	}
	return diffs, nil
}

// diffLinesToStrings splits two texts into a list of strings. Each string
// represents one line.
func (config *Config) diffLinesToStrings(text1, text2 string) (string, string, []string) {
	// '\x00' is a valid character, but various debuggers don't like it. So
	// we'll insert a junk entry to avoid generating a null character.
	lineArray := []string{""} // e.g. lineArray[4] == "Hello\n"
	// Each string has the index of lineArray which it points to.
	strIndexArray1 := config.diffLinesToStringsMunge(text1, &lineArray)
	strIndexArray2 := config.diffLinesToStringsMunge(text2, &lineArray)
	return intArrayToString(strIndexArray1), intArrayToString(strIndexArray2), lineArray
}

// maxLineCode is the highest line code this module will hand out before
// coalescing the remainder of a text into one synthetic "overflow" line.
// Unicode code point U+FFFF (65535) is reserved as a surrogate boundary in
// UTF-16 based ports; staying at or below 65534 keeps this rune stream
// representable in either code-unit model.
const maxLineCode = 65534

// diffLinesToStringsMunge splits a text into an array of strings, and
// reduces the texts to a []uint32 of codes into lineArray. Once lineArray
// would grow past maxLineCode entries, every further distinct line is
// folded into a single shared overflow line so the code stream never
// exceeds the reserved range.
func (config *Config) diffLinesToStringsMunge(text string, lineArray *[]string) []uint32 {
	// Walk the text, pulling out a substring for each line. text.split('\n')
	// would temporarily double our memory footprint. Modifying text would
	// create many large strings to garbage collect.
	lineHash := map[string]int{} // e.g. lineHash["Hello\n"] == 4
	lineStart := 0
	lineEnd := -1
	strs := []uint32{}
	for lineEnd < len(text)-1 {
		lineEnd = indexOf(text, "\n", lineStart)
		if lineEnd == -1 {
			lineEnd = len(text) - 1
		}
		line := text[lineStart : lineEnd+1]
		lineStart = lineEnd + 1
		lineValue, ok := lineHash[line]
		if ok {
			strs = append(strs, uint32(lineValue))
			continue
		}
		if len(*lineArray) >= maxLineCode {
			// Saturated: fold this (and every subsequent new) line into one
			// shared overflow entry rather than handing out a code beyond
			// maxLineCode.
			line = text[lineStart-len(line):]
			lineStart = len(text)
			lineEnd = len(text) - 1
		}
		*lineArray = append(*lineArray, line)
		lineHash[line] = len(*lineArray) - 1
		strs = append(strs, uint32(len(*lineArray)-1))
	}
	return strs
}
