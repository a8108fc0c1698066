package dmp

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Patch holds information about a patch.
type Patch struct {
	Diffs   []Diff
	Start1  int
	Start2  int
	Length1 int
	Length2 int
}

// patchCoords formats one half of a patch header as "start,length", with
// the length suppressed when it's 1 (GNU diff's convention) and start
// printed 1-based; for a length of 0, start is printed as given.
func patchCoords(start, length int) string {
	switch length {
	case 0:
		return strconv.Itoa(start) + ",0"
	case 1:
		return strconv.Itoa(start + 1)
	default:
		return strconv.Itoa(start+1) + "," + strconv.Itoa(length)
	}
}

// String satisfies the fmt.Stringer interface.
//
// Generates a string that emulates GNU diff's format like the following:
//
//	Header: @@ -382,8 +481,9 @@
//
// Indices are printed as 1-based, not 0-based.
func (p *Patch) String() string {
	var b strings.Builder
	b.WriteString("@@ -" + patchCoords(p.Start1, p.Length1) + " +" + patchCoords(p.Start2, p.Length2) + " @@\n")
	// Escape the body of the patch with %xx notation.
	for _, d := range p.Diffs {
		switch d.Op {
		case OpInsert:
			b.WriteByte('+')
		case OpDelete:
			b.WriteByte('-')
		case OpEqual:
			b.WriteByte(' ')
		}
		b.WriteString(strings.Replace(url.QueryEscape(d.Text), "+", " ", -1))
		b.WriteByte('\n')
	}
	return unescaper.Replace(b.String())
}

// PatchAddContext increases the context until it is unique, but doesn't let
// the pattern expand beyond MatchMaxBits.
func (config *Config) PatchAddContext(patch Patch, text string) Patch {
	if len(text) == 0 {
		return patch
	}
	pattern := text[patch.Start2 : patch.Start2+patch.Length1]
	padding := 0
	// Grow the pattern while it matches more than one place in text, up to
	// the bit-vector width Match can search.
	for strings.Index(text, pattern) != strings.LastIndex(text, pattern) &&
		len(pattern) < config.MatchMaxBits-2*config.PatchMargin {
		padding += config.PatchMargin
		from := max(0, patch.Start2-padding)
		upto := min(len(text), patch.Start2+patch.Length1+padding)
		pattern = text[from:upto]
	}
	// Add one chunk for good luck.
	padding += config.PatchMargin
	// Add the prefix.
	prefix := text[max(0, patch.Start2-padding):patch.Start2]
	if len(prefix) != 0 {
		patch.Diffs = append([]Diff{{OpEqual, prefix}}, patch.Diffs...)
	}
	// Add the suffix.
	suffix := text[patch.Start2+patch.Length1 : min(len(text), patch.Start2+patch.Length1+padding)]
	if len(suffix) != 0 {
		patch.Diffs = append(patch.Diffs, Diff{OpEqual, suffix})
	}
	// Roll back the start points and extend the lengths.
	patch.Start1 -= len(prefix)
	patch.Start2 -= len(prefix)
	patch.Length1 += len(prefix) + len(suffix)
	patch.Length2 += len(prefix) + len(suffix)
	return patch
}

// PatchMake computes a list of patches. It accepts (diffs []Diff),
// (text1, text2 string), (text1 string, diffs []Diff), or (text1, text2
// string, diffs []Diff) — mirroring the optional-arguments shape of the
// original library's API.
func (config *Config) PatchMake(opt ...interface{}) []Patch {
	if len(opt) == 1 {
		diffs, _ := opt[0].([]Diff)
		text1 := config.DiffText1(diffs)
		return config.PatchMake(text1, diffs)
	} else if len(opt) == 2 {
		text1 := opt[0].(string)
		switch t := opt[1].(type) {
		case string:
			diffs := config.Diff(text1, t, true)
			if len(diffs) > 2 {
				diffs = config.DiffCleanupSemantic(diffs)
				diffs = config.DiffCleanupEfficiency(diffs)
			}
			return config.PatchMake(text1, diffs)
		case []Diff:
			return config.patchMake2(text1, t)
		}
	} else if len(opt) == 3 {
		return config.PatchMake(opt[0], opt[2])
	}
	return []Patch{}
}

// patchMake2 computes a list of patches to turn text1 into text2. text2 is
// not provided, diffs are the delta between text1 and text2.
func (config *Config) patchMake2(text1 string, diffs []Diff) []Patch {
	var patches []Patch
	if len(diffs) == 0 {
		return patches
	}
	var patch Patch
	// pos1/pos2 track how far into prepatchText/postpatchText the scan has
	// reached; prepatchText/postpatchText are text1 (resp. its image under
	// the diffs applied so far) re-derived one patch's worth at a time so
	// PatchAddContext has real surrounding text to work with.
	pos1, pos2 := 0, 0
	prepatchText := text1
	postpatchText := text1
	flush := func() {
		patch = config.PatchAddContext(patch, prepatchText)
		patches = append(patches, patch)
		patch = Patch{}
	}
	for i, d := range diffs {
		if len(patch.Diffs) == 0 && d.Op != OpEqual {
			// A new patch starts here.
			patch.Start1, patch.Start2 = pos1, pos2
		}
		switch d.Op {
		case OpInsert:
			patch.Diffs = append(patch.Diffs, d)
			patch.Length2 += len(d.Text)
			postpatchText = postpatchText[:pos2] + d.Text + postpatchText[pos2:]
		case OpDelete:
			patch.Diffs = append(patch.Diffs, d)
			patch.Length1 += len(d.Text)
			postpatchText = postpatchText[:pos2] + postpatchText[pos2+len(d.Text):]
		case OpEqual:
			if len(d.Text) <= 2*config.PatchMargin && len(patch.Diffs) != 0 && i != len(diffs)-1 {
				// Small equality inside a patch.
				patch.Diffs = append(patch.Diffs, d)
				patch.Length1 += len(d.Text)
				patch.Length2 += len(d.Text)
			}
			if len(d.Text) >= 2*config.PatchMargin && len(patch.Diffs) != 0 {
				// Time for a new patch. Unlike Unidiff, our patch lists
				// have a rolling context: advance the prepatch text and
				// position to reflect the patch just completed.
				flush()
				prepatchText = postpatchText
				pos1 = pos2
			}
		}
		if d.Op != OpInsert {
			pos1 += len(d.Text)
		}
		if d.Op != OpDelete {
			pos2 += len(d.Text)
		}
	}
	// Pick up the leftover patch if not empty.
	if len(patch.Diffs) != 0 {
		flush()
	}
	return patches
}

// PatchDeepCopy returns an array that is identical to a given array of
// patches.
func (config *Config) PatchDeepCopy(patches []Patch) []Patch {
	patchesCopy := []Patch{}
	for _, p := range patches {
		patchCopy := Patch{}
		for _, d := range p.Diffs {
			patchCopy.Diffs = append(patchCopy.Diffs, Diff{d.Op, d.Text})
		}
		patchCopy.Start1 = p.Start1
		patchCopy.Start2 = p.Start2
		patchCopy.Length1 = p.Length1
		patchCopy.Length2 = p.Length2
		patchesCopy = append(patchesCopy, patchCopy)
	}
	return patchesCopy
}

// locatePatch finds where in text a patch's source text now lives, falling
// back to a split leading/trailing probe when the pattern is too wide for
// Match's bit-vector window. endLoc stays -1 unless that fallback ran.
func (config *Config) locatePatch(text, text1 string, expectedLoc int) (startLoc, endLoc int) {
	endLoc = -1
	if len(text1) <= config.MatchMaxBits {
		startLoc, _ = config.Match(text, text1, expectedLoc)
		return startLoc, endLoc
	}
	// PatchSplitMax will only provide an oversized pattern in the case of a
	// monster delete.
	startLoc, _ = config.Match(text, text1[:config.MatchMaxBits], expectedLoc)
	if startLoc == -1 {
		return startLoc, endLoc
	}
	endLoc, _ = config.Match(text, text1[len(text1)-config.MatchMaxBits:], expectedLoc+len(text1)-config.MatchMaxBits)
	if endLoc == -1 || startLoc >= endLoc {
		// Can't find valid trailing context. Drop this patch.
		return -1, endLoc
	}
	return startLoc, endLoc
}

// PatchApply merges a set of patches onto the text. Returns a patched text,
// as well as an array of true/false values indicating which patches were
// applied.
func (config *Config) PatchApply(patches []Patch, text string) (string, []bool) {
	if len(patches) == 0 {
		return text, []bool{}
	}
	// Deep copy the patches so that no changes are made to originals.
	patches = config.PatchDeepCopy(patches)
	nullPadding := config.PatchAddPadding(patches)
	text = nullPadding + text + nullPadding
	patches = config.PatchSplitMax(patches)
	// delta keeps track of the offset between the expected and actual
	// location of the previous patch. If there are patches expected at
	// positions 10 and 20, but the first patch was found at 12, delta is 2
	// and the second patch has an effective expected position of 22.
	delta := 0
	results := make([]bool, len(patches))
	for i, p := range patches {
		expectedLoc := p.Start2 + delta
		text1 := config.DiffText1(p.Diffs)
		startLoc, endLoc := config.locatePatch(text, text1, expectedLoc)
		if startLoc == -1 {
			// No match found. Subtract the delta for this failed patch
			// from subsequent patches.
			results[i] = false
			delta -= p.Length2 - p.Length1
			continue
		}
		results[i] = true
		delta = startLoc - expectedLoc
		var text2 string
		if endLoc == -1 {
			text2 = text[startLoc:min(startLoc+len(text1), len(text))]
		} else {
			text2 = text[startLoc:min(endLoc+config.MatchMaxBits, len(text))]
		}
		if text1 == text2 {
			// Perfect match, just shove the replacement text in.
			text = text[:startLoc] + config.DiffText2(p.Diffs) + text[startLoc+len(text1):]
			continue
		}
		// Imperfect match. Run a diff to get a framework of equivalent
		// indices.
		diffs := config.Diff(text1, text2, false)
		if len(text1) > config.MatchMaxBits && float64(config.DiffLevenshtein(diffs))/float64(len(text1)) > config.PatchDeleteThreshold {
			// The end points match, but the content is unacceptably bad.
			results[i] = false
			continue
		}
		diffs = config.DiffCleanupSemanticLossless(diffs)
		srcIndex := 0
		for _, d := range p.Diffs {
			if d.Op != OpEqual {
				dstIndex := config.DiffXIndex(diffs, srcIndex)
				switch d.Op {
				case OpInsert:
					text = text[:startLoc+dstIndex] + d.Text + text[startLoc+dstIndex:]
				case OpDelete:
					deleteAt := startLoc + dstIndex
					text = text[:deleteAt] + text[deleteAt+config.DiffXIndex(diffs, srcIndex+len(d.Text))-dstIndex:]
				}
			}
			if d.Op != OpDelete {
				srcIndex += len(d.Text)
			}
		}
	}
	// Strip padding.
	return text[len(nullPadding) : len(nullPadding)+(len(text)-2*len(nullPadding))], results
}

// padPatchEnd grows or inserts a nullPadding equality at one end of a patch
// so that locating its boundary can find something to match against.
// atStart selects the front of the patch; otherwise the back is padded.
func padPatchEnd(patch *Patch, nullPadding string, paddingLength int, atStart bool) {
	if atStart {
		if len(patch.Diffs) == 0 || patch.Diffs[0].Op != OpEqual {
			patch.Diffs = append([]Diff{{OpEqual, nullPadding}}, patch.Diffs...)
			patch.Start1 -= paddingLength // Should be 0.
			patch.Start2 -= paddingLength // Should be 0.
			patch.Length1 += paddingLength
			patch.Length2 += paddingLength
			return
		}
		if extra := paddingLength - len(patch.Diffs[0].Text); extra > 0 {
			patch.Diffs[0].Text = nullPadding[len(patch.Diffs[0].Text):] + patch.Diffs[0].Text
			patch.Start1 -= extra
			patch.Start2 -= extra
			patch.Length1 += extra
			patch.Length2 += extra
		}
		return
	}
	last := len(patch.Diffs) - 1
	if last < 0 || patch.Diffs[last].Op != OpEqual {
		patch.Diffs = append(patch.Diffs, Diff{OpEqual, nullPadding})
		patch.Length1 += paddingLength
		patch.Length2 += paddingLength
		return
	}
	if extra := paddingLength - len(patch.Diffs[last].Text); extra > 0 {
		patch.Diffs[last].Text += nullPadding[:extra]
		patch.Length1 += extra
		patch.Length2 += extra
	}
}

// PatchAddPadding adds some padding on text start and end so that edges can
// match something. Intended to be called only from within PatchApply.
func (config *Config) PatchAddPadding(patches []Patch) string {
	paddingLength := config.PatchMargin
	var b strings.Builder
	for x := 1; x <= paddingLength; x++ {
		b.WriteRune(rune(x))
	}
	nullPadding := b.String()
	// Bump all the patches forward.
	for i := range patches {
		patches[i].Start1 += paddingLength
		patches[i].Start2 += paddingLength
	}
	padPatchEnd(&patches[0], nullPadding, paddingLength, true)
	padPatchEnd(&patches[len(patches)-1], nullPadding, paddingLength, false)
	return nullPadding
}

// splitPatchStage is the working state while breaking one oversized patch
// into a run of smaller ones: pos1/pos2 track how far into the original
// source/destination text the next chunk should start, and precontext
// carries the trailing bytes of the previous chunk forward as overlap.
type splitPatchStage struct {
	pos1, pos2 int
	precontext string
	remaining  []Diff
}

// nextSplitChunk peels the leading run off the stage's remaining diffs and
// returns it as a standalone patch sized to fit within patchSize, or
// ok=false once remaining is exhausted.
func (config *Config) nextSplitChunk(stage *splitPatchStage, patchSize int) (chunk Patch, empty bool, ok bool) {
	if len(stage.remaining) == 0 {
		return Patch{}, true, false
	}
	empty = true
	chunk.Start1 = stage.pos1 - len(stage.precontext)
	chunk.Start2 = stage.pos2 - len(stage.precontext)
	if len(stage.precontext) != 0 {
		chunk.Length1 = len(stage.precontext)
		chunk.Length2 = len(stage.precontext)
		chunk.Diffs = append(chunk.Diffs, Diff{OpEqual, stage.precontext})
	}
	for len(stage.remaining) != 0 && chunk.Length1 < patchSize-config.PatchMargin {
		op := stage.remaining[0].Op
		text := stage.remaining[0].Text
		switch {
		case op == OpInsert:
			// Insertions are harmless.
			chunk.Length2 += len(text)
			stage.pos2 += len(text)
			chunk.Diffs = append(chunk.Diffs, stage.remaining[0])
			stage.remaining = stage.remaining[1:]
			empty = false
		case op == OpDelete && len(chunk.Diffs) == 1 && chunk.Diffs[0].Op == OpEqual && len(text) > 2*patchSize:
			// A large deletion: let it pass in one chunk.
			chunk.Length1 += len(text)
			stage.pos1 += len(text)
			empty = false
			chunk.Diffs = append(chunk.Diffs, Diff{op, text})
			stage.remaining = stage.remaining[1:]
		default:
			// Deletion or equality: only take as much as fits.
			text = text[:min(len(text), patchSize-chunk.Length1-config.PatchMargin)]
			chunk.Length1 += len(text)
			stage.pos1 += len(text)
			if op == OpEqual {
				chunk.Length2 += len(text)
				stage.pos2 += len(text)
			} else {
				empty = false
			}
			chunk.Diffs = append(chunk.Diffs, Diff{op, text})
			if text == stage.remaining[0].Text {
				stage.remaining = stage.remaining[1:]
			} else {
				stage.remaining[0].Text = stage.remaining[0].Text[len(text):]
			}
		}
	}
	// Compute the head context for the next chunk.
	stage.precontext = config.DiffText2(chunk.Diffs)
	stage.precontext = stage.precontext[max(0, len(stage.precontext)-config.PatchMargin):]
	// Append the end context for this chunk.
	postcontext := config.DiffText1(stage.remaining)
	if len(postcontext) > config.PatchMargin {
		postcontext = postcontext[:config.PatchMargin]
	}
	if len(postcontext) != 0 {
		chunk.Length1 += len(postcontext)
		chunk.Length2 += len(postcontext)
		if len(chunk.Diffs) != 0 && chunk.Diffs[len(chunk.Diffs)-1].Op == OpEqual {
			chunk.Diffs[len(chunk.Diffs)-1].Text += postcontext
		} else {
			chunk.Diffs = append(chunk.Diffs, Diff{OpEqual, postcontext})
		}
	}
	return chunk, empty, true
}

// PatchSplitMax looks through the patches and breaks up any which are
// longer than the maximum limit of the match algorithm. Intended to be
// called only from within PatchApply.
func (config *Config) PatchSplitMax(patches []Patch) []Patch {
	patchSize := config.MatchMaxBits
	for x := 0; x < len(patches); x++ {
		if patches[x].Length1 <= patchSize {
			continue
		}
		big := patches[x]
		// Remove the big old patch; its replacement chunks splice back in
		// below as nextSplitChunk produces them.
		patches = spliceSlice(patches, x, 1)
		x--
		stage := &splitPatchStage{pos1: big.Start1, pos2: big.Start2, remaining: big.Diffs}
		for {
			chunk, empty, ok := config.nextSplitChunk(stage, patchSize)
			if !ok {
				break
			}
			if !empty {
				x++
				patches = spliceSlice(patches, x, 0, chunk)
			}
		}
	}
	return patches
}

// PatchToText takes a list of patches and returns a textual representation.
func (config *Config) PatchToText(patches []Patch) string {
	var b strings.Builder
	for _, p := range patches {
		b.WriteString(p.String())
	}
	return b.String()
}

var patchHeaderRE = regexp.MustCompile(`^@@ -(\d+),?(\d*) \+(\d+),?(\d*) @@$`)

// parsePatchRange decodes one "start,length" half of a patch header match:
// an empty length field means length 1 (and start shifts to 0-based), a
// literal "0" means length 0 (start left as-is), otherwise start shifts to
// 0-based and length is read directly.
func parsePatchRange(startField, lengthField string) (start, length int) {
	start, _ = strconv.Atoi(startField)
	switch {
	case len(lengthField) == 0:
		return start - 1, 1
	case lengthField == "0":
		return start, 0
	default:
		length, _ = strconv.Atoi(lengthField)
		return start - 1, length
	}
}

// PatchFromText parses a textual representation of patches and returns a
// list of Patch objects.
func (config *Config) PatchFromText(textline string) ([]Patch, error) {
	patches := []Patch{}
	if len(textline) == 0 {
		return patches, nil
	}
	text := strings.Split(textline, "\n")
	textPointer := 0
	for textPointer < len(text) {
		if !patchHeaderRE.MatchString(text[textPointer]) {
			return patches, fmt.Errorf("invalid patch string %q: %w", text[textPointer], ErrInvalidOperation)
		}
		var patch Patch
		m := patchHeaderRE.FindStringSubmatch(text[textPointer])
		patch.Start1, patch.Length1 = parsePatchRange(m[1], m[2])
		patch.Start2, patch.Length2 = parsePatchRange(m[3], m[4])
		textPointer++
		for textPointer < len(text) {
			if len(text[textPointer]) == 0 {
				textPointer++
				continue
			}
			sign := text[textPointer][0]
			line := text[textPointer][1:]
			line = strings.Replace(line, "+", "%2b", -1)
			line, _ = url.QueryUnescape(line)
			switch sign {
			case '-':
				patch.Diffs = append(patch.Diffs, Diff{OpDelete, line})
			case '+':
				patch.Diffs = append(patch.Diffs, Diff{OpInsert, line})
			case ' ':
				patch.Diffs = append(patch.Diffs, Diff{OpEqual, line})
			case '@':
				// Start of next patch.
			default:
				return patches, fmt.Errorf("invalid patch mode %q in %q: %w", string(sign), line, ErrInvalidOperation)
			}
			if sign == '@' {
				break
			}
			textPointer++
		}
		patches = append(patches, patch)
	}
	return patches, nil
}
