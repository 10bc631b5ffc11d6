package docx

import (
	"strconv"
	"strings"
)

// numberingTracker renders the labels Word displays in front of
// automatically numbered paragraphs. Counters belong to the abstract
// definition, so several numbering instances sharing one definition
// continue a single sequence.
type numberingTracker struct {
	abstractNums map[string]*abstractNumXML // abstractNumId -> definition
	numMappings  map[string]string          // numId -> abstractNumId
	counters     map[string]map[int]int     // abstractNumId -> level -> current value
}

// newNumberingTracker creates a tracker from parsed numbering.xml. A nil
// numbering part yields a tracker that never produces labels.
func newNumberingTracker(numbering *numberingXML) *numberingTracker {
	nt := &numberingTracker{
		abstractNums: make(map[string]*abstractNumXML),
		numMappings:  make(map[string]string),
		counters:     make(map[string]map[int]int),
	}

	if numbering == nil {
		return nt
	}

	for i := range numbering.AbstractNums {
		an := &numbering.AbstractNums[i]
		nt.abstractNums[an.AbstractNumID] = an
	}
	for _, num := range numbering.Nums {
		nt.numMappings[num.NumID] = num.AbstractNumID.Val
	}

	return nt
}

// next advances the counter for numID at level and returns the rendered
// label. Bullets and unknown definitions produce "".
func (nt *numberingTracker) next(numID string, level int) string {
	abstractID, ok := nt.numMappings[numID]
	if !ok {
		return ""
	}
	abstractNum, ok := nt.abstractNums[abstractID]
	if !ok {
		return ""
	}
	lvl := findLevel(abstractNum, level)
	if lvl == nil {
		return ""
	}

	counters := nt.counters[abstractID]
	if counters == nil {
		counters = make(map[int]int)
		nt.counters[abstractID] = counters
	}
	if n, seen := counters[level]; seen {
		counters[level] = n + 1
	} else {
		counters[level] = startValue(lvl)
	}
	for l := range counters {
		if l > level {
			delete(counters, l)
		}
	}

	switch lvl.NumFmt.Val {
	case "bullet", "none":
		return ""
	}

	return nt.render(abstractNum, lvl.LvlText.Val, counters)
}

// render substitutes %1..%9 in lvlText with the formatted counter of the
// referenced level.
func (nt *numberingTracker) render(an *abstractNumXML, lvlText string, counters map[int]int) string {
	var sb strings.Builder
	for i := 0; i < len(lvlText); i++ {
		c := lvlText[i]
		if c == '%' && i+1 < len(lvlText) && lvlText[i+1] >= '1' && lvlText[i+1] <= '9' {
			ref := int(lvlText[i+1] - '1')
			i++
			refLvl := findLevel(an, ref)
			if refLvl == nil {
				continue
			}
			n, ok := counters[ref]
			if !ok {
				n = startValue(refLvl)
			}
			sb.WriteString(formatNumber(n, refLvl.NumFmt.Val))
			continue
		}
		sb.WriteByte(c)
	}
	return strings.TrimSpace(sb.String())
}

// findLevel returns the level definition for level, or nil.
func findLevel(an *abstractNumXML, level int) *lvlXML {
	levelStr := strconv.Itoa(level)
	for i := range an.Levels {
		if an.Levels[i].ILvl == levelStr {
			return &an.Levels[i]
		}
	}
	return nil
}

// startValue returns the first value of a level, defaulting to 1.
func startValue(lvl *lvlXML) int {
	if s, err := strconv.Atoi(lvl.Start.Val); err == nil {
		return s
	}
	return 1
}

// formatNumber renders n in the given numFmt. Unknown formats fall back to
// decimal.
func formatNumber(n int, numFmt string) string {
	switch numFmt {
	case "upperLetter":
		return toUpperLetter(n)
	case "lowerLetter":
		return toLowerLetter(n)
	case "upperRoman":
		return toUpperRoman(n)
	case "lowerRoman":
		return toLowerRoman(n)
	case "chineseCounting", "chineseCountingThousand", "ideographTraditional":
		return toChineseCounting(n)
	case "decimalZero":
		if n >= 0 && n < 10 {
			return "0" + strconv.Itoa(n)
		}
	}
	return strconv.Itoa(n)
}

// toLowerLetter converts 1 -> a, 26 -> z, 27 -> aa.
func toLowerLetter(n int) string {
	return strings.ToLower(toUpperLetter(n))
}

// toUpperLetter converts 1 -> A, 26 -> Z, 27 -> AA.
func toUpperLetter(n int) string {
	if n <= 0 {
		return strconv.Itoa(n)
	}
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// toUpperRoman converts n to upper-case Roman numerals.
func toUpperRoman(n int) string {
	if n <= 0 || n >= 4000 {
		return strconv.Itoa(n)
	}
	var sb strings.Builder
	for _, rn := range romanNumerals {
		for n >= rn.value {
			sb.WriteString(rn.symbol)
			n -= rn.value
		}
	}
	return sb.String()
}

// toLowerRoman converts n to lower-case Roman numerals.
func toLowerRoman(n int) string {
	return strings.ToLower(toUpperRoman(n))
}

var chineseDigits = []string{"零", "一", "二", "三", "四", "五", "六", "七", "八", "九"}

// toChineseCounting converts 1..99 to Chinese numerals (一, 十一, 二十三).
// Larger values are rendered in decimal.
func toChineseCounting(n int) string {
	switch {
	case n <= 0 || n >= 100:
		return strconv.Itoa(n)
	case n < 10:
		return chineseDigits[n]
	}

	tens, ones := n/10, n%10
	var sb strings.Builder
	if tens > 1 {
		sb.WriteString(chineseDigits[tens])
	}
	sb.WriteString("十")
	if ones > 0 {
		sb.WriteString(chineseDigits[ones])
	}
	return sb.String()
}

// isRenderableBullet checks if a character will render without a special
// symbol font. Private Use Area and control characters are rejected.
func isRenderableBullet(s string) bool {
	for _, r := range s {
		// Word commonly uses U+F0xx for Symbol/Wingdings characters
		if r >= 0xE000 && r <= 0xF8FF {
			return false
		}
		if r < 0x20 {
			return false
		}
	}
	return len(s) > 0
}
