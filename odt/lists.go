package odt

import (
	"strconv"
	"strings"
)

// listLevel contains the resolved properties of one list style level.
type listLevel struct {
	IsBullet   bool
	NumFormat  string // "1", "a", "A", "i", "I"
	NumPrefix  string
	NumSuffix  string
	StartValue int
}

// listStyles maps list style names to their definitions. Automatic styles
// from content.xml shadow named styles from styles.xml.
type listStyles map[string]*listStyleXML

func newListStyles(content *contentStylesXML, doc *stylesXML) listStyles {
	ls := make(listStyles)
	if doc != nil {
		for _, group := range []*officeStylesXML{doc.Styles, doc.AutoStyles} {
			if group == nil {
				continue
			}
			for i := range group.ListStyles {
				ls[group.ListStyles[i].Name] = &group.ListStyles[i]
			}
		}
	}
	if content != nil {
		for i := range content.ListStyles {
			ls[content.ListStyles[i].Name] = &content.ListStyles[i]
		}
	}
	return ls
}

// level returns the definition of a 1-based level of the named list style.
// Unknown styles and levels resolve to a bullet.
func (ls listStyles) level(name string, level int) listLevel {
	result := listLevel{IsBullet: true, StartValue: 1}

	style, ok := ls[name]
	if !ok {
		return result
	}

	levelStr := strconv.Itoa(level)
	for _, nl := range style.NumberLevels {
		if nl.Level != levelStr {
			continue
		}
		result.IsBullet = false
		result.NumFormat = nl.NumFormat
		result.NumPrefix = nl.NumPrefix
		result.NumSuffix = nl.NumSuffix
		if sv, err := strconv.Atoi(nl.StartValue); err == nil {
			result.StartValue = sv
		}
		return result
	}

	return result
}

// label renders the label of item number n, or "" for bullets and levels
// without a number format.
func (ll listLevel) label(n int) string {
	if ll.IsBullet || ll.NumFormat == "" {
		return ""
	}
	return strings.TrimSpace(ll.NumPrefix + formatListNumber(n, ll.NumFormat) + ll.NumSuffix)
}

// formatListNumber formats a number according to the format type.
func formatListNumber(num int, format string) string {
	switch {
	case format == "a":
		return toLowerLetter(num)
	case format == "A":
		return toUpperLetter(num)
	case format == "i":
		return toLowerRoman(num)
	case format == "I":
		return toUpperRoman(num)
	case strings.HasPrefix(format, "一"):
		return toChineseNumber(num)
	default:
		return strconv.Itoa(num)
	}
}

// toLowerLetter converts a number to lowercase letter (1=a, 2=b, etc.)
func toLowerLetter(n int) string {
	if n < 1 {
		return "a"
	}
	var result []byte
	for n > 0 {
		n--
		result = append([]byte{byte('a' + n%26)}, result...)
		n /= 26
	}
	return string(result)
}

// toUpperLetter converts a number to uppercase letter (1=A, 2=B, etc.)
func toUpperLetter(n int) string {
	return strings.ToUpper(toLowerLetter(n))
}

// toLowerRoman converts a number to lowercase roman numerals.
func toLowerRoman(n int) string {
	return strings.ToLower(toUpperRoman(n))
}

// toUpperRoman converts a number to uppercase roman numerals.
func toUpperRoman(n int) string {
	if n < 1 || n > 3999 {
		return strconv.Itoa(n)
	}

	values := []int{1000, 900, 500, 400, 100, 90, 50, 40, 10, 9, 5, 4, 1}
	symbols := []string{"M", "CM", "D", "CD", "C", "XC", "L", "XL", "X", "IX", "V", "IV", "I"}

	var result strings.Builder
	for i, v := range values {
		for n >= v {
			result.WriteString(symbols[i])
			n -= v
		}
	}
	return result.String()
}

// toChineseNumber converts 1..99 to Chinese numerals; other values are
// rendered in decimal.
func toChineseNumber(n int) string {
	digits := []rune("零一二三四五六七八九")
	switch {
	case n < 1 || n > 99:
		return strconv.Itoa(n)
	case n < 10:
		return string(digits[n])
	}

	var result strings.Builder
	if n/10 > 1 {
		result.WriteRune(digits[n/10])
	}
	result.WriteRune('十')
	if n%10 > 0 {
		result.WriteRune(digits[n%10])
	}
	return result.String()
}
