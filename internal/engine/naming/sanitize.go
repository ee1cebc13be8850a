package naming

import (
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"
)

const (
	// DNSLabelMaxLength is the length limit of Kubernetes object and template names.
	DNSLabelMaxLength = validation.DNS1123LabelMaxLength

	// GenerateNameMaxLength leaves room for the random suffix the API server appends.
	GenerateNameMaxLength = 240

	placeholderPrefix = "x"
)

// SanitizeDNSLabel maps name onto lowercase alphanumerics separated by single
// dashes. A name that would start with a dash gets the "x" placeholder
// prefix; an empty name becomes "x". Length is left to the allocator.
func SanitizeDNSLabel(name string) string {
	s := strings.TrimRight(replaceInvalid(name, isDNSLabelRune), "-")
	switch {
	case s == "":
		return placeholderPrefix
	case s[0] == '-':
		return placeholderPrefix + s
	default:
		return s
	}
}

// SanitizeBoundedDNSLabel is SanitizeDNSLabel cut to DNSLabelMaxLength, for
// names that are not minted through an Allocator.
func SanitizeBoundedDNSLabel(name string) string {
	s := SanitizeDNSLabel(name)
	if len(s) > DNSLabelMaxLength {
		s = strings.TrimRight(s[:DNSLabelMaxLength], "-")
	}
	return s
}

// SanitizeParameterName maps name onto the charset of Argo parameter and
// artifact names, [-a-zA-Z0-9_]. Case is kept; every run of other runes
// becomes one dash. An empty result becomes "x".
func SanitizeParameterName(name string) string {
	s := strings.Trim(replaceRuns(name, isParameterRune), "-")
	if s == "" {
		return placeholderPrefix
	}
	return s
}

// SanitizeGenerateName derives a metadata.generateName from a pipeline name:
// lowercase alphanumerics, dashes and dots, starting with an alphanumeric,
// at most GenerateNameMaxLength bytes and ending with a dash.
func SanitizeGenerateName(name string) string {
	s := strings.Trim(replaceInvalid(name, isGenerateNameRune), "-.")
	if len(s) > GenerateNameMaxLength-1 {
		s = strings.TrimRight(s[:GenerateNameMaxLength-1], "-.")
	}
	if s == "" {
		s = "pipeline"
	}
	return s + "-"
}

func isDNSLabelRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

func isGenerateNameRune(r rune) bool {
	return isDNSLabelRune(r) || r == '.'
}

func isParameterRune(r rune) bool {
	return isDNSLabelRune(r) || (r >= 'A' && r <= 'Z') || r == '-' || r == '_'
}

// replaceInvalid lowercases name and replaces every run of runes rejected by valid with one dash.
func replaceInvalid(name string, valid func(rune) bool) string {
	return replaceRuns(strings.ToLower(name), valid)
}

func replaceRuns(name string, valid func(rune) bool) string {
	var b strings.Builder
	b.Grow(len(name))
	dash := false
	for _, r := range name {
		if valid(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	return b.String()
}
