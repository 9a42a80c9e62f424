package extraction

import (
	"regexp"
	"strings"

	"github.com/jonathan/cv-agent/internal/types"
)

// UnknownMarker is what the model is instructed to emit for a field it
// cannot determine from the page.
const UnknownMarker = "[UNKNOWN]"

// sentinelRe matches the positional response protocol used for LLM
// extraction. Positional sentinels survive model formatting drift far
// better than asking for JSON from small models.
var sentinelRe = regexp.MustCompile(`(?s)###\s*Title:\s*(.*?)\s*###\s*Company:\s*(.*?)\s*###\s*JD:\s*(.*?)\s*###\s*END`)

// ParseSentinelResponse parses a model response in the sentinel format.
// Unknown markers map to the placeholder constants. Returns ok=false when
// the response does not contain the sentinel structure at all.
func ParseSentinelResponse(response string) (types.JobInfo, bool) {
	matches := sentinelRe.FindStringSubmatch(response)
	if matches == nil {
		return types.JobInfo{}, false
	}

	return types.JobInfo{
		Title:       fieldOrPlaceholder(matches[1], types.UnknownTitle),
		Company:     fieldOrPlaceholder(matches[2], types.UnknownCompany),
		Description: fieldOrPlaceholder(matches[3], types.UnknownDescription),
	}, true
}

func fieldOrPlaceholder(value, placeholder string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, UnknownMarker) {
		return placeholder
	}
	return value
}
