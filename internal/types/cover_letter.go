package types

import "strings"

// CoverLetter is the assembled plain-text letter. The fixed structural shape
// (header block, date, recipient block, salutation, body, closing, signature)
// is produced deterministically by the generator; only Body comes from the
// model.
type CoverLetter struct {
	Text string `json:"text"`
}

// Paragraphs splits the letter on blank lines. The renderer treats each
// paragraph as its own block.
func (c *CoverLetter) Paragraphs() []string {
	var out []string
	for _, p := range strings.Split(c.Text, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
