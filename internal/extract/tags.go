package extract

import (
	"strings"

	"github.com/gerenciadoc/gerenciadoc/constants"
)

// GenerateTags builds the ordered tag list for a document: the type tag
// always comes first, followed by heuristic tags from the per-type rule
// table. Rules match against the raw (unfolded) text.
func GenerateTags(text string, typ constants.DocumentType) []string {
	tags := []string{string(typ)}
	for _, rule := range constants.TagRules[typ] {
		if strings.Contains(text, rule.Needle) {
			tags = append(tags, rule.Tag)
		}
	}
	return tags
}
