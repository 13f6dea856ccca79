package extract

import (
	"strings"

	"github.com/gerenciadoc/gerenciadoc/constants"
)

// Classify maps raw document text to a document type. The text is folded
// once, then each type in constants.ClassificationOrder is checked for at
// least constants.KeywordThreshold keyword hits; the first to reach the
// threshold wins. No cross-type scoring or tie-breaking beyond the fixed
// order. Falls back to "outro".
func Classify(text string) constants.DocumentType {
	folded := Fold(text)
	for _, typ := range constants.ClassificationOrder {
		if keywordHits(folded, constants.Keywords[typ]) >= constants.KeywordThreshold {
			return typ
		}
	}
	return constants.TypeOutro
}

func keywordHits(folded string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(folded, kw) {
			n++
		}
	}
	return n
}
