package service

import "github.com/nandanugg/geopresence/module/presence/domain"

// parseTypedLiteral interprets a configured template value. A bool template
// is true only for the exact text "true"; "TRUE", " true" and "1" are false.
func parseTypedLiteral(tag domain.TypeTag, text string) any {
	if tag == domain.TypeBool {
		return text == "true"
	}
	return text
}
