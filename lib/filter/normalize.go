package filter

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// cityCorrections maps misspellings found in the survey to canonical names.
var cityCorrections = map[string]string{
	"Khaziabad": "Ghaziabad",
}

// NormalizeCity trims, transliterates to ASCII and corrects known
// misspellings. Applying it twice gives the same result as applying it once.
func NormalizeCity(city string) string {
	city = strings.TrimSpace(city)
	if city == "" {
		return city
	}
	city = strings.TrimSpace(unidecode.Unidecode(city))
	if fixed, ok := cityCorrections[city]; ok {
		return fixed
	}
	return city
}
