package discount

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalizador NFD -> sin marcas diacríticas -> NFC. Los códigos se comparan
// sin distinguir mayúsculas ni tildes ("VERÁNO" aplica a "verano").
var codeNormalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeCode canonicaliza un código de descuento para comparación.
func NormalizeCode(code string) string {
	out, _, err := transform.String(codeNormalizer, code)
	if err != nil {
		out = code
	}
	return strings.ToUpper(strings.TrimSpace(out))
}

// codeSet construye el conjunto canónico de códigos presentados por el cliente.
func codeSet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		if n := NormalizeCode(c); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}
