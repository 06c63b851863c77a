package textenc

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Normalizer converts legacy byte sequences to UTF-8 using a fixed
// fallback charset. There is no detection: valid UTF-8 passes through
// untouched, everything else is decoded with the configured single-byte
// encoding. This keeps runs reproducible.
type Normalizer struct {
	decoder *charmap.Charmap
	name    string
}

// DefaultCharset is the fallback applied when none is configured.
// Mis-tagged audiobook metadata in the wild is conventionally
// Windows-1251 Cyrillic.
const DefaultCharset = "windows-1251"

var charsets = map[string]*charmap.Charmap{
	"windows-1251": charmap.Windows1251,
	"cp1251":       charmap.Windows1251,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"koi8-r":       charmap.KOI8R,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-5":   charmap.ISO8859_5,
}

// NewNormalizer builds a normalizer for the named charset. An empty name
// selects DefaultCharset.
func NewNormalizer(charset string) (*Normalizer, error) {
	name := strings.ToLower(strings.TrimSpace(charset))
	if name == "" {
		name = DefaultCharset
	}
	decoder, ok := charsets[name]
	if !ok {
		return nil, fmt.Errorf("encoding.fallback_charset %q: unsupported charset", charset)
	}
	return &Normalizer{decoder: decoder, name: name}, nil
}

// Charset reports the canonical name of the configured fallback.
func (n *Normalizer) Charset() string {
	return n.name
}

// Normalize returns s as valid UTF-8. Already-valid input is returned
// unchanged; anything else is decoded with the fallback charset.
func (n *Normalizer) Normalize(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	decoded, err := n.decoder.NewDecoder().String(s)
	if err != nil {
		// Single-byte decoders do not fail; guard anyway and strip the
		// invalid sequences rather than emit broken UTF-8.
		return strings.ToValidUTF8(s, "�")
	}
	return decoded
}
