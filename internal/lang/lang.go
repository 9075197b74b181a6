// Package lang tells English, Hindi and Gujarati commands apart and maps
// common Hindi/Gujarati phrases onto their English command equivalents.
package lang

import (
	"sort"
	"strings"
	"unicode"
)

const (
	English  = "en"
	Hindi    = "hi"
	Gujarati = "gu"
)

var keywords = map[string][]string{
	Hindi:    {"समय", "बैटरी", "मदद", "खोलो", "बंद", "चालू", "फाइल", "फोल्डर", "क्या", "है", "करो", "बनाओ"},
	Gujarati: {"સમય", "બેટરી", "મદદ", "ખોલો", "બંધ", "ચાલુ", "ફાઇલ", "ફોલ્ડર", "શું", "છે", "કરો", "બનાવો"},
}

// Detect returns "hi", "gu" or "en". Known keywords win; otherwise the
// dominant script decides.
func Detect(text string) string {
	for _, code := range []string{Hindi, Gujarati} {
		for _, kw := range keywords[code] {
			if strings.Contains(text, kw) {
				return code
			}
		}
	}

	var deva, guj int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Devanagari, r):
			deva++
		case unicode.Is(unicode.Gujarati, r):
			guj++
		}
	}

	switch {
	case deva == 0 && guj == 0:
		return English
	case deva >= guj:
		return Hindi
	default:
		return Gujarati
	}
}

var phrases = map[string]string{
	"समय क्या है":      "what time is it",
	"समय":             "time",
	"आज की तारीख":      "what is today date",
	"तारीख":            "date",
	"बैटरी स्टेटस":     "battery status",
	"बैटरी":            "battery",
	"मदद करो":          "help me",
	"मदद":             "help",
	"मजाक सुनाओ":       "tell me a joke",
	"मजाक":             "joke",
	"खोलो":             "open",
	"बंद करो":          "close",
	"चालू करो":         "start",
	"फाइल बनाओ":        "create file",
	"फोल्डर बनाओ":      "create folder",
	"फाइल डिलीट करो":   "delete file",
	"फोल्डर डिलीट करो": "delete folder",
	"वाईफाई":           "wifi",
	"इंटरनेट":          "internet",
	"फोटो खींचो":       "take photo",
	"आवाज बढ़ाओ":       "volume up",
	"आवाज कम करो":      "volume down",

	"સમય શું છે":      "what time is it",
	"સમય":            "time",
	"આજની તારીખ":      "what is today date",
	"તારીખ":           "date",
	"બેટરી સ્ટેટસ":    "battery status",
	"બેટરી":           "battery",
	"મદદ કરો":         "help me",
	"મદદ":             "help",
	"મજાક કહો":        "tell me a joke",
	"મજાક":            "joke",
	"ખોલો":            "open",
	"બંધ કરો":         "close",
	"ચાલુ કરો":        "start",
	"ફાઇલ બનાવો":      "create file",
	"ફોલ્ડર બનાવો":    "create folder",
	"ફાઇલ ડિલીટ કરો":  "delete file",
	"ફોલ્ડર ડિલીટ કરો": "delete folder",
	"વાઈફાઈ":          "wifi",
	"ઈન્ટરનેટ":        "internet",
	"ફોટો લો":         "take photo",
	"અવાજ વધારો":      "volume up",
	"અવાજ ઘટાડો":      "volume down",
}

// longest first, so a full phrase is replaced before its parts
var phraseOrder = func() []string {
	keys := make([]string, 0, len(phrases))
	for k := range phrases {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// Normalize lowercases text and rewrites known Hindi/Gujarati phrases into
// English.
func Normalize(text string) string {
	out := strings.ToLower(text)
	for _, k := range phraseOrder {
		if strings.Contains(out, k) {
			out = strings.ReplaceAll(out, k, phrases[k])
		}
	}
	return out
}
