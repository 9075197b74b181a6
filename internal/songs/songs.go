// Package songs names a song from a few remembered words by scoring them
// against a small lyrics table.
package songs

import (
	"net/url"
	"regexp"
	"strings"

	"jarvis/internal/config"
)

const youtubeResults = "https://www.youtube.com/results?search_query="

var (
	// ListenPhrases ask the assistant to listen to a song playing nearby.
	ListenPhrases = []string{
		"recognize this song", "what song is this", "identify this song",
		"name this song", "tell me this song", "what is this song",
		"listen to this song", "identify the song", "recognize the song",
	}
	// SingPhrases announce that the user is about to sing.
	SingPhrases = []string{"listen to me sing", "i will sing", "let me sing", "i want to sing"}
	// LyricsPhrases introduce remembered lyrics.
	LyricsPhrases = []string{"play song", "find song", "song with lyrics", "song that goes", "the song goes"}
)

const (
	ListenReply = "I'm ready to listen to the song playing in the background, sir! Please make sure the song is playing clearly and I'll try to identify it. You can also tell me some lyrics like 'the song goes: shape of you' to help me identify it better."
	SingReply   = "I'm ready to listen, sir! Since audio recognition is complex, could you please tell me some lyrics from the song? For example: 'The song goes: shape of you, I'm in love with your body'"
	AskLyrics   = "Please provide some lyrics or say 'let me sing' so I can listen to you, sir."
)

// Match scores every song: +100 when the title appears, +50 for the artist
// and +10 per keyword. The first highest score wins.
func Match(table []config.Song, text string) (config.Song, bool) {
	text = strings.ToLower(text)

	best, bestScore := -1, 0
	for i, s := range table {
		score := 0
		if s.Title != "" && strings.Contains(text, strings.ToLower(s.Title)) {
			score += 100
		}
		if s.Artist != "" && strings.Contains(text, strings.ToLower(s.Artist)) {
			score += 50
		}
		for _, kw := range s.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				score += 10
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	if best < 0 {
		return config.Song{}, false
	}
	return table[best], true
}

// SearchURL is the YouTube results page for query.
func SearchURL(query string) string {
	return youtubeResults + url.QueryEscape(query)
}

// Lyrics returns what follows the first lyrics phrase in cmd, keeping the
// original casing.
func Lyrics(original string) string {
	lower := strings.ToLower(original)
	for _, p := range append(LyricsPhrases, "lyrics") {
		if i := strings.Index(lower, p); i >= 0 {
			return strings.TrimSpace(strings.TrimLeft(original[i+len(p):], " :,-"))
		}
	}
	return strings.TrimSpace(original)
}

var titleRe = regexp.MustCompile(`\b\p{Ll}`)

// Title capitalises each word of a table title.
func Title(s string) string {
	return titleRe.ReplaceAllStringFunc(s, strings.ToUpper)
}

// Recognize resolves lyrics to a reply and the URL to open.
func Recognize(table []config.Song, lyrics string) (reply, link string) {
	if len(strings.TrimSpace(lyrics)) <= 3 {
		return AskLyrics, ""
	}

	if s, ok := Match(table, lyrics); ok {
		search := s.Search
		if search == "" {
			search = s.Artist + " " + s.Title
		}
		return "Found it! Playing '" + Title(s.Title) + "' by " + s.Artist + " on YouTube, sir.", SearchURL(search)
	}

	return "I couldn't identify the exact song, but I've searched YouTube for '" + lyrics + "' to help you find it, sir.",
		SearchURL(lyrics + " lyrics")
}

func ContainsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
