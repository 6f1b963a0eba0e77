package engine

import "strings"

// "end" and "stop" are left out: they occur inside ordinary answers such
// as "Backend Engineer" or "full-stop".
var exitKeywords = []string{"exit", "quit", "bye", "goodbye", "cancel"}

// revealPhrases are requests, not topics: a technical answer may well
// mention "the correct answer" or "cheating" and must still be recorded.
var revealPhrases = []string{
	"reveal the answer",
	"answer key",
	"show me the answer",
	"give me the answer",
	"tell me the answer",
	"what is the correct answer",
	"what's the correct answer",
	"what is the expected answer",
	"what's the expected answer",
	"let me cheat",
	"help me cheat",
	"cheat sheet",
}

func containsAny(s string, terms []string) bool {
	lower := strings.ToLower(s)
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// IsExit reports whether the utterance asks to leave the interview.
func IsExit(s string) bool { return containsAny(s, exitKeywords) }

// IsRevealRequest reports whether the utterance asks for expected answers.
func IsRevealRequest(s string) bool { return containsAny(s, revealPhrases) }
