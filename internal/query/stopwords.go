// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"that": true, "this": true, "are": true, "was": true, "were": true,
	"been": true, "have": true, "has": true, "had": true, "not": true,
	"but": true, "its": true, "our": true, "their": true, "these": true,
	"those": true, "into": true, "onto": true, "over": true, "under": true,
	"using": true, "use": true, "used": true, "based": true, "via": true,
	"will": true, "can": true, "also": true, "such": true, "which": true,
	"while": true, "where": true, "when": true, "what": true, "than": true,
	"then": true, "them": true, "they": true, "there": true, "both": true,
	"each": true, "more": true, "most": true, "other": true, "some": true,
	"about": true, "between": true, "through": true, "during": true,
	"project": true, "research": true, "study": true, "work": true,
	"allocation": true, "proposal": true, "approach": true, "new": true,
}

// IsStopWord reports whether w (lowercase) carries no search signal.
func IsStopWord(w string) bool { return stopWords[w] }
