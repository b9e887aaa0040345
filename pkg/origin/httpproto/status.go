package httpproto

// reasonPhrases holds the exact reason phrase for every status code this
// server emits (§6). Codes outside this table never originate here.
var reasonPhrases = map[int]string{
	200: "OK",
	400: "Bad Request",
	403: "Forbidden",
	404: "Not Found",
	415: "Unsupported Media Type",
	500: "Internal Server Error",
	501: "Not Implemented",
}

// ReasonPhrase returns the reason phrase for code, or "Unknown" if code
// isn't one of the supported statuses.
func ReasonPhrase(code int) string {
	if phrase, ok := reasonPhrases[code]; ok {
		return phrase
	}
	return "Unknown"
}
