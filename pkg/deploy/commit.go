package deploy

import "strings"

// ShortSHALength is the length of the commit_sha input
const ShortSHALength = 7

// ShortSHA returns the lower-cased first ShortSHALength characters of a commit SHA.
func ShortSHA(full string) (string, error) {
	sha := strings.ToLower(strings.TrimSpace(full))
	if len(sha) < ShortSHALength {
		return "", &ValidationError{Field: "commit_sha", Value: full, Reason: "is shorter than 7 characters"}
	}
	for _, r := range sha {
		if !isHex(r) {
			return "", &ValidationError{Field: "commit_sha", Value: full, Reason: "is not hexadecimal"}
		}
	}
	return sha[:ShortSHALength], nil
}

func isHex(r rune) bool {
	return ('0' <= r && r <= '9') || ('a' <= r && r <= 'f')
}
