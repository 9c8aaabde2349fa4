package notify

import (
	"regexp"
	"strings"
)

// emailPattern accepts a dotted domain with a 2-4 letter TLD, or a bracketed
// IPv4 literal.
var emailPattern = regexp.MustCompile(`^([\w.-]+)@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.)|(([\w-]+\.)+))([a-zA-Z]{2,4}|[0-9]{1,3})(\]?)$`)

const (
	msgMissingInput = "You must provide search text and your email address."
	msgInvalidEmail = "You must provide a valid email address."
	msgSent         = "Message sent."
	msgRetryLater   = "Some error occurred please try again later."
)

// ValidEmail reports whether address looks like a deliverable email address.
func ValidEmail(address string) bool {
	return emailPattern.MatchString(address)
}

// validate checks the request before any provider or transport is touched.
func validate(searchText, emailAddress string) (Outcome, bool) {
	if strings.TrimSpace(searchText) == "" || strings.TrimSpace(emailAddress) == "" {
		return Outcome{Success: false, Message: msgMissingInput}, false
	}
	if !ValidEmail(strings.TrimSpace(emailAddress)) {
		return Outcome{Success: false, Message: msgInvalidEmail}, false
	}
	return Outcome{}, true
}
