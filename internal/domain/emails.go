package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var emailValidator = validator.New()

// NormalizeEmail trims surrounding whitespace and lower-cases an address.
// Addresses are compared only in this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether email is a well-formed address under the same
// rule the request validator applies to email fields.
func ValidEmail(email string) bool {
	return emailValidator.Var(email, "required,email") == nil
}

// EmailList is a set of collaborator addresses. In JSON it is accepted either
// as an array of strings or as one comma-separated string.
type EmailList []string

// UnmarshalJSON accepts ["a@x.io","b@x.io"] or "a@x.io, b@x.io".
func (l *EmailList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err == nil {
		*l = splitEmails(joined)
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("%w: collaborators must be a string or an array of strings", ErrValidation)
	}
	*l = EmailList(items)
	return nil
}

func splitEmails(joined string) EmailList {
	if strings.TrimSpace(joined) == "" {
		return EmailList{}
	}
	return EmailList(strings.Split(joined, ","))
}

// Normalize returns the addresses normalized, de-duplicated and sorted, with
// blank entries and the exclude address dropped. Each remaining address must
// pass ValidEmail.
func (l EmailList) Normalize(exclude string) ([]string, error) {
	exclude = NormalizeEmail(exclude)
	seen := make(map[string]struct{}, len(l))
	out := make([]string, 0, len(l))

	for _, raw := range l {
		email := NormalizeEmail(raw)
		if email == "" || email == exclude {
			continue
		}
		if !ValidEmail(email) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
		}
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}

	sort.Strings(out)
	return out, nil
}
