package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	rePhone = regexp.MustCompile(`^[0-9 ()+-]{6,20}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9 _.-]{1,64}$`)
	// Media keys are relative storage paths: media/<listing>/<file>.
	reMediaKey = regexp.MustCompile(`^media/[^\x00]{1,200}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePhone.MatchString(s)
}

// ID validates a listing or user identifier.
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// MediaKey validates an opaque storage key before it reaches the filesystem.
// Traversal is rejected here rather than cleaned up later.
func MediaKey(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !reMediaKey.MatchString(s) {
		return "", false
	}
	low := strings.ToLower(s)
	if strings.Contains(low, "..") || strings.Contains(low, "%2e") || strings.HasPrefix(s, "/") {
		return "", false
	}
	return s, true
}

// Name validates a displayable person name.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 80 {
		return "", false
	}
	return s, true
}

// Password enforces the account password policy: 8-20 chars with lower,
// upper, digit and symbol.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 20 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}

// PageParams clamps pagination inputs to sane values.
func PageParams(pageStr, sizeStr string) (page, size int) {
	page, _ = strconv.Atoi(strings.TrimSpace(pageStr))
	if page < 1 {
		page = 1
	}
	size, _ = strconv.Atoi(strings.TrimSpace(sizeStr))
	if size < 1 || size > 100 {
		size = 12
	}
	return page, size
}
