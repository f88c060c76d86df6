package validation

import (
	"net"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxStoredQuestionLength caps normalised questions kept for analytics.
const MaxStoredQuestionLength = 200

// ValidateQuestion checks a chat question before it is matched.
// Returns false and a user-facing message when the question is rejected.
func ValidateQuestion(question string, maxLength int) (bool, string) {
	if strings.TrimSpace(question) == "" {
		return false, "Please enter a question"
	}

	if !utf8.ValidString(question) {
		return false, "Question contains invalid characters"
	}

	if maxLength > 0 && utf8.RuneCountInString(question) > maxLength {
		return false, "Question is too long"
	}

	for _, r := range question {
		if unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r' {
			return false, "Question contains invalid characters"
		}
	}

	return true, ""
}

// NormalizeQuestion lowercases a question and collapses whitespace so that
// repeats of the same unanswered question are counted together.
func NormalizeQuestion(question string) string {
	q := strings.Join(strings.Fields(strings.ToLower(question)), " ")
	if utf8.RuneCountInString(q) > MaxStoredQuestionLength {
		q = string([]rune(q)[:MaxStoredQuestionLength])
	}
	return q
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
// This prevents javascript:, data:, vbscript:, and other dangerous URL schemes.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	// Parse the URL
	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	// Check scheme - only allow http and https
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	// Ensure host is present
	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// ValidateSampleIndex checks that n selects one of count sample questions.
func ValidateSampleIndex(n, count int) bool {
	return n >= 0 && n < count
}

// metadataIPs are cloud instance metadata endpoints (AWS/GCP, Azure).
var metadataIPs = []net.IP{
	net.ParseIP("169.254.169.254"),
	net.ParseIP("168.63.129.16"),
}

// IsPrivateIP reports whether ip is loopback, private, link-local,
// unspecified or a cloud metadata address.
func IsPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}
	for _, m := range metadataIPs {
		if ip.Equal(m) {
			return true
		}
	}
	return false
}

// ValidateURLForLinkCheck validates a knowledge base URL before the link
// checker requests it. Hosts that resolve to a private address are refused.
func ValidateURLForLinkCheck(urlStr string) (bool, string) {
	if valid, msg := ValidateURL(urlStr); !valid {
		return false, msg
	}

	u, _ := url.Parse(urlStr)
	hostname := u.Hostname()
	if ip := net.ParseIP(hostname); ip != nil {
		if IsPrivateIP(ip) {
			return false, "URL points to a private or reserved IP address"
		}
		return true, ""
	}

	ips, err := net.LookupIP(hostname)
	if err != nil {
		return false, "Cannot resolve hostname"
	}
	for _, ip := range ips {
		if IsPrivateIP(ip) {
			return false, "URL points to a private or reserved IP address"
		}
	}
	return true, ""
}
