// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package logging

import (
	"strings"
	"unicode/utf8"
)

// sensitiveKeys are metadata keys whose values are masked by SanitizeValue.
var sensitiveKeys = map[string]bool{
	"access_token":  true,
	"refresh_token": true,
	"id_token":      true,
	"token":         true,
	"password":      true,
	"passwd":        true,
	"secret":        true,
	"client_secret": true,
	"api_key":       true,
	"apikey":        true,
	"authorization": true,
	"bearer":        true,
	"cookie":        true,
	"set-cookie":    true,
	"session":       true,
	"session_id":    true,
	"sessionid":     true,
}

// IsSensitiveKey reports whether values under key should be masked.
func IsSensitiveKey(key string) bool {
	return sensitiveKeys[strings.ToLower(key)]
}

// SanitizeToken masks a token, showing only first and last 4 characters.
// Example: "eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9" -> "eyJh...VCJ9"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeEmail masks an email address.
// Example: "john.doe@example.com" -> "jo***@example.com"
func SanitizeEmail(email string) string {
	if email == "" {
		return ""
	}

	atIndex := strings.Index(email, "@")
	if atIndex <= 0 {
		return "***"
	}

	localPart := email[:atIndex]
	domain := email[atIndex:]

	if len(localPart) <= 2 {
		return "***" + domain
	}
	return localPart[:2] + "***" + domain
}

// SanitizeValue masks a metadata value based on its key name.
// Non-string values under sensitive keys are replaced entirely.
func SanitizeValue(key string, value any) any {
	if !IsSensitiveKey(key) {
		if s, ok := value.(string); ok && strings.EqualFold(key, "email") {
			return SanitizeEmail(s)
		}
		return value
	}
	if s, ok := value.(string); ok {
		return SanitizeToken(s)
	}
	return "***"
}

// Truncate shortens s to at most maxLen bytes, appending "..." when cut.
// The cut never splits a UTF-8 sequence.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := max(maxLen, 0)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
