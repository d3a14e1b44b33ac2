// Package security provides secret masking and the first-use disclosure for gitmsg.
package security

import (
	"net"
	"net/url"
	"regexp"
	"strings"
)

// MaskAPIKey masks an API key, showing only the last 4 characters.
// This should be used when logging or displaying API keys.
func MaskAPIKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

// IsSecretKey reports whether a dotted configuration key holds a credential.
func IsSecretKey(key string) bool {
	key = strings.ToLower(key)
	return strings.HasSuffix(key, "api_key") || strings.HasSuffix(key, "apikey")
}

// MaskSettings returns a copy of a nested settings map (as produced by
// viper's AllSettings) with every non-empty credential masked.
func MaskSettings(settings map[string]interface{}) map[string]interface{} {
	return maskSettings("", settings)
}

func maskSettings(prefix string, settings map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(settings))
	for k, v := range settings {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]interface{}:
			out[k] = maskSettings(full, val)
		case string:
			if IsSecretKey(full) && val != "" {
				out[k] = MaskAPIKey(val)
			} else {
				out[k] = val
			}
		default:
			out[k] = v
		}
	}
	return out
}

var logPatterns = []struct {
	regex       *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`sk-[a-zA-Z0-9_-]{20,}`), "sk-****"},
	{regexp.MustCompile(`AIza[0-9A-Za-z_-]{20,}`), "AIza****"},
	{regexp.MustCompile(`Bearer\s+[a-zA-Z0-9._-]+`), "Bearer ****"},
	{regexp.MustCompile(`(?i)(x-api-key)\s*[:=]\s*["']?[a-zA-Z0-9._-]+["']?`), "$1: ****"},
	{regexp.MustCompile(`(?i)(api[_-]?key|apikey|api_secret|secret[_-]?key)\s*[:=]\s*["']?[a-zA-Z0-9._-]+["']?`), "$1=****"},
	{regexp.MustCompile(`([?&]key=)[^&\s"']+`), "${1}****"},
}

// SanitizeForLogging sanitizes a string for safe logging by masking
// API keys, bearer tokens and keys carried in URLs.
func SanitizeForLogging(s string) string {
	result := s
	for _, p := range logPatterns {
		result = p.regex.ReplaceAllString(result, p.replacement)
	}
	return result
}

// SendsDiffOffMachine reports whether the configured provider transmits the
// staged diff to a host other than the local machine. Ollama and custom
// endpoints on a loopback address stay local.
func SendsDiffOffMachine(provider, endpoint string) bool {
	switch provider {
	case "ollama", "custom":
		return !isLoopback(endpoint)
	default:
		return true
	}
}

func isLoopback(endpoint string) bool {
	u, err := url.Parse(endpoint)
	if err != nil || u.Hostname() == "" {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// FirstUseWarning is the notice displayed before the first remote call.
const FirstUseWarning = `
IMPORTANT: gitmsg sends the first 3000 characters of your staged diff to the
configured text-generation provider (OpenAI, Anthropic, Google or a custom
endpoint) to generate a commit message.

Please make sure that:

1. No secrets (API keys, passwords, tokens) are staged
2. You have reviewed your staged changes
3. You use a local provider (Ollama) for sensitive repositories

`

// FirstUseAcknowledgment is the message shown after the user acknowledges the warning.
const FirstUseAcknowledgment = "Thanks. This notice will not be shown again."
