package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// How many leading characters of the local part stay readable in log output.
const obfuscatedLength = 2

// Setup configures the global zerolog logger for the given environment.
// Dev gets a human console writer at debug level, everything else gets
// JSON at info level.
func Setup(envState string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if envState == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.DebugLevel)
		return
	}
	log.Logger = log.Level(zerolog.InfoLevel)
}

// ObfuscateEmail masks the local part of an email address so addresses never
// land in logs verbatim: "johndoe@example.com" -> "jo*****@example.com".
// Strings that do not look like an email are returned unchanged.
func ObfuscateEmail(email string) string {
	first, last, ok := strings.Cut(email, "@")
	if !ok || len(first) <= obfuscatedLength {
		return email
	}
	return first[:obfuscatedLength] + strings.Repeat("*", len(first)-obfuscatedLength) + "@" + last
}
