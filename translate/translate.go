// Package translate formats user-facing text for the locale of the host.
package translate

import (
	"errors"
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

// FALLBACK_LOCALE is used when the host reports no locale.
const FALLBACK_LOCALE = "en-US"

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("avrsim: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{FALLBACK_LOCALE}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

// Errorf returns an error whose text is the translation of an en-US format.
func Errorf(key message.Reference, args ...any) error {
	return errors.New(From(key, args...))
}
