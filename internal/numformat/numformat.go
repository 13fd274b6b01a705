// Package numformat formats numbers for people, with the digit grouping and
// decimal separator of a locale.
package numformat

import (
	"math"
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// maxPrecision bounds the fraction digits SigDig will print for tiny values.
const maxPrecision = 15

// Formatter formats numbers for one locale.
type Formatter struct {
	p *message.Printer
}

// New returns a formatter for the given language.
func New(tag language.Tag) *Formatter {
	return &Formatter{p: message.NewPrinter(tag)}
}

// System returns a formatter for the locale named by the environment, falling
// back to English.
func System() *Formatter {
	return New(localeFromEnv(os.Getenv))
}

func localeFromEnv(getenv func(string) string) language.Tag {
	for _, key := range []string{"LC_ALL", "LC_NUMERIC", "LANG"} {
		name := getenv(key)
		if name == "" {
			continue
		}
		if i := strings.IndexAny(name, ".@"); i >= 0 {
			name = name[:i]
		}
		if name == "C" || name == "POSIX" {
			break
		}
		tag, err := language.Parse(strings.ReplaceAll(name, "_", "-"))
		if err != nil {
			break
		}
		return tag
	}
	return language.English
}

// Int formats n with digit grouping, e.g. 12,345.
func (f *Formatter) Int(n int) string {
	return f.p.Sprintf("%d", n)
}

// SigDig formats v with at least dig significant digits. Large values keep
// every integer digit and drop the fraction.
func (f *Formatter) SigDig(v float64, dig int) string {
	return f.p.Sprintf("%.*f", precision(v, dig), v)
}

// precision returns the number of fraction digits that show dig significant
// digits of v.
func precision(v float64, dig int) int {
	if dig <= 0 || v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	num := math.Abs(v)
	least := math.Pow(10, float64(dig-1))
	prec := 0
	for math.Ceil(num) < least && prec < maxPrecision {
		num *= 10
		prec++
	}
	return prec
}
