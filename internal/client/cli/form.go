package cli

import (
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/hoteldesk/internal/client/documents"
	"github.com/dmitrijs2005/hoteldesk/internal/client/models"
	"github.com/dmitrijs2005/hoteldesk/internal/client/validate"
	"github.com/dmitrijs2005/hoteldesk/internal/timex"
)

var relationships = []string{"spouse", "child", "parent", "sibling", "friend", "colleague", "other"}

// askDefault prompts until check accepts the answer; Enter keeps current.
func (a *App) askDefault(prompt, current string, transform func(string) string, check func(string) error) (string, error) {
	for {
		s, err := GetWithDefault(a.reader, prompt, current, a.out)
		if err != nil {
			return "", err
		}
		if transform != nil {
			s = transform(s)
		}
		if err := check(s); err != nil {
			a.println(describe(err))
			continue
		}
		return s, nil
	}
}

// askOptional is askDefault for fields that may stay blank.
func (a *App) askOptional(prompt, current string, transform func(string) string, check func(string) error) (string, error) {
	return a.askDefault(prompt, current, transform, func(s string) error {
		if s == "" {
			return nil
		}
		return check(s)
	})
}

// askDocument reads an identity document from a path. A blank answer
// skips it.
func (a *App) askDocument(prompt string) (*models.DocumentFile, error) {
	for {
		path, err := GetSimpleText(a.reader, prompt+" (file path, blank to skip)", a.out)
		if err != nil {
			return nil, err
		}
		if path == "" {
			return nil, nil
		}
		f, err := documents.LoadFile(path)
		if err != nil {
			a.println(describe(err))
			continue
		}
		return &f, nil
	}
}

func checkRent(s string) error {
	if _, err := parseRent(s); err != nil {
		return validate.ValidationErrors{{Field: "rent", Message: "must be a non-negative number"}}
	}
	return nil
}

func parseRent(s string) (float64, error) {
	s = strings.TrimPrefix(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), "₹")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, strconv.ErrRange
	}
	return v, nil
}

func checkDate(s string) error {
	if _, err := timex.ParseDate(s, time.Local); err != nil {
		return validate.ValidationErrors{{Field: "date", Message: "use YYYY-MM-DD"}}
	}
	return nil
}

func formatRent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
