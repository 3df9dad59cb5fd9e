package prompt

import (
	"context"
	"errors"
	"strings"

	"github.com/jackBcastro/powerapps-layout-api/pkg/layout"
)

// LayoutRequest asks for an app purpose, a subset of keywords and any extra
// comma-separated features, in that order.
func LayoutRequest(ctx context.Context, d Driver, keywords []string) (layout.Request, error) {
	if d == nil {
		return layout.Request{}, errors.New("prompt: driver is required")
	}
	purpose, err := d.Input(ctx, InputConfig{
		Message: "What is the app for?",
		Help:    "A short description, e.g. \"Expense approval with navigation\".",
	})
	if err != nil {
		return layout.Request{}, err
	}

	var features []string
	if len(keywords) > 0 {
		picked, err := d.MultiSelect(ctx, SelectConfig{
			Message: "Which features does it need?",
			Options: keywords,
		})
		if err != nil {
			return layout.Request{}, err
		}
		for _, idx := range picked {
			if idx < 0 || idx >= len(keywords) {
				return layout.Request{}, ErrInvalidSelection
			}
			features = append(features, keywords[idx])
		}
	}

	extra, err := d.Input(ctx, InputConfig{
		Message: "Other features (comma separated, optional):",
	})
	if err != nil {
		return layout.Request{}, err
	}
	features = append(features, SplitList(extra)...)
	if features == nil {
		features = []string{}
	}
	return layout.Request{Purpose: purpose, Features: features}, nil
}

// Choose asks for one of options and returns its index. A single option is
// returned without prompting.
func Choose(ctx context.Context, d Driver, message string, options []string, defaultIndex int) (int, error) {
	if len(options) == 0 {
		return -1, ErrNoOptions
	}
	if len(options) == 1 {
		return 0, nil
	}
	if d == nil {
		return -1, errors.New("prompt: driver is required")
	}
	idx, err := d.Select(ctx, SelectConfig{
		Message:      message,
		Options:      options,
		DefaultIndex: defaultIndex,
		PageSize:     10,
	})
	if err != nil {
		return -1, err
	}
	if idx < 0 || idx >= len(options) {
		return -1, ErrInvalidSelection
	}
	return idx, nil
}

// SplitList splits a comma-separated list, dropping blank entries and the
// whitespace around each entry.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
