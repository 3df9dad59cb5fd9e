package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackBcastro/powerapps-layout-api/pkg/media"
	"github.com/jackBcastro/powerapps-layout-api/pkg/prompt"
)

type stubDriver struct {
	inputs  []string
	selects []int
	asked   int
}

func (s *stubDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	s.asked++
	if len(s.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[0]
	s.inputs = s.inputs[1:]
	if cfg.Validator != nil {
		if err := cfg.Validator(val); err != nil {
			return "", err
		}
	}
	return val, nil
}

func (s *stubDriver) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	return false, errors.New("no confirm scripted")
}

func (s *stubDriver) Select(context.Context, prompt.SelectConfig) (int, error) {
	s.asked++
	if len(s.selects) == 0 {
		return -1, errors.New("no select scripted")
	}
	val := s.selects[0]
	s.selects = s.selects[1:]
	return val, nil
}

func (s *stubDriver) MultiSelect(context.Context, prompt.SelectConfig) ([]int, error) {
	return nil, errors.New("no multiselect scripted")
}

func (s *stubDriver) Info(context.Context, string) error { return nil }

func TestAskURL(t *testing.T) {
	ctx := context.Background()

	t.Run("flag value skips prompt", func(t *testing.T) {
		d := &stubDriver{}
		got, err := askURL(ctx, d, "https://youtu.be/dQw4w9WgXcQ")
		if err != nil || got != "https://youtu.be/dQw4w9WgXcQ" || d.asked != 0 {
			t.Fatalf("got %q, %v (asked %d)", got, err, d.asked)
		}
	})

	t.Run("invalid flag value", func(t *testing.T) {
		_, err := askURL(ctx, &stubDriver{}, "https://example.com/video")
		if !errors.Is(err, media.ErrInvalidURL) {
			t.Fatalf("expected ErrInvalidURL, got %v", err)
		}
	})

	t.Run("prompted", func(t *testing.T) {
		d := &stubDriver{inputs: []string{"https://www.youtube.com/watch?v=dQw4w9WgXcQ"}}
		got, err := askURL(ctx, d, "")
		if err != nil || d.asked != 1 || !strings.Contains(got, "dQw4w9WgXcQ") {
			t.Fatalf("got %q, %v (asked %d)", got, err, d.asked)
		}
	})
}

func TestPick(t *testing.T) {
	ctx := context.Background()
	options := []string{"160kbps - audio/webm", "128kbps - audio/mp4"}

	d := &stubDriver{}
	if idx, err := pick(ctx, d, "Stream:", options, true); err != nil || idx != 0 || d.asked != 0 {
		t.Fatalf("best: idx=%d err=%v asked=%d", idx, err, d.asked)
	}

	d = &stubDriver{selects: []int{1}}
	if idx, err := pick(ctx, d, "Stream:", options, false); err != nil || idx != 1 {
		t.Fatalf("select: idx=%d err=%v", idx, err)
	}

	if _, err := pick(ctx, &stubDriver{}, "Stream:", nil, true); !errors.Is(err, prompt.ErrNoOptions) {
		t.Fatalf("expected ErrNoOptions, got %v", err)
	}
}

func TestFollow(t *testing.T) {
	events := make(chan media.Progress, 4)
	events <- media.Progress{Downloaded: 500, Total: 1000}
	events <- media.Progress{Downloaded: 500, Total: 1000}
	events <- media.Progress{Downloaded: 1000, Total: 1000, Done: true, Path: "/tmp/a.webm"}
	close(events)

	var b strings.Builder
	path, err := follow(&b, events)
	if err != nil || path != "/tmp/a.webm" {
		t.Fatalf("got %q, %v", path, err)
	}
	out := b.String()
	if strings.Count(out, " 50%") != 1 {
		t.Fatalf("expected a single 50%% line:\n%q", out)
	}
	if !strings.HasSuffix(out, "100% (1.0 kB)\n") {
		t.Fatalf("unexpected final line:\n%q", out)
	}
}

func TestFollow_Error(t *testing.T) {
	events := make(chan media.Progress, 1)
	events <- media.Progress{Err: media.ErrFormatNotFound}
	close(events)

	if _, err := follow(&strings.Builder{}, events); !errors.Is(err, media.ErrFormatNotFound) {
		t.Fatalf("expected ErrFormatNotFound, got %v", err)
	}
}
