// Command mediadl downloads audio streams or full formats of a video.
//
//	mediadl audio   [-url URL] [-dest DIR] [-best]
//	mediadl formats [-url URL] [-dest DIR] [-best] [-credentials FILE] [-token FILE]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/jackBcastro/powerapps-layout-api/pkg/media"
	"github.com/jackBcastro/powerapps-layout-api/pkg/prompt"
)

type commonFlags struct {
	url     string
	dest    string
	best    bool
	verbose bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.url, "url", "", "video URL (prompted when empty)")
	fs.StringVar(&c.dest, "dest", media.DefaultDestDir(), "download directory")
	fs.BoolVar(&c.best, "best", false, "pick the first listed entry without prompting")
	fs.BoolVar(&c.verbose, "v", false, "log retries and requests")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	driver := prompt.NewSurveyDriver(os.Stdout)

	var err error
	switch cmd := os.Args[1]; cmd {
	case "audio":
		err = runAudio(ctx, os.Args[2:], driver)
	case "formats":
		err = runFormats(ctx, os.Args[2:], driver)
	case "-h", "--help", "help":
		usage()
		return
	default:
		usage()
		log.Fatalf("unknown command %q", cmd)
	}
	if errors.Is(err, prompt.ErrAborted) {
		fmt.Println("Cancelled.")
		return
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: mediadl audio|formats [flags]")
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// askURL returns raw when set, otherwise prompts until a valid URL is given.
func askURL(ctx context.Context, d prompt.Driver, raw string) (string, error) {
	if raw != "" {
		if err := media.ValidateURL(raw); err != nil {
			return "", err
		}
		return raw, nil
	}
	return d.Input(ctx, prompt.InputConfig{
		Message:   "Video URL:",
		Validator: media.ValidateURL,
	})
}

// pick returns the first option with best set, otherwise asks.
func pick(ctx context.Context, d prompt.Driver, message string, options []string, best bool) (int, error) {
	if best && len(options) > 0 {
		return 0, nil
	}
	return prompt.Choose(ctx, d, message, options, 0)
}
