package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jackBcastro/powerapps-layout-api/pkg/media"
	"github.com/jackBcastro/powerapps-layout-api/pkg/prompt"
)

func runAudio(ctx context.Context, args []string, d prompt.Driver) error {
	var common commonFlags
	fs := flag.NewFlagSet("audio", flag.ExitOnError)
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	url, err := askURL(ctx, d, common.url)
	if err != nil {
		return err
	}

	client := media.NewClient(media.WithLogger(newLogger(common.verbose)))
	fmt.Println("Fetching audio streams...")
	streams, err := client.AudioStreams(ctx, url)
	if err != nil {
		return err
	}

	options := make([]string, len(streams))
	for i, stream := range streams {
		options[i] = stream.Description
	}
	idx, err := pick(ctx, d, "Audio stream:", options, common.best)
	if err != nil {
		return err
	}

	path, err := follow(os.Stdout, client.Download(ctx, streams[idx].Handle, common.dest))
	if err != nil {
		return err
	}
	fmt.Printf("Download complete: %s\n", path)
	return nil
}
