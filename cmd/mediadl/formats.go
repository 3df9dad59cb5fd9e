package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jackBcastro/powerapps-layout-api/pkg/media"
	"github.com/jackBcastro/powerapps-layout-api/pkg/media/oauthstore"
	"github.com/jackBcastro/powerapps-layout-api/pkg/media/ytdata"
	"github.com/jackBcastro/powerapps-layout-api/pkg/prompt"
)

func runFormats(ctx context.Context, args []string, d prompt.Driver) error {
	var common commonFlags
	fs := flag.NewFlagSet("formats", flag.ExitOnError)
	common.register(fs)
	credentials := fs.String("credentials", "client_secret.json", "OAuth client secrets file")
	tokenPath := fs.String("token", "token.json", "saved OAuth token")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := oauthstore.CheckCredentials(*credentials); err != nil {
		return err
	}
	cfg, err := oauthstore.LoadClientConfig(*credentials)
	if err != nil {
		return err
	}
	httpClient, err := oauthstore.HTTPClient(ctx, cfg, oauthstore.NewStore(*tokenPath))
	if err != nil {
		return err
	}

	url, err := askURL(ctx, d, common.url)
	if err != nil {
		return err
	}
	id, ok := media.ExtractID(url)
	if !ok {
		return media.ErrInvalidURL
	}

	info, err := ytdata.New(httpClient).Video(ctx, id)
	if err != nil {
		return err
	}
	fmt.Println(info.Summary())

	client := media.NewClient(media.WithLogger(newLogger(common.verbose)))
	formats, err := client.Formats(ctx, url)
	if err != nil {
		return err
	}

	options := make([]string, len(formats))
	for i, format := range formats {
		options[i] = format.Name
	}
	idx, err := pick(ctx, d, "Format:", options, common.best)
	if err != nil {
		return err
	}

	path, err := follow(os.Stdout, client.Download(ctx, formats[idx].Handle, common.dest))
	if err != nil {
		return err
	}
	fmt.Printf("Download complete: %s\n", path)
	return nil
}
