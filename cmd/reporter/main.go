package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/catalog"
	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/config"
	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/deliver"
	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/fetch"
	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/locator"
	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/mailbox"
	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/notify"
	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/pipeline"
)

func main() {
	log.Println("Starting Weekly Marketing Data Reporter...")

	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A second signal falls through to the default handler and kills us.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Printf("Received %v, shutting down", sig)
		cancel()
		signal.Stop(sigs)
	}()

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.Gmail.ClientID,
		ClientSecret: cfg.Gmail.ClientSecret,
		Endpoint:     google.Endpoint,
	}
	tokenSource := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.Gmail.RefreshToken})

	gmail := mailbox.NewGmailClient(ctx, tokenSource)
	loc := locator.New(gmail, cfg.Senders)

	// One authenticated session for every download this run.
	session := fetch.NewCookieSession(cfg.Session.Cookies)
	fetcher := fetch.NewFetcher(session, cfg.Fetch.MaxAttempts, cfg.Fetch.Delay())

	catalogs := catalog.NewLoader(nil)
	packager := deliver.NewPackager(cfg.OutputDir)

	notifier, err := notify.NewSESNotifier(ctx, cfg.Notify)
	if err != nil {
		log.Fatalf("Failed to initialize SES: %v", err)
	}

	pl := pipeline.New(cfg, loc, fetcher, catalogs, packager, notifier)

	res, err := pl.Run(ctx)
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	if res.Blocked {
		log.Printf("Run %s blocked: %d brands with unresolved SKUs, deficiency report sent", res.RunID, len(res.Registry.Brands()))
		os.Exit(1)
	}
	log.Printf("Run %s complete: %d reports delivered, %d missing", res.RunID, len(res.Fetched), len(res.Missing))
}
