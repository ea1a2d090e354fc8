package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/famomatic/mp3grab/client"
	"github.com/famomatic/mp3grab/internal/coordinator"
	"github.com/famomatic/mp3grab/internal/downloader"
)

func main() {
	var (
		input   = flag.String("v", "", "YouTube video URL or ID")
		output  = flag.String("o", "", "Output file path (default: sanitized title in current directory)")
		proxy   = flag.String("proxy", "", "Proxy URL")
		timeout = flag.Duration("timeout", 10*time.Minute, "Overall attempt timeout")
	)
	flag.Parse()

	if *input == "" {
		fmt.Println("Usage: mp3grab -v <video_url_or_id> [-o <file>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	c := client.New(client.Config{
		ProxyURL: *proxy,
		Logger:   stderrLogger{},
	})

	coord := coordinator.New(coordinator.Options{
		Provider:       c,
		Opener:         c,
		ExtractVideoID: client.ExtractVideoID,
		SelectPath: func(suggested string) (string, bool) {
			if *output != "" {
				return *output, true
			}
			return suggested, true
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	events, err := coord.Start(ctx, *input)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	for ev := range events {
		switch ev.Kind {
		case downloader.EventProgress:
			if ev.Progress > 0 {
				fmt.Printf("\rDownloading: %5.1f%%", ev.Progress*100)
			}
		case downloader.EventCompleted:
			fmt.Printf("\rSaved: %s\n", ev.Path)
		case downloader.EventFailed:
			fmt.Println()
			log.Fatalf("Download failed: %v", ev.Err)
		}
	}
}

type stderrLogger struct{}

func (stderrLogger) Warnf(format string, args ...any) {
	log.Printf("WARN: "+format, args...)
}
