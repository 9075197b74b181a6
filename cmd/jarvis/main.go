package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lmittmann/tint"
	cli "github.com/spf13/pflag"
	log "log/slog"

	"jarvis/pkg/protocol"
)

func main() {
	defURL := os.Getenv("JARVIS_URL")
	if defURL == "" {
		defURL = "ws://127.0.0.1:5000/ws"
	}
	url := cli.StringP("url", "u", defURL, "Daemon websocket URL")
	debug := cli.BoolP("debug", "d", false, "Debug logging")
	cli.Parse()

	level := log.LevelWarn
	if *debug {
		level = log.LevelDebug
	}
	log.SetDefault(log.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := protocol.Dial(ctx, protocol.Config{
		URL: *url,
		EmitOut: func(f protocol.Frame) {
			fmt.Printf("\n* %s\n> ", f.Text)
		},
	})
	if err != nil {
		log.Error("Failed to connect to daemon", "url", *url, "err", err)
		os.Exit(1)
	}

	go c.Run(ctx)

	// One-shot mode: jarvis open youtube
	if args := cli.Args(); len(args) > 0 {
		os.Exit(ask(ctx, c, strings.Join(args, " ")))
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	fmt.Print("> ")
	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return
		case line, ok := <-lines:
			if !ok {
				stop()
				return
			}
			line = strings.TrimSpace(line)
			switch line {
			case "":
			case "exit", "quit":
				stop()
				return
			default:
				ask(ctx, c, line)
			}
			fmt.Print("> ")
		}
	}
}

func ask(ctx context.Context, c *protocol.Client, text string) int {
	reply, err := c.Ask(ctx, text)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	fmt.Println(reply.Text)
	return 0
}
