package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/lmittmann/tint"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"jarvis/internal/assistant"
	"jarvis/internal/audio"
	"jarvis/internal/config"
	"jarvis/internal/fileops"
	"jarvis/internal/ipc"
	"jarvis/internal/jarvis"
	"jarvis/internal/lang"
	"jarvis/internal/locator"
	"jarvis/internal/notify"
	"jarvis/internal/places"
	"jarvis/internal/proxy"
	"jarvis/internal/scheduler"
	"jarvis/internal/server"
	"jarvis/internal/sysinfo"
	"jarvis/internal/system"
	"jarvis/internal/tts"
	"jarvis/internal/voice"
	"jarvis/pkg/protocol"
	"jarvis/pkg/stt"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	configPath := cli.StringP("config", "c", "jarvis.yaml", "Config file path")
	listenAddr := cli.StringP("listen", "a", "127.0.0.1:5000", "HTTP listen address")
	proxyAddr := cli.StringP("proxy", "p", "", "Socks proxy address for outbound requests")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	modelPath := cli.StringP("model", "m", "", "Whisper model path (default $JARVIS_WHISPER_MODEL)")
	noSpeech := cli.Bool("no-speech", false, "Do not speak replies")
	socketPath := cli.String("socket", ipc.DefaultSocketPath(), "Control socket path")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	if err := godotenv.Load(*envFile); err != nil {
		log.Debug("No env file", "path", *envFile, "err", err)
	}

	store, err := config.NewStore(*configPath)
	if err != nil {
		log.Error("Failed to load config", "path", *configPath, "err", err)
		os.Exit(1)
	}
	cfg := store.Get()

	log.Debug("Loaded config", "path", *configPath)

	httpClient, err := proxy.NewHTTPClient(*proxyAddr, cfg.AssistantTimeout())
	if err != nil {
		log.Error("Failed to dial socks proxy", "proxy", *proxyAddr, "err", err)
		os.Exit(1)
	}

	goos := runtime.GOOS
	home, err := os.UserHomeDir()
	if err != nil {
		log.Error("Failed to find home directory", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var llm assistant.Completer
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		opts := []option.RequestOption{
			option.WithAPIKey(apiKey),
			option.WithHTTPClient(httpClient),
		}
		if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
			opts = append(opts, option.WithBaseURL(base))
		}
		llm = assistant.NewOpenAIChat(openai.NewClient(opts...), cfg.Assistant)
		log.Debug("Loaded chat model", "model", cfg.Assistant.Model)
	} else {
		log.Warn("OPENAI_API_KEY not set, answering from built-ins only")
	}

	responder := assistant.NewResponder(store.Get,
		assistant.WithCompleter(llm),
		assistant.WithWikipedia(assistant.NewWikipedia(cfg.Assistant.WikiURL, httpClient)),
	)
	translator := lang.NewTranslator(llm)

	var speaker *tts.Speaker
	if !*noSpeech && cfg.Speech.Enabled {
		var opts []tts.Option
		if cfg.Speech.Duck && goos == "linux" {
			opts = append(opts, tts.WithDucker(audio.NewDucker([]string{"espeak", "say"}, 20, nil)))
		}
		speaker = tts.NewSpeaker(newEngine(goos, cfg.Speech), opts...)
		defer speaker.Close()
		log.Debug("Loaded speech engine")
	}

	notifier := notify.Default(goos)
	caps := system.Detect(goos)
	log.Info("Capabilities", "available", caps.Available())

	p := places.Known(home, goos)
	loc := locator.New(locator.DefaultRoots(p, home, goos), nil)
	trash, trashDir := fileops.DefaultTrash(home, goos, time.Now)
	files := fileops.New(p, loc, loc.Cache(),
		fileops.WithOpener(caps.Opener),
		fileops.WithCamera(caps.Camera),
		fileops.WithScreen(caps.Screen),
		fileops.WithTrash(trash, trashDir),
	)

	var srv *server.Server
	sched := scheduler.New(func(title, message string) {
		if err := notifier.Notify(context.Background(), title, message); err != nil {
			log.Debug("Notification failed", "err", err)
		}
		if speaker != nil {
			speaker.Say(message, lang.English)
		}
		if srv != nil {
			srv.Hub().Broadcast(protocol.Frame{Kind: protocol.KindEvent, Text: message, Language: lang.English})
		}
	})

	deps := jarvis.Deps{
		Config:    store,
		Locator:   loc,
		Files:     files,
		Caps:      caps,
		GOOS:      goos,
		Responder: responder,
		Volume:    audio.NewMixer(goos, 10, nil),
		Status:    sysinfo.NewCollector(goos),
		Scheduler: sched,
		Notifier:  notifier,
	}
	if speaker != nil {
		deps.Speaker = speaker
	}
	if clip := (jarvis.SystemClipboard{}); clip.Available() {
		deps.Clipboard = clip
	}
	router := jarvis.New(deps)

	v, closeVoice := loadVoice(*modelPath, notifier)
	defer closeVoice()

	sdeps := server.Deps{
		Router:     router,
		Files:      files,
		Locator:    loc,
		Caps:       caps,
		Translator: translator,
		Responder:  responder,
		Voice:      v,
		Status:     deps.Status,
		Songs:      func() []config.Song { return store.Get().Songs },
	}
	if speaker != nil {
		sdeps.Speaker = speaker
	}
	srv = server.New(sdeps)

	if _, err := ipc.Listen(ctx, *socketPath, control(router, v, speaker)); err != nil {
		log.Error("Failed ipc server", "socket", *socketPath, "err", err)
		os.Exit(1)
	}

	log.Info("Boot up - successful", "listen", *listenAddr, "socket", *socketPath)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(gctx, *listenAddr)
	})
	g.Go(func() error {
		if err := store.Watch(gctx); err != nil {
			log.Warn("Config watch stopped", "err", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Daemon stopped", "err", err)
		os.Exit(1)
	}
	log.Info("Shut down")
}

// loadVoice sets up speech recognition. Missing pieces only disable the
// endpoints that need them.
func loadVoice(modelPath string, notifier notify.Notifier) (*voice.Voice, func()) {
	if modelPath == "" {
		modelPath = os.Getenv("JARVIS_WHISPER_MODEL")
	}

	var (
		tr      voice.Transcriber
		cleanup []func()
	)
	if modelPath != "" {
		whisper, err := stt.NewTranscriber(modelPath)
		if err != nil {
			log.Warn("Failed to init whisper", "model", modelPath, "err", err)
		} else {
			tr = whisper
			cleanup = append(cleanup, func() { whisper.Close() })
			log.Debug("Loaded whisper", "model", modelPath)
		}
	} else {
		log.Warn("No whisper model configured, voice input disabled")
	}

	opts := []voice.Option{
		voice.WithNotifier(notifier),
		voice.WithChime(notify.NewChime(os.Getenv("JARVIS_CHIME"))),
	}

	rec := audio.NewRecorder()
	if err := rec.Init(); err != nil {
		log.Warn("Failed to init audio", "err", err)
	} else {
		opts = append(opts, voice.WithRecorder(rec))
		cleanup = append(cleanup, rec.Close)
		log.Debug("Loaded recorder")
	}

	return voice.New(tr, opts...), func() {
		for _, f := range cleanup {
			f()
		}
	}
}

func control(router *jarvis.Router, v *voice.Voice, speaker *tts.Speaker) ipc.Handler {
	return func(ctx context.Context, msg ipc.ControlMessage) ipc.Reply {
		switch msg.Cmd {
		case ipc.CmdSay:
			reply := router.Route(ctx, msg.Text)
			return ipc.Reply{OK: true, Response: reply.Text}

		case ipc.CmdListen:
			text, err := v.Listen(ctx)
			if err != nil {
				log.Warn("Listen failed", "err", err)
				return ipc.Reply{Error: err.Error()}
			}
			log.Info("Heard", "text", text)
			reply := router.Route(ctx, text)
			return ipc.Reply{OK: true, Response: reply.Text}

		case ipc.CmdStop:
			if speaker != nil {
				speaker.Stop()
			}
			return ipc.Reply{OK: true}

		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
			return ipc.Reply{Error: "unknown command " + msg.Cmd}
		}
	}
}
