package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/retrodesk/internal/client/api"
	"github.com/GriffinCanCode/retrodesk/internal/client/relay"
	"github.com/GriffinCanCode/retrodesk/internal/domain/paint/canvas"
	"github.com/GriffinCanCode/retrodesk/internal/infrastructure/logging"
)

type options struct {
	server  string
	mode    string
	out     string
	origin  string
	quality int
	timeout time.Duration
	verbose bool
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var opts options
	flags := pflag.NewFlagSet("paintsnap", pflag.ContinueOnError)
	flags.StringVarP(&opts.server, "server", "s", "http://localhost:3001", "server base URL")
	flags.StringVarP(&opts.mode, "mode", "m", "ws", "ws replays load_history, rest fetches /paint/history")
	flags.StringVarP(&opts.out, "out", "o", "canvas.png", "output file (.png, .jpg or .jpeg)")
	flags.StringVar(&opts.origin, "origin", "", "Origin header for the WebSocket handshake")
	flags.IntVarP(&opts.quality, "quality", "q", 90, "JPEG quality 1-100")
	flags.DurationVar(&opts.timeout, "timeout", 15*time.Second, "overall deadline")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	if err := flags.Parse(args); err != nil {
		return err
	}

	logger := logging.NewNop()
	if opts.verbose {
		logger = logging.NewDevelopment()
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	replica := canvas.NewReplica()
	if err := fetch(ctx, opts, replica, logger.Component("paintsnap")); err != nil {
		return err
	}

	data, err := encode(replica, opts.out, opts.quality)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.out, err)
	}

	fmt.Printf("%s: %d segments, %d bytes\n", opts.out, replica.Applied(), len(data))
	return nil
}

func fetch(ctx context.Context, opts options, replica *canvas.Replica, logger *zap.Logger) error {
	switch opts.mode {
	case "ws":
		wsURL, err := relayURL(opts.server)
		if err != nil {
			return err
		}
		c := relay.New(replica, relay.Options{URL: wsURL, Origin: opts.origin}, logger)
		return c.Sync(ctx)

	case "rest":
		segs, err := api.New(opts.server, opts.timeout).History(ctx)
		if err != nil {
			return err
		}
		replica.ApplyHistory(segs)
		return nil

	default:
		return fmt.Errorf("unknown mode %q: want ws or rest", opts.mode)
	}
}

// relayURL maps an http(s) base URL onto the relay endpoint
func relayURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid server URL %q: unsupported scheme", base)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/paint/ws"
	return u.String(), nil
}

func encode(replica *canvas.Replica, path string, quality int) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		replica.Do(func(s *canvas.Surface) { data, err = s.PNG() })
	case ".jpg", ".jpeg":
		if quality < 1 || quality > 100 {
			return nil, fmt.Errorf("quality must be 1-100, got %d", quality)
		}
		replica.Do(func(s *canvas.Surface) { data, err = s.JPEG(quality) })
	default:
		return nil, fmt.Errorf("unsupported output format %q", filepath.Ext(path))
	}
	return data, err
}
