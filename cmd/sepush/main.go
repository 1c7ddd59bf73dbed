package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/Adda-Baaj/sepush/internal/config"
	"github.com/Adda-Baaj/sepush/internal/logger"
	"github.com/Adda-Baaj/sepush/pkg/httpclient"
	"github.com/Adda-Baaj/sepush/pkg/sepush"
	"gopkg.in/yaml.v3"
)

const usage = `usage: sepush [flags] <command> [args]

commands:
  status                 national and municipal load shedding status
  allowance              API quota used by the token
  area <id>              schedule and events for an area
  search <text>          search areas by name
  nearby <lat> <long>    areas around a GPS position
  topics <lat> <long>    user topics around a GPS position

flags:
`

// api is the subset of *sepush.Client the commands use.
type api interface {
	Status(ctx context.Context) (sepush.EskomStatus, error)
	CheckAllowance(ctx context.Context) (sepush.AllowanceCheck, error)
	AreaInfo(ctx context.Context, id string) (sepush.AreaInfo, error)
	AreasSearch(ctx context.Context, text string) (sepush.AreaSearch, error)
	AreasNearby(ctx context.Context, lat, long float64) (sepush.AreasNearby, error)
	TopicsNearby(ctx context.Context, lat, long float64) (sepush.TopicsNearby, error)
}

type options struct {
	output   string
	tokenEnv string
	command  string
	args     []string
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "sepush: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	opts, err := parseFlags(args, cfg.TokenEnv, stderr)
	if err != nil {
		return err
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	transport, err := httpclient.New(cfg.Transport, cfg.HTTPTimeout)
	if err != nil {
		return err
	}
	client, err := sepush.NewFromEnv(opts.tokenEnv,
		sepush.WithHTTPClient(transport),
		sepush.WithBaseURL(cfg.BaseURL),
		sepush.WithLogger(log),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out, err := execute(ctx, client, opts.command, opts.args)
	if err != nil {
		return err
	}
	return render(stdout, opts.output, out)
}

func parseFlags(args []string, defaultTokenEnv string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("sepush", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.output, "o", "json", "Output format (json or yaml)")
	fs.StringVar(&opts.tokenEnv, "token-env", defaultTokenEnv, "Environment variable holding the API token")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.output != "json" && opts.output != "yaml" {
		return options{}, fmt.Errorf("unsupported output format %q", opts.output)
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return options{}, errors.New("command required")
	}
	opts.command = fs.Arg(0)
	opts.args = fs.Args()[1:]
	return opts, nil
}

// execute runs one command against c and returns the decoded response.
func execute(ctx context.Context, c api, command string, args []string) (any, error) {
	switch command {
	case "status":
		if err := wantArgs(command, args, 0); err != nil {
			return nil, err
		}
		return c.Status(ctx)
	case "allowance":
		if err := wantArgs(command, args, 0); err != nil {
			return nil, err
		}
		return c.CheckAllowance(ctx)
	case "area":
		if err := wantArgs(command, args, 1); err != nil {
			return nil, err
		}
		return c.AreaInfo(ctx, args[0])
	case "search":
		if err := wantArgs(command, args, 1); err != nil {
			return nil, err
		}
		return c.AreasSearch(ctx, args[0])
	case "nearby", "topics":
		if err := wantArgs(command, args, 2); err != nil {
			return nil, err
		}
		lat, long, err := parseCoordinates(args[0], args[1])
		if err != nil {
			return nil, err
		}
		if command == "nearby" {
			return c.AreasNearby(ctx, lat, long)
		}
		return c.TopicsNearby(ctx, lat, long)
	default:
		return nil, fmt.Errorf("unknown command %q", command)
	}
}

func wantArgs(command string, args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%s expects %d argument(s), got %d", command, n, len(args))
	}
	return nil
}

func parseCoordinates(rawLat, rawLong string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude %q: %w", rawLat, err)
	}
	long, err := strconv.ParseFloat(rawLong, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude %q: %w", rawLong, err)
	}
	return lat, long, nil
}

func render(w io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		// Records carry json tags only; reuse them as the yaml keys.
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}

// exitCode maps error classes onto distinct process exit codes.
func exitCode(err error) int {
	var apiErr *sepush.Error
	if !errors.As(err, &apiErr) {
		return 1
	}
	switch apiErr.Kind.Class() {
	case sepush.ClassValidation, sepush.ClassConfig:
		return 2
	case sepush.ClassTransport:
		return 3
	case sepush.ClassAPI:
		return 4
	default:
		return 1
	}
}
