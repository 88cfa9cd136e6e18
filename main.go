package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smazurov/blinknode/cmd"
	"github.com/smazurov/blinknode/internal/api"
	"github.com/smazurov/blinknode/internal/config"
	"github.com/smazurov/blinknode/internal/events"
	"github.com/smazurov/blinknode/internal/led"
	"github.com/smazurov/blinknode/internal/logging"
	"github.com/smazurov/blinknode/internal/metrics"
	"github.com/smazurov/blinknode/internal/netwait"
	"github.com/smazurov/blinknode/internal/page"
	"github.com/smazurov/blinknode/internal/pattern"
	"github.com/smazurov/blinknode/internal/router"
	"github.com/smazurov/blinknode/internal/server"
	"github.com/smazurov/blinknode/internal/systemd"
	"github.com/smazurov/blinknode/ui"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port         string `help:"Address for the LED control page" short:"p" default:":80" toml:"server.port" env:"SERVER_PORT"`
	TickInterval string `help:"Pattern tick interval" default:"500ms" toml:"server.tick_interval" env:"SERVER_TICK_INTERVAL"`
	ReadTimeout  string `help:"Per-connection read timeout, 0 waits forever" default:"10s" toml:"server.read_timeout" env:"SERVER_READ_TIMEOUT"`

	// Assets settings
	AssetsDir      string `help:"Directory with the page template and static files (empty uses the embedded ones)" default:"" toml:"assets.dir" env:"ASSETS_DIR"`
	AssetsTemplate string `help:"Page template file name" default:"index.html" toml:"assets.template" env:"ASSETS_TEMPLATE"`
	AssetsWatch    bool   `help:"Reload the template when it changes on disk" default:"true" toml:"assets.watch" env:"ASSETS_WATCH"`

	// Driver settings
	DriverKind       string `help:"Channel driver (auto, gpio, sysfs, memory)" default:"auto" toml:"driver.kind" env:"DRIVER_KIND"`
	DriverChip       string `help:"GPIO chip name" default:"gpiochip0" toml:"driver.chip" env:"DRIVER_CHIP"`
	DriverLines      string `help:"GPIO line offsets for led2, led4, led16" default:"2,4,16" toml:"driver.lines" env:"DRIVER_LINES"`
	DriverSysfsNames string `help:"sysfs LED names for led2, led4, led16" default:"led2,led4,led16" toml:"driver.sysfs_names" env:"DRIVER_SYSFS_NAMES"`

	// Network settings
	NetworkInterface   string `help:"Interface that must have an address before serving (empty = any)" default:"" toml:"network.interface" env:"NETWORK_INTERFACE"`
	NetworkWaitTimeout string `help:"How long to wait for an address, 0 waits forever" default:"0" toml:"network.wait_timeout" env:"NETWORK_WAIT_TIMEOUT"`

	// Admin API settings
	AdminAddr    string `help:"Admin API address (empty disables)" default:":8090" toml:"admin.addr" env:"ADMIN_ADDR"`
	AdminService string `help:"systemd unit reported by /api/service (empty disables)" default:"" toml:"admin.service" env:"ADMIN_SERVICE"`

	// Logging settings
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingServer  string `help:"Event loop logging level" default:"info" toml:"logging.server" env:"LOGGING_SERVER"`
	LoggingRouter  string `help:"Router logging level" default:"info" toml:"logging.router" env:"LOGGING_ROUTER"`
	LoggingLED     string `help:"Channel driver logging level" default:"info" toml:"logging.led" env:"LOGGING_LED"`
	LoggingAPI     string `help:"Admin API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingNetwait string `help:"Network wait logging level" default:"info" toml:"logging.netwait" env:"LOGGING_NETWAIT"`
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Load configuration automatically
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(loggingConfig(opts))
		logger := logging.GetLogger("main")

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})

		hooks.OnStart(func() {
			defer close(done)
			if runErr := run(ctx, opts, logger); runErr != nil {
				logger.Error("blinknode stopped", "error", runErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down")
			cancel()
			select {
			case <-done:
			case <-time.After(5 * time.Second):
				logger.Warn("Shutdown timed out")
			}
		})
	})

	cli.Root().AddCommand(cmd.CreateValidateTemplateCmd())
	cli.Root().AddCommand(cmd.CreateVersionCmd())

	cli.Run()
}

// loggingConfig merges logging.<module> keys from the config file with
// the explicit per-module options, which win.
func loggingConfig(opts *Options) logging.Config {
	cfg := config.LoadLoggingConfig(opts.Config)
	cfg.Level = opts.LoggingLevel
	cfg.Format = opts.LoggingFormat
	for module, level := range map[string]string{
		"server":  opts.LoggingServer,
		"router":  opts.LoggingRouter,
		"led":     opts.LoggingLED,
		"api":     opts.LoggingAPI,
		"netwait": opts.LoggingNetwait,
	} {
		if level != "" {
			cfg.Modules[module] = level
		}
	}
	return cfg
}

// run wires the service together and blocks until ctx is cancelled or
// the event loop fails.
func run(ctx context.Context, opts *Options, logger *slog.Logger) error {
	tick, err := parseDuration("server.tick_interval", opts.TickInterval)
	if err != nil {
		return err
	}
	readTimeout, err := parseDuration("server.read_timeout", opts.ReadTimeout)
	if err != nil {
		return err
	}
	waitTimeout, err := parseDuration("network.wait_timeout", opts.NetworkWaitTimeout)
	if err != nil {
		return err
	}

	ip, err := netwait.Wait(ctx, opts.NetworkInterface, waitTimeout, logging.GetLogger("netwait"))
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("wait for network: %w", err)
	}
	logger.Info("Network is up", "ip", ip.String())

	driverCfg, err := driverConfig(opts)
	if err != nil {
		return err
	}
	drv, err := led.New(driverCfg, logging.GetLogger("led"))
	if err != nil {
		return fmt.Errorf("open channel driver: %w", err)
	}
	defer func() {
		if closeErr := drv.Close(); closeErr != nil {
			logger.Warn("Failed to close channel driver", "error", closeErr)
		}
	}()

	engine, err := pattern.New(drv)
	if err != nil {
		return fmt.Errorf("initialize channels: %w", err)
	}

	var assetFS fs.FS
	if opts.AssetsDir != "" {
		assetFS = os.DirFS(opts.AssetsDir)
	} else {
		logger.Info("Using embedded page assets")
		assetFS = ui.Assets()
	}

	info := page.CurrentSystemInfo()
	renderer, err := page.Load(assetFS, opts.AssetsTemplate, info)
	if err != nil {
		return err
	}

	rt := router.New(engine, renderer, assetFS, logging.GetLogger("router"))

	eventBus := events.New()
	stopLogs := eventBus.PublishLogs()
	defer stopLogs()
	recorder := metrics.NewRecorder(eventBus)
	defer recorder.Stop()

	srv := server.New(server.Options{
		Addr:         opts.Port,
		TickInterval: tick,
		ReadTimeout:  readTimeout,
	}, engine, rt, eventBus, logging.GetLogger("server"))

	if opts.AssetsWatch && opts.AssetsDir != "" {
		templatePath := filepath.Join(opts.AssetsDir, opts.AssetsTemplate)
		watcher := config.NewWatcher(templatePath, page.Loader(assetFS, opts.AssetsTemplate, info),
			srv.Reload, logging.GetLogger("watcher"))
		if startErr := watcher.Start(); startErr != nil {
			logger.Warn("Template watcher disabled", "error", startErr)
		} else {
			defer func() { _ = watcher.Stop() }()
		}
	}

	if opts.AdminAddr != "" {
		adminSrv := newAdminServer(ctx, opts, eventBus, logger)
		go func() {
			if startErr := adminSrv.Start(opts.AdminAddr); startErr != nil {
				logger.Error("Admin API server failed", "error", startErr)
			}
		}()
		defer func() {
			if stopErr := adminSrv.Stop(); stopErr != nil {
				logger.Error("Error stopping admin API server", "error", stopErr)
			}
		}()
	}

	loopErr := make(chan error, 1)
	go func() { loopErr <- srv.Run(ctx) }()

	select {
	case <-srv.Ready():
		systemd.NotifyReady(logger)
	case err := <-loopErr:
		return err
	}

	err = <-loopErr
	systemd.NotifyStopping(logger)
	return err
}

func newAdminServer(ctx context.Context, opts *Options, bus *events.Bus, logger *slog.Logger) *api.Server {
	apiOpts := &api.Options{
		EventBus:          bus,
		PrometheusHandler: promhttp.Handler(),
	}

	if opts.AdminService != "" {
		mgr, err := systemd.NewManager(ctx)
		if err != nil {
			logger.Warn("systemd status unavailable", "error", err)
		} else {
			context.AfterFunc(ctx, mgr.Close)
			apiOpts.ServiceManager = mgr
			apiOpts.ServiceName = opts.AdminService
		}
	}

	return api.NewServer(apiOpts)
}

func driverConfig(opts *Options) (led.Config, error) {
	cfg := led.DefaultConfig()
	cfg.Kind = opts.DriverKind
	cfg.Chip = opts.DriverChip

	lines, err := led.ParseLines(opts.DriverLines)
	if err != nil {
		return cfg, fmt.Errorf("driver.lines: %w", err)
	}
	cfg.Lines = lines

	if opts.DriverSysfsNames != "" {
		names, err := led.ParseNames(opts.DriverSysfsNames)
		if err != nil {
			return cfg, fmt.Errorf("driver.sysfs_names: %w", err)
		}
		cfg.SysfsNames = names
	}
	return cfg, nil
}

func parseDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: negative duration %s", key, value)
	}
	return d, nil
}
