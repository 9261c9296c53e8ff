package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/shandysiswandi/smsfactor/internal/pkg/clock"
	"github.com/shandysiswandi/smsfactor/internal/pkg/config"
	"github.com/shandysiswandi/smsfactor/internal/pkg/i18n"
	"github.com/shandysiswandi/smsfactor/internal/pkg/instrument"
	"github.com/shandysiswandi/smsfactor/internal/pkg/passcode"
	"github.com/shandysiswandi/smsfactor/internal/pkg/router"
	"github.com/shandysiswandi/smsfactor/internal/pkg/smsgw"
	"github.com/shandysiswandi/smsfactor/internal/pkg/uid"
	"github.com/shandysiswandi/smsfactor/internal/pkg/validator"
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          true,
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	switch format := a.config.GetString("modules.otp.code_format"); format {
	case "numeric":
		a.generator = passcode.NewNumeric(a.config.GetInt("modules.otp.code_length"))
	default:
		a.generator = passcode.NewDictation()
	}

	opts := []i18n.Option{}
	if v := strings.TrimSpace(a.config.GetString("i18n.fallback")); v != "" {
		opts = append(opts, i18n.WithFallback(v))
	}
	for locale, tmpl := range a.config.GetMap("i18n.sms_text") {
		opts = append(opts, i18n.WithMessages(locale, map[string]string{
			i18n.KeySMSText: tmpl,
		}))
	}
	a.bundle = i18n.NewBundle(opts...)
}

func (a *App) initCache() {
	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
}

func (a *App) initGateway() {
	driver := a.config.GetString("sms.driver")
	gw, err := smsgw.NewFromDriver(driver, smsgw.FactoryOptions{
		GatewayAPI: smsgw.GatewayAPIConfig{
			APIKey:   strings.TrimSpace(a.config.GetString("sms.gatewayapi.api_key")),
			Sender:   strings.TrimSpace(a.config.GetString("sms.gatewayapi.sender")),
			Endpoint: strings.TrimSpace(a.config.GetString("sms.gatewayapi.endpoint")),
			Timeout:  a.config.GetSecond("sms.gatewayapi.timeout_seconds"),
		},
	})
	if err != nil {
		slog.Error("failed to init sms gateway", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.gateway = gw
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Gateway",
			fn: func(context.Context) error {
				return a.gateway.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				return a.cacheConn.Close()
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
