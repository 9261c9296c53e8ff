package app

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"
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

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	validator validator.Validator
	clock     clock.Clocker
	uuid      uid.StringID
	generator passcode.Generator
	bundle    *i18n.Bundle

	// resources
	cacheConn *redis.Client
	gateway   smsgw.Gateway

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initCache()
	app.initGateway()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
