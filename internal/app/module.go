package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/smsfactor/internal/otp"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.otp.enabled") {
		if err := otp.New(otp.Dependency{
			CacheConn:  a.cacheConn,
			Router:     a.router,
			Gateway:    a.gateway,
			Generator:  a.generator,
			Bundle:     a.bundle,
			Config:     a.config,
			Instrument: a.ins,
			Clock:      a.clock,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module otp", "error", err)
			os.Exit(1)
		}
	}
}
