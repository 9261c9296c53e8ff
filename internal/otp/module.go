package otp

import (
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/smsfactor/internal/otp/inbound"
	"github.com/shandysiswandi/smsfactor/internal/otp/outbound/redisstore"
	"github.com/shandysiswandi/smsfactor/internal/otp/usecase"
	"github.com/shandysiswandi/smsfactor/internal/pkg/clock"
	"github.com/shandysiswandi/smsfactor/internal/pkg/config"
	"github.com/shandysiswandi/smsfactor/internal/pkg/i18n"
	"github.com/shandysiswandi/smsfactor/internal/pkg/instrument"
	"github.com/shandysiswandi/smsfactor/internal/pkg/passcode"
	"github.com/shandysiswandi/smsfactor/internal/pkg/router"
	"github.com/shandysiswandi/smsfactor/internal/pkg/smsgw"
	"github.com/shandysiswandi/smsfactor/internal/pkg/validator"
)

type Dependency struct {
	CacheConn  *redis.Client              `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Gateway    smsgw.Gateway              `validate:"required"`
	Generator  passcode.Generator         `validate:"required"`
	Bundle     *i18n.Bundle               `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	store := redisstore.NewStore(dep.CacheConn, dep.Instrument)
	directory := redisstore.NewDirectory(dep.CacheConn, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		Store:      store,
		Directory:  directory,
		Gateway:    dep.Gateway,
		Generator:  dep.Generator,
		Bundle:     dep.Bundle,
		Validator:  dep.Validator,
		Config:     dep.Config,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
