package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type ScenarioRunner interface {
	Run(Scenario) Report
}

type ServerOpts struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	RateRequests int    `mapstructure:"rate_requests"`
	RateTime     int64  `mapstructure:"rate_seconds"`
	RateBurst    int    `mapstructure:"rate_burst"`
}

func (o *ServerOpts) Init() {
	if o.Host == "" {
		o.Host = "127.0.0.1"
	}
	if o.Port == 0 {
		o.Port = 7070
	}
	if o.RateRequests == 0 {
		o.RateRequests = 6
	}
	if o.RateTime == 0 {
		o.RateTime = 60
	}
	if o.RateBurst == 0 {
		o.RateBurst = 1
	}
}

func (o *ServerOpts) GetRatelimit() time.Duration {
	return (time.Duration(o.RateTime) * time.Second) / time.Duration(o.RateRequests)
}

func (o *ServerOpts) GetRateLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(o.GetRatelimit()), o.RateBurst)
}

type Server struct {
	app       *fiber.App
	addr      string
	runner    ScenarioRunner
	catalogue *Catalogue
	limiter   *rate.Limiter
	mu        sync.Mutex // One scenario at a time
}

func NewServer(opts ServerOpts, outputDir string, runner ScenarioRunner, catalogue *Catalogue) *Server {
	opts.Init()
	serv := Server{
		app:       fiber.New(fiber.Config{DisableStartupMessage: true}),
		addr:      fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		runner:    runner,
		catalogue: catalogue,
		limiter:   opts.GetRateLimiter(),
	}

	serv.app.Get("/scenarios", serv.listScenarios)
	serv.app.Post("/scenarios/:name/run", serv.runScenario)
	serv.app.Static("/screenshots", outputDir)

	return &serv
}

func (s *Server) listScenarios(c *fiber.Ctx) error {
	return c.JSON(s.catalogue.All())
}

func (s *Server) runScenario(c *fiber.Ctx) error {
	name := c.Params("name")
	sc, err := s.catalogue.Get(name)
	if err != nil {
		if errors.Is(err, ErrUnknownScenario) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(context.Background()); err != nil {
			logrus.Errorf("Ratelimiter error during %s run: %s", name, err)
		}
	}

	s.mu.Lock()
	report := s.runner.Run(sc)
	s.mu.Unlock()

	if !report.Success {
		logrus.Errorf("Scenario %s failed: %s", name, report.Error)
		return c.Status(fiber.StatusServiceUnavailable).JSON(report)
	}
	return c.JSON(report)
}

func (s *Server) Listen() error {
	logrus.Infof("Listening on %s", s.addr)
	return s.app.Listen(s.addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
