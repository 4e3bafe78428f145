package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gofiber/fiber/v2"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	assetsctl "github.com/ordanov/datasvc/controller/assets"
	candlesctl "github.com/ordanov/datasvc/controller/candles"
	pairsctl "github.com/ordanov/datasvc/controller/pairs"
	ratesctl "github.com/ordanov/datasvc/controller/rates"
	txctl "github.com/ordanov/datasvc/controller/transactions"
	assetsvc "github.com/ordanov/datasvc/service/assets"
	"github.com/ordanov/datasvc/service/matcher"
	pairsvc "github.com/ordanov/datasvc/service/pairs"
	ratesvc "github.com/ordanov/datasvc/service/rates"
	"github.com/ordanov/datasvc/storage"
	"github.com/ordanov/datasvc/storage/persistence"
)

func main() {
	content, err := os.ReadFile("config.yaml")
	if err != nil {
		log.Error().Err(err).Msg("unable to read configuration file")
		os.Exit(1)
	}

	cfg := Config{}
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		log.Error().Err(err).Msg("unable to parse configuration file")
		os.Exit(1)
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && cfg.LogLevel != "" {
		zerolog.SetGlobalLevel(level)
	}

	if err := New(cfg); err != nil {
		log.Error().Err(err).Msg("unable to initialize application")
		os.Exit(1)
	}
}

func New(cfg Config) error {
	a := Application{cfg: cfg}
	return a.init()
}

type Application struct {
	cfg           Config             // application configuration
	fiberApp      *fiber.App         // underlying fiber application
	db            storage.Storage    // persistence provider
	dbConn        *sql.DB            // underlying persistence connection
	rateCache     ratesvc.Cache      // cache provider for computed rates
	matcherClient *matcher.Client    // matcher order-book client
	estimator     *ratesvc.Estimator // rate estimation core
	assets        *assetsvc.Service  // asset metadata resolver
	pairs         *pairsvc.Service   // pair market data provider
	orderer       *pairsvc.Orderer   // pair canonicalization
	stopC         chan os.Signal     // handle interrupt for clean up(close connections, etc)
}

func (a *Application) init() error {
	a.fiberApp = fiber.New()
	a.stopC = make(chan os.Signal, 1)
	signal.Notify(a.stopC, os.Interrupt)

	connStr := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable",
		a.cfg.DBUsername,
		a.cfg.DBPassword,
		a.cfg.DBHost,
		a.cfg.DBPort,
		a.cfg.DBName,
	)
	log.Debug().Str("host", a.cfg.DBHost).Str("db", a.cfg.DBName).Msg("initialize db connection")

	dbConn, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Error().Err(err).Msg("unable to connect to db")
		return err
	}

	a.dbConn = dbConn
	a.db = persistence.New(dbConn)

	matcherClient, err := matcher.New(a.cfg.MatcherURL, a.cfg.MatcherAPIKey)
	if err != nil {
		log.Error().Err(err).Msg("unable to create matcher client")
		return err
	}
	a.matcherClient = matcherClient

	threshold, err := decimal.NewFromString(a.cfg.RateVolumeThreshold)
	if err != nil {
		log.Error().Err(err).Msg("invalid rate volume threshold")
		return err
	}

	a.assets = assetsvc.New(a.db)
	a.pairs = pairsvc.New(a.db)
	a.rateCache = ratesvc.NewCache()
	a.estimator = ratesvc.NewEstimator(
		a.rateCache,
		a.matcherClient,
		a.pairs,
		a.assets,
		threshold,
		a.cfg.ReferenceAssetID,
	)
	a.orderer = a.loadOrderer()

	a.buildRoutes()
	go a.stop()
	log.Debug().Msg("preparing fiber http server")

	if err := a.fiberApp.Listen(a.cfg.HTTPPort); err != nil {
		log.Error().Err(err).Msg("unable to start http server")
	}

	return nil
}

// loadOrderer fetches the matcher's price-asset priority list; on
// failure pair canonicalization is disabled rather than failing boot.
func (a *Application) loadOrderer() *pairsvc.Orderer {
	ctx, cancelFn := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelFn()

	priceAssets, err := a.matcherClient.Settings(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("unable to load matcher settings, pair ordering disabled")
		return pairsvc.NewOrderer(nil)
	}
	return pairsvc.NewOrderer(priceAssets)
}

func (a *Application) buildRoutes() {
	ratesController := ratesctl.New(a.estimator, a.orderer, a.cfg.DefaultMatcher)
	assetsController := assetsctl.New(a.assets)
	pairsController := pairsctl.New(a.pairs, a.orderer, a.cfg.DefaultMatcher)
	candlesController := candlesctl.New(a.db, a.cfg.DefaultMatcher)
	txController := txctl.New(a.db, a.cfg.DefaultMatcher)

	a.fiberApp.Get("/rates", ratesController.Get)
	a.fiberApp.Post("/matchers/:matcher/rates", ratesController.Mget)
	a.fiberApp.Get("/assets/:id", assetsController.Get)
	a.fiberApp.Get("/assets", assetsController.Mget)
	a.fiberApp.Get("/pairs/:amountAsset/:priceAsset", pairsController.Get)
	a.fiberApp.Get("/pairs", pairsController.MgetOrSearch)
	a.fiberApp.Get("/candles/:amountAsset/:priceAsset", candlesController.Search)
	a.fiberApp.Get("/transactions/exchange", txController.SearchExchange)
}

func (a *Application) stop() {
	<-a.stopC
	a.fiberApp.Shutdown()
	a.dbConn.Close()
	os.Exit(0)
}
