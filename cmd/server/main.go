package main

import (
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"euchre-server/internal/config"
	"euchre-server/internal/mux"
	"euchre-server/pkg/persist"
	"euchre-server/pkg/playable/euchre"
	"euchre-server/pkg/room"
	"euchre-server/pkg/storage"

	"github.com/gorilla/handlers"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", "", "the listen address (overrides the configuration)")

func main() {
	flag.Parse()
	setupLogger()

	cfg := config.Instance()

	listenAddr := cfg.Address
	if *addr != "" {
		listenAddr = *addr
	}

	store := newStore(cfg)
	options := euchre.Options{
		TargetScore:   cfg.Game.TargetScore,
		NextHandDelay: time.Second * time.Duration(cfg.Game.NextHandDelay),
	}

	pitBoss := room.NewPitBoss(logrus.StandardLogger(), store, options)
	pitBoss.StartShift()

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	})

	srv := &http.Server{
		Addr:         listenAddr,
		Handler:      handlers.CombinedLoggingHandler(os.Stdout, c.Handler(mux.NewMux(Version, pitBoss))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	logrus.WithField("addr", srv.Addr).Info("listening")
	logrus.Fatal(srv.ListenAndServe())
}

// newStore builds the session store. Without a Redis address, sessions only
// survive within the process.
func newStore(cfg config.Config) *persist.Store {
	if cfg.Redis.Address == "" {
		logrus.Info("no redis configured; sessions are stored in memory")
		return persist.NewStore(storage.NewMemory(), 0)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	logrus.WithField("addr", cfg.Redis.Address).Info("using redis session store")
	return persist.NewStore(storage.NewRedis(client), 0)
}

func setupLogger() {
	if lvl := config.Instance().LogLevel; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
