package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/barbarayam/word-search-game/internal/game"
	"github.com/barbarayam/word-search-game/internal/httpserver"
	"github.com/barbarayam/word-search-game/internal/store"
	"github.com/barbarayam/word-search-game/internal/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := words.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load vocabulary")
	}
	log.Info().Int("entries", words.Count()).Msg("vocabulary loaded")

	var st game.Store
	if getEnv("STORE", "sqlite") == "memory" {
		st = store.NewMemory()
		log.Info().Msg("using in-memory store")
	} else {
		db, err := openDB(getEnv("DB_PATH", "./data/wordsearch.db"))
		if err != nil {
			log.Fatal().Err(err).Msg("open database")
		}
		if err := migrate(db); err != nil {
			log.Fatal().Err(err).Msg("run migrations")
		}
		st = store.NewSQLite(db)
	}

	svc := game.NewService(st)
	srv := httpserver.New(svc)
	port := getEnv("PORT", "8080")
	log.Info().Str("port", port).Msg("starting word-search server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
