// bot is a command line player that answers every move request with a
// uniformly random legal move. Useful as a sparring partner and as the
// smoke test for a server setup.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/FalconsSky/penguins/internal/client"
	"github.com/FalconsSky/penguins/internal/network"
	"github.com/FalconsSky/penguins/pkg/game"
)

const configFile = "penguins/bot.yaml"

// Command-line flags
var (
	flagURL         = flag.String("url", "", "WebSocket endpoint, e.g. ws://localhost:8080/ws")
	flagName        = flag.String("name", "", "Player name")
	flagRoom        = flag.String("room", "", "Join a specific room instead of the queue")
	flagReservation = flag.String("reservation", "", "Join a prepared room with this reservation")
	flagSeed        = flag.Int64("seed", 0, "Random seed, 0 picks one")
	flagLevel       = flag.String("level", "info", "Log level")
)

// botConfig are the defaults read from the XDG config file; flags win.
type botConfig struct {
	URL  string `yaml:"url"`
	Name string `yaml:"name"`
}

func loadBotConfig(logger zerolog.Logger) botConfig {
	cfg := botConfig{URL: "ws://localhost:8080/ws"}
	path, err := xdg.SearchConfigFile(configFile)
	if err != nil {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("read bot config")
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("parse bot config")
	}
	return cfg
}

// randomPlayer picks uniformly among the legal moves.
type randomPlayer struct {
	client.BaseHandler

	log  zerolog.Logger
	rng  *rand.Rand
	team game.Team
}

func (p *randomPlayer) CalculateMove(state game.GameState) (game.Move, error) {
	moves := state.PossibleMoves(state.CurrentTeam())
	if len(moves) == 0 {
		return game.Move{}, fmt.Errorf("no possible moves on turn %d", state.Progress.Turn)
	}
	move := moves[p.rng.Intn(len(moves))]
	p.log.Info().
		Int("turn", state.Progress.Turn).
		Int("choices", len(moves)).
		Str("move", move.String()).
		Msg("moving")
	return move, nil
}

func (p *randomPlayer) OnGameJoined(roomID string) {
	p.log.Info().Str("room", roomID).Msg("joined")
}

func (p *randomPlayer) OnUpdate(state game.GameState) {
	p.team = state.Welcome.Team
}

func (p *randomPlayer) OnResult(result network.ResultPayload) {
	evt := p.log.Info().
		Str("reason", result.Reason).
		Int("score_one", result.Score.One).
		Int("score_two", result.Score.Two)
	switch result.Winner {
	case "":
		evt.Msg("game drawn")
	case p.team.String():
		evt.Msg("game won")
	default:
		evt.Msg("game lost")
	}
}

func (p *randomPlayer) OnError(message string) {
	p.log.Warn().Str("message", message).Msg("server error")
}

func main() {
	flag.Parse()
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if lvl, err := zerolog.ParseLevel(*flagLevel); err == nil {
		logger = logger.Level(lvl)
	}

	cfg := loadBotConfig(logger)
	if *flagURL != "" {
		cfg.URL = *flagURL
	}
	if *flagName != "" {
		cfg.Name = *flagName
	}

	seed := *flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	handler := &randomPlayer{
		log: logger,
		rng: rand.New(rand.NewSource(seed)),
	}

	c, err := client.Dial(cfg.URL, handler, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("url", cfg.URL).Msg("connect")
	}
	defer c.Close()

	switch {
	case *flagReservation != "":
		err = c.JoinPrepared(*flagReservation, cfg.Name)
	case *flagRoom != "":
		err = c.JoinRoom(*flagRoom, cfg.Name)
	default:
		err = c.Join(cfg.Name)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("join")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := c.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("game aborted")
	}
}
