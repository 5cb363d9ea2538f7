package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field keys shared by the engine, lobby and transport logs.
const (
	LobbyKey    = "lobby"
	IdentityKey = "identity"
	HandNoKey   = "handNo"
	RoundKey    = "round"
	SeatKey     = "seat"
)

var Log = zap.NewNop()

func InitLogger(mode string) {
	var config zap.Config

	if mode == "release" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.OutputPaths = []string{"stdout"}
	var err error
	Log, err = config.Build()
	if err != nil {
		os.Exit(1)
	}
	zap.ReplaceGlobals(Log)
}

// Lobby scopes a logger to one lobby code.
func Lobby(code string) *zap.Logger {
	return Log.With(zap.String(LobbyKey, code))
}
