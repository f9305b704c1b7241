package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds the checker's tunables. Defaults match the tables as they
// appear in the bitcoin-abc tree; everything is overridable from the
// environment so the tool can point at trees with a different layout.
type Config struct {
	// SourcePatterns are glob patterns, relative to the root directory,
	// naming the files that carry RPC dispatch tables.
	SourcePatterns []string
	// ConversionSource is the path, relative to the root directory, of the
	// file carrying the vRPCConvertParams conversion table.
	ConversionSource string
	// IgnoreArgs are placeholder argument names excluded from cross-command
	// naming warnings. They vary by arity convention, not by semantics.
	IgnoreArgs []string
	// WorkerCount bounds concurrent dispatch-table extraction.
	WorkerCount int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		SourcePatterns: getEnvList("RPCCHECK_SOURCE_PATTERNS", []string{
			"src/rpc/*.cpp",
			"src/wallet/rpc*.cpp",
			"src/zmq/zmqrpc.cpp",
		}),
		ConversionSource: getEnv("RPCCHECK_CONVERSION_SOURCE", "src/rpc/client.cpp"),
		IgnoreArgs: getEnvList("RPCCHECK_IGNORE_ARGS", []string{
			"dummy",
			"arg0", "arg1", "arg2", "arg3", "arg4",
			"arg5", "arg6", "arg7", "arg8", "arg9",
		}),
		WorkerCount: getEnvInt("RPCCHECK_WORKERS", 4),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
