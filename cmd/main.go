package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

func main() {

	godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		slog.Error("Command failed",
			slog.String("err", err.Error()))
		os.Exit(1)
	}
}
