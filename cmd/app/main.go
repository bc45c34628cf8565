package main

import (
	"github.com/pulsecheck/core/internal/app"
	"github.com/pulsecheck/core/internal/config"
)

func main() {
	app.Go(config.Load())
}
