package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type HTTPServer struct {
	Host string
	Port string
}

type Rooms struct {
	Capacity      int
	TTL           time.Duration
	SweepInterval time.Duration
}

type Config struct {
	HTTP  HTTPServer
	Rooms Rooms
}

const logtag = "[config]"

func Load() *Config {
	configPath := flag.String("config", "", "path env file")
	flag.Parse()

	if *configPath != "" {
		if err := godotenv.Load(*configPath); err != nil {
			log.Fatalf("%s err loading env from file : %v", logtag, err)
		}
		log.Printf("%s using env from : %s", logtag, *configPath)
	} else {
		log.Printf("%s using env from .env", logtag)
		_ = godotenv.Load()
	}

	cfg := &Config{
		HTTP:  *newHTTP(),
		Rooms: *newRooms(),
	}

	log.Printf("%s backend config : %+v\n", logtag, cfg)
	return cfg
}

func newHTTP() *HTTPServer {
	return &HTTPServer{
		Port: getenv("HTTP_PORT", "8080"),
		Host: getenv("HTTP_HOST", "localhost"),
	}
}

func newRooms() *Rooms {
	return &Rooms{
		Capacity:      getenvInt("ROOM_CAPACITY", 10),
		TTL:           getenvDuration("ROOM_TTL", 24*time.Hour),
		SweepInterval: getenvDuration("ROOM_SWEEP_INTERVAL", time.Hour),
	}
}

func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined. Using default value %s\n", logtag, key, defaultValue)
		return defaultValue
	}
	fmt.Printf("%s %s = %s\n", logtag, key, val)
	return val
}

func getenvInt(key string, defaultValue int) int {
	val, err := strconv.Atoi(getenv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		log.Printf("%s %s is not an integer. Using default value %d", logtag, key, defaultValue)
		return defaultValue
	}
	return val
}

func getenvDuration(key string, defaultValue time.Duration) time.Duration {
	val, err := time.ParseDuration(getenv(key, defaultValue.String()))
	if err != nil {
		log.Printf("%s %s is not a duration. Using default value %s", logtag, key, defaultValue)
		return defaultValue
	}
	return val
}
