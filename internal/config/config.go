package config

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Options struct {
	runAddr      string
	logLevel     string
	databaseDSN  string
	jwtSecret    string
	imageDir     string
	paypalID     string
	paypalSecret string
}

func NewOptions() *Options {
	return new(Options)
}

// ParseFlags reads the .env file and command line arguments and
// stores their values in the corresponding fields. Flags win over
// environment variables.
func (o *Options) ParseFlags() {
	// .env is optional; a missing file is not an error
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment as-is")
	}

	flag.StringVar(&o.runAddr, "a", getEnvOrDefault("RUN_ADDRESS", ":8080"), "address and port to run server")
	flag.StringVar(&o.logLevel, "l", getEnvOrDefault("LOG_LEVEL", "info"), "log level")
	flag.StringVar(&o.databaseDSN, "d", getEnvOrDefault("DATABASE_URI", ""), "database connection string")
	flag.StringVar(&o.imageDir, "i", getEnvOrDefault("IMAGE_DIR", "./public/images"), "directory for uploaded product images")
	flag.Parse()

	o.jwtSecret = getEnvOrDefault("JWT_SECRET", "")
	o.paypalID = getEnvOrDefault("PAYPAL_CLIENT_ID", "")
	o.paypalSecret = getEnvOrDefault("PAYPAL_SECRET", "")
}

func (o *Options) RunAddr() string      { return o.runAddr }
func (o *Options) LogLevel() string     { return o.logLevel }
func (o *Options) DatabaseDSN() string  { return o.databaseDSN }
func (o *Options) JWTSecret() string    { return o.jwtSecret }
func (o *Options) ImageDir() string     { return o.imageDir }
func (o *Options) PayPalID() string     { return o.paypalID }
func (o *Options) PayPalSecret() string { return o.paypalSecret }

func getEnvOrDefault(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}
