package global

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every environment-backed setting the server needs.
type Config struct {
	Port          string `envconfig:"PORT" default:"5000"`
	Env           string `envconfig:"ENV" default:"development"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	MongoURI      string `envconfig:"MONGODB_URI" default:"mongodb://localhost:27017"`
	MongoDatabase string `envconfig:"MONGODB_DATABASE" default:"quickcart"`
	JWTSecret     string `envconfig:"JWT_SECRET" required:"true"`
	ClientURL     string `envconfig:"CLIENT_URL" default:"http://localhost:5173"`

	RedisAddress  string `envconfig:"REDIS_ADDRESS" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`

	RazorpayKeyID     string `envconfig:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret string `envconfig:"RAZORPAY_KEY_SECRET"`

	ReceiptsDir string `envconfig:"RECEIPTS_DIR" default:"receipts"`

	AzureOpenAIEndpoint   string `envconfig:"AZURE_OPENAI_ENDPOINT"`
	AzureOpenAIAPIKey     string `envconfig:"AZURE_OPENAI_API_KEY"`
	AzureOpenAIDeployment string `envconfig:"AZURE_OPENAI_DEPLOYMENT_NAME" default:"gpt-35-turbo"`
}

var config *Config

// LoadConfig reads .env (when present) and the process environment into the
// package-level Config. Call once at startup before GetConfig.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}

	config = cfg
	return cfg, nil
}

func GetConfig() *Config {
	return config
}

// SetConfig swaps the active configuration. Intended for tests.
func SetConfig(cfg *Config) {
	config = cfg
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
