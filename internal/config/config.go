package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

type Config struct {
	LogLevel  string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort  string    `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Redis     Redis     `yaml:"redis"`
	Storage   Storage   `yaml:"storage"`
	UI        UI        `yaml:"ui"`
	Game      Game      `yaml:"game"`
	Providers Providers `yaml:"providers"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Storage struct {
	Driver     string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
	SQLitePath string `yaml:"sqlite-path" env:"STORAGE_SQLITE_PATH" env-default:"tictactoe.db"`
}

type UI struct {
	TickRate       int `yaml:"tick-rate" env:"UI_TICK_RATE" env-default:"30"`
	SnapshotBuffer int `yaml:"snapshot-buffer" env:"UI_SNAPSHOT_BUFFER" env-default:"16"`
}

type Game struct {
	InvalidMoveLimit int    `yaml:"invalid-move-limit" env:"GAME_INVALID_MOVE_LIMIT" env-default:"3"`
	HumanRole        string `yaml:"human-role" env:"GAME_HUMAN_ROLE" env-default:"second"`
	Provider         string `yaml:"provider" env:"GAME_PROVIDER" env-default:"deepseek"`
}

type Providers struct {
	BaseURL string            `yaml:"base-url" env:"OLLAMA_BASE_URL" env-default:"https://ollama.com"`
	APIKey  string            `yaml:"api-key" env:"OLLAMA_API_KEY"`
	Timeout time.Duration     `yaml:"timeout" env:"OLLAMA_TIMEOUT" env-default:"60s"`
	Models  map[string]string `yaml:"models"`
}

// DefaultModels maps provider ids to Ollama cloud chat models.
var DefaultModels = map[string]string{
	"zai":      "glm-5:cloud",
	"nvidia":   "nemotron-3-nano:30b-cloud",
	"mistral":  "mistral-large-3:675b-cloud",
	"openai":   "gpt-oss:120b-cloud",
	"gemini":   "gemini-3-flash-preview:cloud",
	"minimax":  "minimax-m2.5:cloud",
	"deepseek": "deepseek-v3.2:cloud",
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load reads path when it is set, otherwise only the environment.
func Load(path string) (*Config, error) {
	config := &Config{}

	blank, err := isBlank(path)
	if err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if blank {
		err = cleanenv.ReadEnv(config)
	} else {
		err = cleanenv.ReadConfig(path, config)
	}

	if err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	config.applyDefaults()

	return config, nil
}

// isBlank reports whether there is no yaml to parse: no path, or a file holding only
// whitespace and comments. cleanenv rejects such a file with an EOF parse error.
func isBlank(path string) (bool, error) {
	if path == "" {
		return true, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) > 0 && line[0] != '#' {
			return false, nil
		}
	}

	return true, nil
}

func (that *Config) applyDefaults() {
	if len(that.Providers.Models) == 0 {
		that.Providers.Models = make(map[string]string, len(DefaultModels))
	}

	for id, model := range DefaultModels {
		if _, ok := that.Providers.Models[id]; !ok {
			that.Providers.Models[id] = model
		}
	}
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
