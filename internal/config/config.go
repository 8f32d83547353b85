package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env    string
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	Logger LoggerConfig
	LLM    LLMConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DBConfig struct {
	// Path is the SQLite database file path.
	Path string
}

type RedisConfig struct {
	Address        string `yaml:"address"`
	Password       string `yaml:"password"`
	DB             int    `yaml:"db"`
	RecordCacheTTL time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

type LLMConfig struct {
	// Source selects the generator backend: "gemini" or "ollama".
	Source  string
	Timeout time.Duration
	Gemini  GeminiConfig
	Ollama  OllamaConfig
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OllamaConfig struct {
	ServerURL string
	Model     string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("db.path", "wiki_quiz.db")
	viper.SetDefault("redis.record_cache_ttl", 3600)
	viper.SetDefault("llm.source", "gemini")
	viper.SetDefault("llm.timeout", 60)
	viper.SetDefault("llm.gemini.model", "gemini-2.0-flash")
	viper.SetDefault("llm.ollama.model", "qwen3:0.6b")

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; everything can come from env vars.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{
		Env: viper.GetString("env"),
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		DB: DBConfig{
			Path: viper.GetString("db.path"),
		},
		Redis: RedisConfig{
			Address:        viper.GetString("redis.address"),
			Password:       viper.GetString("redis.password"),
			DB:             viper.GetInt("redis.db"),
			RecordCacheTTL: viper.GetDuration("redis.record_cache_ttl") * time.Second,
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("env"),
		},
		LLM: LLMConfig{
			Source:  viper.GetString("llm.source"),
			Timeout: viper.GetDuration("llm.timeout") * time.Second,
			Gemini: GeminiConfig{
				APIKey: viper.GetString("llm.gemini.api_key"),
				Model:  viper.GetString("llm.gemini.model"),
			},
			Ollama: OllamaConfig{
				ServerURL: viper.GetString("llm.ollama.server_url"),
				Model:     viper.GetString("llm.ollama.model"),
			},
		},
	}

	// Override with environment variables if set
	if env := os.Getenv("ENV"); env != "" {
		config.Env = env
		config.Logger.Env = env
	}
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		config.DB.Path = dbPath
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if llmSource := os.Getenv("LLM_SOURCE"); llmSource != "" {
		config.LLM.Source = llmSource
	}
	if geminiKey := os.Getenv("GEMINI_API_KEY"); geminiKey != "" {
		config.LLM.Gemini.APIKey = geminiKey
	}
	if ollamaServer := os.Getenv("OLLAMA_SERVER"); ollamaServer != "" {
		config.LLM.Ollama.ServerURL = ollamaServer
	}

	return config, nil
}
