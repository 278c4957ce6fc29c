package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DatabaseURL      string
	RedisURL         string
	TelegramBotToken string
	OpenAIAPIKey     string
	OpenAIModel      string
	APIKey           string

	HTTPPort       int
	SSHPort        int
	SSHHostKeyPath string
	SSHAuthorized  []string

	DefaultSymbol   string
	HistoryDays     int
	RedditPostLimit int

	ShortWindow     int
	LongWindow      int
	MinTrainingRows int
	CVFolds         int
	ModelSeed       int64

	GridTrees     []int
	GridMaxDepths []int
	GridMinSplits []int
	GridMinLeafs  []int

	RefreshPollSecs int
	TrainHourUTC    int
}

func Load() *Config {
	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set, persistence disabled")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set, Telegram bot disabled")
	}
	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set, analyst notes disabled")
	}

	cfg.APIKey = strings.TrimSpace(os.Getenv("API_KEY"))
	if cfg.APIKey == "" {
		log.Println("Warning: API_KEY not set, mutating endpoints are unauthenticated")
	}

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	cfg.HTTPPort = intEnv("HTTP_PORT", 8080, 1, 65535)
	cfg.SSHPort = intEnv("SSH_PORT", 2222, 1, 65535)

	cfg.SSHHostKeyPath = strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH"))
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/mood_swing_ed25519"
	}
	cfg.SSHAuthorized = listEnv("SSH_AUTHORIZED_FINGERPRINTS")

	cfg.DefaultSymbol = strings.ToUpper(strings.TrimSpace(os.Getenv("DEFAULT_SYMBOL")))
	if cfg.DefaultSymbol == "" {
		cfg.DefaultSymbol = "TSLA"
	}

	cfg.HistoryDays = intEnv("HISTORY_DAYS", 60, 7, 365)
	cfg.RedditPostLimit = intEnv("REDDIT_POST_LIMIT", 100, 1, 1000)

	cfg.ShortWindow = intEnv("FEATURE_SHORT_WINDOW", 7, 2, 60)
	cfg.LongWindow = intEnv("FEATURE_LONG_WINDOW", 14, 2, 120)
	cfg.MinTrainingRows = intEnv("MIN_TRAINING_ROWS", 10, 2, 10000)
	cfg.CVFolds = intEnv("CV_FOLDS", 5, 2, 20)
	cfg.ModelSeed = int64(intEnv("MODEL_SEED", 1, 1, 1<<30))

	cfg.GridTrees = intListEnv("GRID_TREES", []int{50, 100, 200})
	cfg.GridMaxDepths = intListEnv("GRID_MAX_DEPTHS", []int{5, 10, 15})
	cfg.GridMinSplits = intListEnv("GRID_MIN_SPLITS", []int{2, 5, 10})
	cfg.GridMinLeafs = intListEnv("GRID_MIN_LEAFS", []int{1, 2, 4})

	cfg.RefreshPollSecs = intEnv("REFRESH_POLL_SECS", 900, 30, 86400)
	cfg.TrainHourUTC = intEnv("TRAIN_HOUR_UTC", 6, 0, 23)

	return cfg
}

func intEnv(key string, def, min, max int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min || n > max {
		log.Printf("Warning: invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func intListEnv(key string, def []int) []int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			log.Printf("Warning: invalid %s=%q, using defaults", key, v)
			return def
		}
		out = append(out, n)
	}
	return out
}

func listEnv(key string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
