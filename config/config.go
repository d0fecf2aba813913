package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/petmily/petboard/models"
)

// AppConfig holds configuration values for the discussion engine.
// Sensitive values have no code defaults and must come from the config
// file or the environment.
type AppConfig struct {
	AppPort   string
	JWTSecret string
	// Gin framework configuration
	GinMode        string
	AllowedOrigins []string
	// Engine knobs
	RateLimitPerMinute  int
	PostTitleMaxLen     int
	PageSizeDefault     int
	PageSizeMax         int
	ListCacheTTLSeconds int
	// Database
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	// Redis for list caching
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	// Logging
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Board catalog, in deployment-defined display order
	Boards []models.Board
}

var cfg AppConfig
var loaded bool

// Load reads configuration once during boot.
// Precedence: config/config.json -> code defaults -> environment overrides.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	_ = loadJSONConfig(filepath.Join("config", "config.json"), &cfg)
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// ListBoards returns the board catalog in its configured order.
func ListBoards() []models.Board {
	return Get().Boards
}

// FindBoard resolves a board key against the catalog.
func FindBoard(key string) (models.Board, bool) {
	for _, b := range Get().Boards {
		if b.Key == key {
			return b, true
		}
	}
	return models.Board{}, false
}

// fileConfig mirrors the grouped layout of config/config.json.
type fileConfig struct {
	App struct {
		AppPort             string   `json:"AppPort"`
		JWTSecret           string   `json:"JWTSecret"`
		AllowedOrigins      []string `json:"AllowedOrigins"`
		RateLimitPerMinute  int      `json:"RateLimitPerMinute"`
		PostTitleMaxLen     int      `json:"PostTitleMaxLen"`
		PageSizeDefault     int      `json:"PageSizeDefault"`
		PageSizeMax         int      `json:"PageSizeMax"`
		ListCacheTTLSeconds int      `json:"ListCacheTTLSeconds"`
	} `json:"app"`
	Gin struct {
		Mode string `json:"Mode"`
	} `json:"gin"`
	Database struct {
		DatabaseURI string `json:"DatabaseURI"`
		DBHost      string `json:"DBHost"`
		DBPort      string `json:"DBPort"`
		DBUser      string `json:"DBUser"`
		DBPassword  string `json:"DBPassword"`
		DBName      string `json:"DBName"`
	} `json:"database"`
	Redis struct {
		RedisHost     string `json:"RedisHost"`
		RedisPort     int    `json:"RedisPort"`
		RedisDB       int    `json:"RedisDB"`
		RedisPassword string `json:"RedisPassword"`
	} `json:"redis"`
	Log struct {
		Level      string `json:"Level"`
		Path       string `json:"Path"`
		MaxSizeMB  int    `json:"MaxSizeMB"`
		MaxBackups int    `json:"MaxBackups"`
		MaxAgeDays int    `json:"MaxAgeDays"`
		Compress   bool   `json:"Compress"`
	} `json:"log"`
	Boards []models.Board `json:"boards"`
}

// loadJSONConfig reads the JSON file into out if present. Returns an error
// only for invalid JSON; a missing file is silently ignored.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var fc fileConfig
	if err := json.NewDecoder(f).Decode(&fc); err != nil {
		return err
	}

	out.AppPort = fc.App.AppPort
	out.JWTSecret = fc.App.JWTSecret
	out.AllowedOrigins = fc.App.AllowedOrigins
	out.RateLimitPerMinute = fc.App.RateLimitPerMinute
	out.PostTitleMaxLen = fc.App.PostTitleMaxLen
	out.PageSizeDefault = fc.App.PageSizeDefault
	out.PageSizeMax = fc.App.PageSizeMax
	out.ListCacheTTLSeconds = fc.App.ListCacheTTLSeconds
	out.GinMode = fc.Gin.Mode
	out.DatabaseURI = fc.Database.DatabaseURI
	out.DBHost = fc.Database.DBHost
	out.DBPort = fc.Database.DBPort
	out.DBUser = fc.Database.DBUser
	out.DBPassword = fc.Database.DBPassword
	out.DBName = fc.Database.DBName
	out.RedisHost = fc.Redis.RedisHost
	out.RedisPort = fc.Redis.RedisPort
	out.RedisDB = fc.Redis.RedisDB
	out.RedisPassword = fc.Redis.RedisPassword
	out.LogLevel = fc.Log.Level
	out.LogPath = fc.Log.Path
	out.LogMaxSizeMB = fc.Log.MaxSizeMB
	out.LogMaxBackups = fc.Log.MaxBackups
	out.LogMaxAgeDays = fc.Log.MaxAgeDays
	out.LogCompress = fc.Log.Compress
	out.Boards = fc.Boards
	return nil
}

func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if c.PostTitleMaxLen == 0 {
		c.PostTitleMaxLen = 200
	}
	if c.PageSizeDefault == 0 {
		c.PageSizeDefault = 10
	}
	if c.PageSizeMax == 0 {
		c.PageSizeMax = 100
	}
	if c.ListCacheTTLSeconds == 0 {
		c.ListCacheTTLSeconds = 300
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "petboard"
	}
	if c.DBName == "" {
		c.DBName = "petboard"
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if len(c.Boards) == 0 {
		c.Boards = []models.Board{
			{Key: "free-talk", Name: "Free Talk", Description: "Anything about life with your pets"},
			{Key: "show-off", Name: "Show Off", Description: "Share photos and stories of your companions"},
			{Key: "qna", Name: "Q&A", Description: "Ask other owners for advice"},
			{Key: "tips", Name: "Care Tips", Description: "Food, grooming and health know-how"},
		}
	}
}

func applyEnvOverrides(c *AppConfig) {
	c.AppPort = getEnv("APP_PORT", c.AppPort)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.GinMode = getEnv("GIN_MODE", c.GinMode)
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		if len(origins) > 0 {
			c.AllowedOrigins = origins
		}
	}
	c.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)
	c.PostTitleMaxLen = getEnvInt("POST_TITLE_MAX_LEN", c.PostTitleMaxLen)
	c.PageSizeDefault = getEnvInt("PAGE_SIZE_DEFAULT", c.PageSizeDefault)
	c.PageSizeMax = getEnvInt("PAGE_SIZE_MAX", c.PageSizeMax)
	c.ListCacheTTLSeconds = getEnvInt("LIST_CACHE_TTL_SECONDS", c.ListCacheTTLSeconds)
	c.DatabaseURI = getEnv("DATABASE_URI", c.DatabaseURI)
	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnv("DB_PORT", c.DBPort)
	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPassword = getEnv("DB_PASSWORD", c.DBPassword)
	c.DBName = getEnv("DB_NAME", c.DBName)
	c.RedisHost = getEnv("REDIS_HOST", c.RedisHost)
	c.RedisPort = getEnvInt("REDIS_PORT", c.RedisPort)
	c.RedisDB = getEnvInt("REDIS_DB", c.RedisDB)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogPath = getEnv("LOG_PATH", c.LogPath)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
