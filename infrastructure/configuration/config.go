package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"creator-os/infrastructure/logger"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	Pubsub      Pubsub      `json:"pubsub"`
	ServiceBus  ServiceBus  `json:"serviceBus"`
	Scraper     Scraper     `json:"scraper"`
	Identity    Identity    `json:"identity"`
	Scheduler   Scheduler   `json:"scheduler"`
	Logger      Logger      `json:"logger"`
}

type App struct {
	Port         int      `json:"port"`
	SecretKey    string   `json:"secretKey"`
	AllowOrigins []string `json:"allowOrigins"`
}

type Database struct {
	Psql  Db `json:"psql"`
	Mongo Db `json:"mongo"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
	// URI takes precedence over the discrete fields when set (mongo only).
	URI string `json:"uri"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
	Topic     string `json:"topic"`
}

type ServiceBus struct {
	Namespace string `json:"namespace"`
	Queue     string `json:"queue"`
}

type RedisClient struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Password     string `json:"password"`
	DatabaseName string `json:"databaseName"`
	Username     string `json:"username"`
}

// Scraper configures the hosted scraping platform.
type Scraper struct {
	BaseURL               string `json:"baseURL"`
	Token                 string `json:"token"`
	ProfileActorID        string `json:"profileActorID"`
	PostsActorID          string `json:"postsActorID"`
	PostsLimit            int    `json:"postsLimit"`
	RunCacheTTLSeconds    int    `json:"runCacheTTLSeconds"`
	RequestTimeoutSeconds int    `json:"requestTimeoutSeconds"`
	WaitForFinishSeconds  int    `json:"waitForFinishSeconds"`
	PollIntervalMillis    int    `json:"pollIntervalMillis"`
}

// Identity configures the hosted identity provider admin API.
type Identity struct {
	URL          string `json:"url"`
	ServiceKey   string `json:"serviceKey"`
	InviteSecret string `json:"inviteSecret"`
}

type Scheduler struct {
	// RefreshCron is a robfig/cron spec; empty disables the periodic refresh.
	RefreshCron string `json:"refreshCron"`
}

type Logger struct {
	Format string `json:"format"`
	Level  string `json:"level"`
}

var C Config

func init() {
	LoadEnvFiles(".env", "config.env")
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initScraper(&C)
	initIdentity(&C)
	if C.Logger.Level != "" && os.Getenv("LOG_LEVEL") == "" {
		logger.SetLevel(C.Logger.Level)
	}
}

// LoadEnvFiles loads KEY=VALUE files that exist. Existing env vars are not overridden.
func LoadEnvFiles(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			logger.GetLogger().WithField("file", p).WithField("error", err).Warn("Failed to load env file")
		}
	}
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func envOr(current *string, keys ...string) {
	if *current != "" {
		return
	}
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			*current = v
			return
		}
	}
}

func envInt(current *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*current = n
		}
	}
}

func initDatabase(C *Config) {
	envOr(&C.Database.Psql.Name, "DB_NAME")
	envOr(&C.Database.Psql.Host, "DB_HOST")
	envOr(&C.Database.Psql.User, "DB_USER")
	envOr(&C.Database.Psql.Password, "DB_PASSWORD")
	envOr(&C.Database.Psql.Port, "DB_PORT")
	envOr(&C.Database.Psql.SSLMode, "DB_SSLMODE")
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = "5432"
	}
	if C.Database.Psql.SSLMode == "" {
		C.Database.Psql.SSLMode = "disable"
	}
	logger.GetLogger().WithField("host", C.Database.Psql.Host).WithField("name", C.Database.Psql.Name).Info("Database configuration")

	envOr(&C.Database.Mongo.URI, "MONGO_URI")
	envOr(&C.Database.Mongo.Name, "MONGO_DB_NAME")

	envOr(&C.RedisClient.Host, "REDIS_HOST")
	envOr(&C.RedisClient.Port, "REDIS_PORT")
	envOr(&C.RedisClient.Password, "REDIS_PASSWORD")
	envOr(&C.RedisClient.Username, "REDIS_USERNAME")

	envOr(&C.Pubsub.ProjectID, "PUBSUB_PROJECT_ID")
	envOr(&C.Pubsub.Topic, "PUBSUB_TOPIC")
	envOr(&C.ServiceBus.Namespace, "SERVICEBUS_NAMESPACE")
	envOr(&C.ServiceBus.Queue, "SERVICEBUS_QUEUE")
}

func initApp(C *Config) {
	// Prefer SECRET_KEY from environment for JWT verification; overrides config file when provided
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 10001
	if os.Getenv("APP_PORT") != "" {
		envInt(&C.App.Port, "APP_PORT")
	} else {
		envInt(&C.App.Port, "PORT")
	}
	if C.App.Port == 0 {
		C.App.Port = 10001
	}
	if v := os.Getenv("ALLOW_ORIGINS"); v != "" {
		C.App.AllowOrigins = splitList(v)
	}
	if len(C.App.AllowOrigins) == 0 {
		C.App.AllowOrigins = []string{"http://localhost:3000"}
	}
	envOr(&C.Scheduler.RefreshCron, "REFRESH_CRON")
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; JWT authentication will fail. Provide SECRET_KEY via environment.")
	}
}

func initScraper(C *Config) {
	s := &C.Scraper
	if v := os.Getenv("SCRAPER_TOKEN"); v != "" {
		s.Token = v
	}
	envOr(&s.BaseURL, "SCRAPER_BASE_URL")
	envOr(&s.ProfileActorID, "SCRAPER_PROFILE_ACTOR_ID")
	envOr(&s.PostsActorID, "SCRAPER_POSTS_ACTOR_ID")
	envInt(&s.RunCacheTTLSeconds, "SCRAPER_RUN_CACHE_TTL_SECONDS")
	if s.BaseURL == "" {
		s.BaseURL = "https://api.apify.com"
	}
	if s.ProfileActorID == "" {
		s.ProfileActorID = "apify~instagram-profile-scraper"
	}
	if s.PostsActorID == "" {
		s.PostsActorID = "apify~instagram-post-scraper"
	}
	if s.PostsLimit <= 0 || s.PostsLimit > 20 {
		s.PostsLimit = 20
	}
	if s.RequestTimeoutSeconds <= 0 {
		s.RequestTimeoutSeconds = 90
	}
	if s.WaitForFinishSeconds <= 0 || s.WaitForFinishSeconds > 60 {
		s.WaitForFinishSeconds = 60
	}
	if s.PollIntervalMillis <= 0 {
		s.PollIntervalMillis = 2000
	}
	if s.Token == "" {
		logger.GetLogger().Warn("Scraper.Token not set; competitor sync will fail. Provide SCRAPER_TOKEN via environment.")
	}
}

func initIdentity(C *Config) {
	if v := os.Getenv("IDENTITY_SERVICE_KEY"); v != "" {
		C.Identity.ServiceKey = v
	}
	if v := os.Getenv("IDENTITY_INVITE_SECRET"); v != "" {
		C.Identity.InviteSecret = v
	}
	envOr(&C.Identity.URL, "IDENTITY_URL")
	C.Identity.URL = strings.TrimRight(C.Identity.URL, "/")
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
