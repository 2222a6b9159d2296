package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers
const (
	StorageFile   = "file"
	StorageMemory = "memory"
)

type (
	Config struct {
		AppName      string
		Env          string // DEV (local; default), TEST, QA, PROD
		Build        string
		Debug        bool
		TestMode     bool
		RollbarToken string

		Server  ServerConfig
		Storage StorageConfig
	}

	ServerConfig struct {
		Address         string
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration
		AllowedOrigins  []string
		DisableReqLogs  bool

		// per client IP limit on feedback submissions
		SubmitRate  float64 // requests per second
		SubmitBurst int
	}

	StorageConfig struct {
		Driver         string // file | memory
		FeedbackFile   string
		BackupDir      string
		BackupSchedule string // cron spec; empty disables scheduled backups
		BackupKeep     int
	}
)

// NewConfig reads the configuration from the environment.
// Variables are prefixed with the current ENV, e.g. PROD_SERVER_ADDRESS or DEV_STORAGE_FEEDBACKFILE.
func NewConfig() *Config {
	env := strings.ToUpper(strings.TrimSpace(os.Getenv("ENV")))
	if env == "" {
		env = "DEV"
	}
	loadDotEnv(env)

	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("appName", "Sauti")
	v.SetDefault("build", "develop")
	v.SetDefault("debug", env == "DEV")
	v.SetDefault("testMode", env == "TEST")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.address", ":3000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.debugHost", "localhost:4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.allowedOrigins", "*")
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("server.submitRate", 1.0)
	v.SetDefault("server.submitBurst", 10)

	v.SetDefault("storage.driver", StorageFile)
	v.SetDefault("storage.feedbackFile", "feedback.json")
	v.SetDefault("storage.backupDir", "backups")
	v.SetDefault("storage.backupSchedule", "")
	v.SetDefault("storage.backupKeep", 14)

	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{
		AppName:      v.GetString("appName"),
		Env:          env,
		Build:        v.GetString("build"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Address:         v.GetString("server.address"),
			Host:            v.GetString("server.host"),
			DebugHost:       v.GetString("server.debugHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			AllowedOrigins:  splitList(v.GetString("server.allowedOrigins")),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
			SubmitRate:      v.GetFloat64("server.submitRate"),
			SubmitBurst:     v.GetInt("server.submitBurst"),
		},
		Storage: StorageConfig{
			Driver:         strings.ToLower(v.GetString("storage.driver")),
			FeedbackFile:   v.GetString("storage.feedbackFile"),
			BackupDir:      v.GetString("storage.backupDir"),
			BackupSchedule: v.GetString("storage.backupSchedule"),
			BackupKeep:     v.GetInt("storage.backupKeep"),
		},
	}
}

// load config/.env.<env> if it exists (ignore if it does not)
func loadDotEnv(env string) {
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
