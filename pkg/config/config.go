package config

import (
	"os"
	"sync"

	"github.com/gin-gonic/gin"
	"sigs.k8s.io/yaml"
)

// Config is loaded once from the file named by TASKBOARD_CONFIG
// (default ./etc/config.yaml) and is read-only afterwards.
type Config struct {
	Host       string `json:"host"`       // Public domain name of the server.
	ServerAddr string `json:"serverAddr"` // Address the HTTP endpoint binds to.

	Auth struct {
		AccessTokenSecret  string `json:"accessTokenSecret"`
		RefreshTokenSecret string `json:"refreshTokenSecret"`
	} `json:"auth"`

	Postgres struct {
		Host     string `json:"host"`
		Port     string `json:"port"`
		DBName   string `json:"dbname"`
		User     string `json:"user"`
		Password string `json:"password"`
		SSLMode  string `json:"sslmode"`
		TimeZone string `json:"TimeZone"`
	} `json:"postgres"`

	SMTP struct {
		Enable   bool   `json:"enable"`
		Host     string `json:"host"`
		Port     string `json:"port"`
		User     string `json:"user"`
		Password string `json:"password"`
		Sender   string `json:"sender"`
	} `json:"smtp"`

	Notification struct {
		// Read notifications older than RetentionDays are purged nightly.
		RetentionDays int `json:"retentionDays"`
	} `json:"notification"`
}

var (
	once     sync.Once
	instance *Config
)

const defaultConfigPath = "./etc/config.yaml"

func IsDebugMode() bool {
	return gin.Mode() == gin.DebugMode
}

// GetConfig returns the global config, loading it on first use.
func GetConfig() *Config {
	once.Do(func() {
		path := os.Getenv("TASKBOARD_CONFIG")
		if path == "" {
			path = defaultConfigPath
		}
		data, err := os.ReadFile(path)
		if err != nil {
			panic("read config: " + err.Error())
		}
		conf := &Config{}
		if err := yaml.UnmarshalStrict(data, conf); err != nil {
			panic("parse config: " + err.Error())
		}
		if conf.Notification.RetentionDays == 0 {
			conf.Notification.RetentionDays = 30
		}
		instance = conf
	})
	return instance
}
