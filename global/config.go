package global

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Addr   string `yaml:"addr"`    // HTTP listen address
	WsPath string `yaml:"ws_path"` // WebSocket upgrade path
}

type MongoConfig struct {
	Uri         string `yaml:"uri"`
	Database    string `yaml:"database"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	MaxPoolSize int    `yaml:"max_pool_size"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type JwtConfig struct {
	Secret   string `yaml:"secret"`
	TTLHours int    `yaml:"ttl_hours"`
}

type WsConfig struct {
	IdleTTLSeconds  int `yaml:"idle_ttl_seconds"`  // <=0 disables the idle sweep
	SweepEverySecs  int `yaml:"sweep_every_secs"`  // sweep period
	SendQueueSize   int `yaml:"send_queue_size"`   // per-connection outbound queue
	WriteWaitSecs   int `yaml:"write_wait_secs"`   // write deadline
	MaxMessageBytes int `yaml:"max_message_bytes"` // read limit
}

type FileConfig struct {
	Dir string `yaml:"dir"` // blob directory for uploads
}

type AppConfig struct {
	Server ServerConfig `yaml:"server"`
	Mongo  MongoConfig  `yaml:"mongo"`
	Redis  RedisConfig  `yaml:"redis"`
	Jwt    JwtConfig    `yaml:"jwt"`
	Ws     WsConfig     `yaml:"ws"`
	File   FileConfig   `yaml:"file"`
	NodeID int64        `yaml:"node_id"`
}

var Conf = defaults()

func defaults() AppConfig {
	return AppConfig{
		Server: ServerConfig{Addr: ":8080", WsPath: "/ws"},
		Mongo:  MongoConfig{Uri: "mongodb://localhost:27017", Database: "chatwave", MaxPoolSize: 20},
		Redis:  RedisConfig{Addr: "127.0.0.1:6379"},
		Jwt:    JwtConfig{Secret: "change-me-in-deployment", TTLHours: 2},
		Ws: WsConfig{
			IdleTTLSeconds:  0, // advisory heartbeat only unless enabled
			SweepEverySecs:  30,
			SendQueueSize:   256,
			WriteWaitSecs:   10,
			MaxMessageBytes: 512 * 1024,
		},
		File:   FileConfig{Dir: "./uploads"},
		NodeID: 1,
	}
}

// Load reads config.yaml if present and then applies env overrides.
// A missing file is not an error; defaults stand.
func Load(path string) error {
	if path == "" {
		path = "config.yaml"
	}
	if b, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(b, &Conf); err != nil {
			return err
		}
	}
	if v := os.Getenv("CHATWAVE_HTTP_ADDR"); v != "" {
		Conf.Server.Addr = v
	}
	if v := os.Getenv("CHATWAVE_MONGO_URI"); v != "" {
		Conf.Mongo.Uri = v
	}
	if v := os.Getenv("CHATWAVE_REDIS_ADDR"); v != "" {
		Conf.Redis.Addr = v
	}
	if v := os.Getenv("CHATWAVE_JWT_SECRET"); v != "" {
		Conf.Jwt.Secret = v
	}
	return nil
}

func GetJwtSecret() []byte {
	return []byte(Conf.Jwt.Secret)
}

func JwtTTL() time.Duration {
	h := Conf.Jwt.TTLHours
	if h <= 0 {
		h = 2
	}
	return time.Duration(h) * time.Hour
}
