package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var valid = validator.New()

// Config 全局配置结构体（聚合所有核心模块）
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server" comment:"HTTP服务配置"`
	Monitor MonitorConfig `yaml:"monitor" mapstructure:"monitor" comment:"监控采集配置"`
	Log     ZapLogConfig  `yaml:"log" mapstructure:"log" comment:"日志配置"`
	MongoDB MongoConfig   `yaml:"mongodb" mapstructure:"mongodb" comment:"MongoDB导出配置"`
}

// ServerConfig HTTP服务配置（超时统一为time.Duration，支持"30s"解析）
type ServerConfig struct {
	Addr         string        `yaml:"addr" mapstructure:"addr" env:"SERVER_ADDR" validate:"required,hostname_port" comment:"HTTP监听地址（格式：ip:port）"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout" env:"SERVER_READ_TIMEOUT" validate:"required,gt=0" comment:"读取超时时间（如30s）"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout" env:"SERVER_WRITE_TIMEOUT" validate:"required,gt=0" comment:"写入超时时间（如30s）"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" validate:"required,gt=0" comment:"空闲连接超时时间（如60s）"`
}

// MonitorConfig 监控采集全局配置
type MonitorConfig struct {
	Interval   time.Duration   `yaml:"interval" mapstructure:"interval" env:"MONITOR_INTERVAL" validate:"required,gt=0" comment:"采集导出间隔（如10s）" default:"10s"`
	Collectors CollectorConfig `yaml:"collectors" mapstructure:"collectors" comment:"各类采集器配置"`
}

// CollectorConfig 采集器开关，每个采集器对应导出文档中的一个 type
type CollectorConfig struct {
	CPU            bool     `yaml:"cpu" mapstructure:"cpu" env:"COLLECTORS_CPU" comment:"是否采集cpu" default:"true"`
	CollectPerCore bool     `yaml:"collect_per_core" mapstructure:"collect_per_core" env:"COLLECTORS_COLLECT_PER_CORE" comment:"是否按每核心导出cpu使用率" default:"false"`
	Load           bool     `yaml:"load" mapstructure:"load" env:"COLLECTORS_LOAD" comment:"是否采集load" default:"true"`
	Mem            bool     `yaml:"mem" mapstructure:"mem" env:"COLLECTORS_MEM" comment:"是否采集mem" default:"true"`
	MemSwap        bool     `yaml:"memswap" mapstructure:"memswap" env:"COLLECTORS_MEMSWAP" comment:"是否采集memswap" default:"true"`
	Network        bool     `yaml:"network" mapstructure:"network" env:"COLLECTORS_NETWORK" comment:"是否采集network" default:"true"`
	FS             bool     `yaml:"fs" mapstructure:"fs" env:"COLLECTORS_FS" comment:"是否采集fs" default:"true"`
	IgnoreDisks    []string `yaml:"ignore_disks" mapstructure:"ignore_disks" env:"COLLECTORS_IGNORE_DISKS" comment:"忽略的挂载点/设备（如/dev/loop0）" default:"[]"`
	IgnoreNetworks []string `yaml:"ignore_networks" mapstructure:"ignore_networks" env:"COLLECTORS_IGNORE_NETWORKS" comment:"忽略的网络接口（如lo）" default:"[]"`
}

// ZapLogConfig 日志配置
type ZapLogConfig struct {
	Level     string `yaml:"level" mapstructure:"level" env:"LOG_LEVEL" validate:"required,oneof=debug info warn error critical" comment:"日志级别" default:"info"`
	Format    string `yaml:"format" mapstructure:"format" env:"LOG_FORMAT" validate:"required,oneof=json console" comment:"日志格式（json/console）" default:"json"`
	Path      string `yaml:"path" mapstructure:"path" env:"LOG_PATH" validate:"required" comment:"日志存储路径" default:"./logs"`
	MaxSize   int    `yaml:"max_size" mapstructure:"max_size" env:"LOG_MAX_SIZE" validate:"required,gt=0" comment:"单个日志文件最大大小（MB）" default:"100"`
	MaxBackup int    `yaml:"max_backup" mapstructure:"max_backup" env:"LOG_MAX_BACKUP" validate:"gte=0" comment:"保留的日志文件个数（>0 时代替 max_age）" default:"0"`
	MaxAge    int    `yaml:"max_age" mapstructure:"max_age" env:"LOG_MAX_AGE" validate:"required,gt=0" comment:"日志文件最大保存天数" default:"7"`
}

// MongoConfig mongodb 段配置。
// 普通模式必填 host/port/db；replica_flag=true 时必填 db，其余可选。
type MongoConfig struct {
	Host              string        `yaml:"host" mapstructure:"host" env:"MONGODB_HOST" comment:"MongoDB主机"`
	Port              int           `yaml:"port" mapstructure:"port" env:"MONGODB_PORT" validate:"omitempty,min=1,max=65535" comment:"MongoDB端口"`
	DB                string        `yaml:"db" mapstructure:"db" env:"MONGODB_DB" comment:"目标数据库"`
	User              string        `yaml:"user" mapstructure:"user" env:"MONGODB_USER" comment:"用户名（可选）"`
	Password          string        `yaml:"password" mapstructure:"password" env:"MONGODB_PASSWORD" comment:"密码（可选）"`
	ReplicaFlag       bool          `yaml:"replica_flag" mapstructure:"replica_flag" env:"MONGODB_REPLICA_FLAG" comment:"是否启用副本集模式"`
	ReplicaConnection string        `yaml:"replica_connection" mapstructure:"replica_connection" env:"MONGODB_REPLICA_CONNECTION" comment:"副本集种子列表（h1:p1,h2:p2）"`
	ReplicaSet        string        `yaml:"replicaSet" mapstructure:"replicaSet" env:"MONGODB_REPLICASET" comment:"副本集名称"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout" env:"MONGODB_TIMEOUT" validate:"gt=0" comment:"连接/写入超时" default:"10s"`
	Hostname          string        `yaml:"hostname" mapstructure:"hostname" env:"MONGODB_HOSTNAME" validate:"oneof=auto true false" comment:"文档是否携带hostname（auto: 副本集模式携带）" default:"auto"`
}

// NewDefaultConfig 创建默认配置（mongodb 必填项不给默认值，缺失即拒绝启动）
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         "0.0.0.0:9561",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Monitor: MonitorConfig{
			Interval: 10 * time.Second,
			Collectors: CollectorConfig{
				CPU:            true,
				CollectPerCore: false,
				Load:           true,
				Mem:            true,
				MemSwap:        true,
				Network:        true,
				FS:             true,
				IgnoreDisks:    []string{},
				IgnoreNetworks: []string{},
			},
		},
		Log: ZapLogConfig{
			Level:     "info",
			Format:    "json",
			Path:      "./logs",
			MaxSize:   100,
			MaxBackup: 0,
			MaxAge:    7,
		},
		MongoDB: MongoConfig{
			Timeout:  10 * time.Second,
			Hostname: "auto",
		},
	}
}

// LoadConfigWithCli 支持 time.Duration，(Flags + YAML + ENV)
func LoadConfigWithCli(cmd *cobra.Command) (*Config, error) {
	v := viper.New()

	// 1. 绑定 Cobra Flags → Viper
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	// 2. 解析配置文件 (--config)
	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	return Decode(v)
}

// Decode 将 viper 中的配置解码到结构体并校验
func Decode(v *viper.Viper) (*Config, error) {
	cfg := NewDefaultConfig()

	// 绑定环境变量 ENV -> Viper （MONGODB_HOST -> mongodb.host）
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	decoderConfig := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	}

	decoder, err := mapstructure.NewDecoder(decoderConfig)
	if err != nil {
		return nil, fmt.Errorf("new decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate 配置校验
func (c *Config) Validate() error {
	// 	1，mongodb 段优先，缺失必填项直接拒绝
	if err := c.MongoDB.Validate(); err != nil {
		return err
	}
	// 	2,校验Server服务配置
	if err := c.Server.Validate(); err != nil {
		return err
	}
	// 	3，校验采集配置
	if err := c.Monitor.Validate(); err != nil {
		return err
	}
	// 	4，校验日志配置
	if err := c.Log.Validate(); err != nil {
		return err
	}
	return nil
}
