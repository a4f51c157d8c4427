package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App   AppConfig   `mapstructure:"app"`
	DB    DBConfig    `mapstructure:"db"`
	Redis RedisConfig `mapstructure:"redis"`
	Kafka KafkaConfig `mapstructure:"kafka"`
	Chain ChainConfig `mapstructure:"chain"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	HttpPort string `mapstructure:"http_port"`
	BaseURL  string `mapstructure:"base_url"` // 短链接的对外域名前缀
}

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	MQType   string `mapstructure:"mq_type"` // "redis" or "kafka"
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
}

// ChainConfig 链相关配置。
// Builder / Synthesizer 不读全局状态，统一通过这个结构体显式传入。
type ChainConfig struct {
	RpcURL       string `mapstructure:"rpc_url"`
	ChainID      int64  `mapstructure:"chain_id"`
	NativeSymbol string `mapstructure:"native_symbol"`
	Decimals     int32  `mapstructure:"decimals"`
	ExplorerURL  string `mapstructure:"explorer_url"`
	IpfsGateway  string `mapstructure:"ipfs_gateway"`
}

var Global Config

func Init() {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name
	viper.AddConfigPath(".")      // optionally look for config in the working directory
	viper.AddConfigPath("./config")

	// 环境变量设置
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 设置默认值
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error if desired
			log.Printf("Warning: Config file not found, using defaults and environment variables")
		} else {
			// Config file was found but another error was produced
			log.Fatalf("Fatal error config file: %s \n", err)
		}
	}

	if err := viper.Unmarshal(&Global); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	log.Printf("Configuration loaded successfully. Env: %s", Global.App.Env)
}

func setDefaults() {
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.http_port", "8080")
	viper.SetDefault("app.base_url", "http://localhost:8080")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.user", "corelinks_user")
	viper.SetDefault("db.password", "corelinks_password")
	viper.SetDefault("db.name", "corelinks_db")

	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.mq_type", "redis")

	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})

	// Core Testnet
	viper.SetDefault("chain.rpc_url", "https://rpc.test2.btcs.network")
	viper.SetDefault("chain.chain_id", 1114)
	viper.SetDefault("chain.native_symbol", "CORE")
	viper.SetDefault("chain.decimals", 18)
	viper.SetDefault("chain.explorer_url", "https://scan.test2.btcs.network")
	viper.SetDefault("chain.ipfs_gateway", "https://gateway.pinata.cloud/ipfs/")
}
