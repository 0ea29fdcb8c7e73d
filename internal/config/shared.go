package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port        string `mapstructure:"port"`
		MetricsPort string `mapstructure:"metrics_port"`
	} `mapstructure:"server"`
	Library struct {
		BaseDir        string `mapstructure:"base_dir"`
		GenerationFile string `mapstructure:"generation_file"`
		Watch          bool   `mapstructure:"watch"`
	} `mapstructure:"library"`
	Repository struct {
		Backend string `mapstructure:"backend"`
	} `mapstructure:"repository"`
	Database struct {
		Driver   string `mapstructure:"driver"`
		Path     string `mapstructure:"path"`
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Storage struct {
		Backend   string `mapstructure:"backend"`
		OutputDir string `mapstructure:"output_dir"`
		Bucket    string `mapstructure:"bucket"`
		Region    string `mapstructure:"region"`
		Endpoint  string `mapstructure:"endpoint"`
		KeyID     string `mapstructure:"key_id"`
		AppKey    string `mapstructure:"app_key"`
	} `mapstructure:"storage"`
}

func Load() *Config {
	viper.SetEnvPrefix("ESCALA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Register keys
	viper.BindEnv("server.port")
	viper.BindEnv("server.metrics_port")

	viper.BindEnv("library.base_dir")
	viper.BindEnv("library.generation_file")
	viper.BindEnv("library.watch")

	viper.BindEnv("repository.backend")

	viper.BindEnv("database.driver")
	viper.BindEnv("database.path")
	viper.BindEnv("database.host")
	viper.BindEnv("database.port")
	viper.BindEnv("database.user")
	viper.BindEnv("database.password")
	viper.BindEnv("database.name")

	viper.BindEnv("storage.backend")
	viper.BindEnv("storage.output_dir")
	viper.BindEnv("storage.bucket")
	viper.BindEnv("storage.region")
	viper.BindEnv("storage.endpoint")
	viper.BindEnv("storage.key_id")
	viper.BindEnv("storage.app_key")

	// Defaults
	viper.SetDefault("server.port", ":8080")
	viper.SetDefault("server.metrics_port", ":9091")

	viper.SetDefault("library.base_dir", ".")
	viper.SetDefault("library.generation_file", "generation.yaml")
	viper.SetDefault("library.watch", false)

	viper.SetDefault("repository.backend", "filesystem")

	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.path", "escala.db")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.name", "escala")

	viper.SetDefault("storage.backend", "local")
	viper.SetDefault("storage.output_dir", "output")
	viper.SetDefault("storage.region", "us-east-1")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: Config error: %s", err)
		} else {
			log.Println("Info: config.yaml not found, using Environment Variables only.")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}

	if cfg.Storage.Backend == "s3" && cfg.Storage.KeyID == "" {
		log.Fatal("Critical: S3 storage selected but key is missing (ESCALA_STORAGE_KEY_ID)")
	}

	return &cfg
}
