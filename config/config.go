package config

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Auth     Auth
	Gemini   Gemini
	Limits   Limits
}

type Server struct {
	Port           string
	AllowedOrigins []string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Auth struct {
	JWTSecret       string
	TeacherEmail    string
	TeacherPassword string
	TeacherName     string
}

type Gemini struct {
	APIKey string
	Model  string
}

type Limits struct {
	MinDurationMinutes int
	MaxDurationMinutes int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("ALLOWED_ORIGINS", "*")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("TEACHER_NAME", "Teacher")
	viper.SetDefault("MIN_DURATION_MINUTES", 10)
	viper.SetDefault("MAX_DURATION_MINUTES", 300)

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.AllowedOrigins = splitCSV(viper.GetString("ALLOWED_ORIGINS"))

	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Auth.JWTSecret = viper.GetString("JWT_SECRET")
	config.Auth.TeacherEmail = strings.ToLower(viper.GetString("TEACHER_EMAIL"))
	config.Auth.TeacherPassword = viper.GetString("TEACHER_PASSWORD")
	config.Auth.TeacherName = viper.GetString("TEACHER_NAME")

	config.Gemini.APIKey = viper.GetString("GEMINI_API_KEY")
	config.Gemini.Model = viper.GetString("GEMINI_MODEL")

	config.Limits.MinDurationMinutes = viper.GetInt("MIN_DURATION_MINUTES")
	config.Limits.MaxDurationMinutes = viper.GetInt("MAX_DURATION_MINUTES")

	log.Info().Str("port", config.Server.Port).Str("db_host", config.Database.Host).Msg("Config loaded")
	return &config, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
