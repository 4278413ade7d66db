package logger

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init configures the global logrus logger from logger.properties: JSON
// records rotated by lumberjack. Missing file means stderr at info level,
// so dev runs need no setup.
func Init() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	v := viper.New()
	v.SetConfigName("logger")
	v.SetConfigType("properties")
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		logrus.SetOutput(os.Stderr)
		logrus.SetLevel(logrus.InfoLevel)
		return
	}

	logrus.SetOutput(&lumberjack.Logger{
		Filename:   cast.ToString(v.Get("logFilename")),
		MaxSize:    cast.ToInt(v.Get("maxSize")),
		MaxBackups: cast.ToInt(v.Get("maxBackups")),
		MaxAge:     cast.ToInt(v.Get("maxAge")),
		Compress:   cast.ToBool(v.Get("compress")),
	})

	if level, err := logrus.ParseLevel(cast.ToString(v.Get("level"))); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.SetLevel(logrus.DebugLevel)
	}
}
