package config

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"nexus.dev/orm/logger"
)

// LoggerConfig the logger.Config described by c
func (c LogConfig) LoggerConfig() logger.Config {
	return logger.Config{
		SlowThreshold:        c.SlowThreshold,
		LogLevel:             logger.ParseLevel(c.Level),
		ParameterizedQueries: c.Parameterized,
	}
}

// NewLogger builds the logger selected by Format writing to out
func (c LogConfig) NewLogger(out io.Writer) (logger.Interface, error) {
	config := c.LoggerConfig()

	switch strings.ToLower(c.Format) {
	case "", "text":
		return logger.New(log.New(out, "\r\n", log.LstdFlags), config), nil
	case "json":
		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(out),
			logger.ZapLevel(config.LogLevel),
		)
		return logger.NewZapLogger(zap.New(core), config), nil
	case "console":
		return logger.NewZerologConsoleLogger(out, config), nil
	case "logrus":
		l := logrus.New()
		l.SetOutput(out)
		l.SetLevel(logger.LogrusLevel(config.LogLevel))
		return logger.NewLogrusLogger(l, config), nil
	default:
		return nil, fmt.Errorf("log.format: unsupported format %q", c.Format)
	}
}
