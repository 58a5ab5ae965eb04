package analytics

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogFileDataCollector struct {
	fileName string
	logger   *zap.Logger
}

func NewLogFileDataCollector(fileName string) (*LogFileDataCollector, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.StacktraceKey = ""
	encoderConfig.CallerKey = ""
	logFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(logFile), zapcore.InfoLevel)
	return &LogFileDataCollector{
		fileName: fileName,
		logger:   zap.New(core),
	}, nil
}

func (lc *LogFileDataCollector) RecordAssignment(event AssignmentEvent) {
	lc.logger.Info("assignment",
		zap.String("organization", event.OrganizationId),
		zap.String("experiment", event.ExperimentId),
		zap.String("user", event.UserId),
		zap.String("variant", event.VariantId),
		zap.String("environment", string(event.Environment)),
		zap.Bool("cached", event.Cached),
		zap.Time("at", event.At))
}

func (lc *LogFileDataCollector) Sync() error {
	return lc.logger.Sync()
}
