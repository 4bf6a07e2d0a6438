package engine

import (
	"fmt"
	"time"

	"github.com/BastardoSenpai/BootlegXCom/pkg/api"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"

	"github.com/sirupsen/logrus"
)

// maxLogs - сколько последних записей хранит бой
const maxLogs = 200

// AddLog добавляет запись в боевой лог
func (b *Battle) AddLog(text, logType string) {
	b.logSeq++
	round := 0
	if b.Scheduler != nil {
		round = b.Scheduler.Round()
	}

	b.Logs = append(b.Logs, api.LogEntry{
		ID:        fmt.Sprintf("%d_%d", round, b.logSeq),
		Round:     round,
		Text:      text,
		Type:      logType,
		Timestamp: time.Now().UnixMilli(),
	})
	if len(b.Logs) > maxLogs {
		b.Logs = b.Logs[len(b.Logs)-maxLogs:]
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "game_log",
		"round":     round,
		"log_type":  logType,
	}).Info(text)
}
