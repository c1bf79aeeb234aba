package utils

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// LogEvent writes one service-level event line with module/action/request_id.
// Keep message summarized; never pass payloads or secrets.
func LogEvent(requestID, module, action, message string) {
	logrus.WithFields(logrus.Fields{
		"module":     strings.ToUpper(module),
		"action":     action,
		"request_id": strings.TrimSpace(requestID),
	}).Info(message)
}
