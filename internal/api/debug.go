package api

import (
	"log"
	"os"
	"strings"
)

var debugEnabled = strings.EqualFold(os.Getenv("OCRDESK_DEBUG"), "1")

func debugLog(format string, args ...interface{}) {
	if debugEnabled {
		log.Printf(format, args...)
	}
}
