package logger

import (
	"log"
	"strings"
)

// log levels, ordered by severity
const (
	levelDebug = iota
	levelInfo
	levelWarning
	levelError
)

var currentLevel = levelInfo

func setLevel(name string) {
	switch strings.ToUpper(name) {
	case "DEBUG":
		currentLevel = levelDebug
	case "INFO":
		currentLevel = levelInfo
	case "WARNING", "WARN":
		currentLevel = levelWarning
	case "ERROR":
		currentLevel = levelError
	default:
		log.Printf("Unknown log level %q, defaulting to INFO", name)
		currentLevel = levelInfo
	}
}

func Debugf(format string, args ...interface{}) {
	if currentLevel <= levelDebug {
		log.Printf("[DEBUG] "+format, args...)
	}
}

func Infof(format string, args ...interface{}) {
	if currentLevel <= levelInfo {
		log.Printf("[INFO] "+format, args...)
	}
}

func Warningf(format string, args ...interface{}) {
	if currentLevel <= levelWarning {
		log.Printf("[WARNING] "+format, args...)
	}
}

func Errorf(format string, args ...interface{}) {
	if currentLevel <= levelError {
		log.Printf("[ERROR] "+format, args...)
	}
}
