package log

import (
	"os"
	"sync"

	"github.com/YuminosukeSato/pipekit/pkg/errors"
)

// LevelEnvVar names the environment variable read by the default provider.
const LevelEnvVar = "PIPEKIT_LOG_LEVEL"

var (
	providerMu     sync.RWMutex
	globalProvider LoggerProvider
)

func defaultProvider() LoggerProvider {
	level, err := ParseLevel(os.Getenv(LevelEnvVar))
	if err != nil {
		level = LevelInfo
	}
	return NewZerologProvider(level)
}

func provider() LoggerProvider {
	providerMu.RLock()
	p := globalProvider
	providerMu.RUnlock()
	if p != nil {
		return p
	}

	providerMu.Lock()
	defer providerMu.Unlock()
	if globalProvider == nil {
		globalProvider = defaultProvider()
		installWarnFunc(globalProvider)
	}
	return globalProvider
}

// SetProvider replaces the process-wide provider and routes library warnings
// through it.
func SetProvider(p LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	globalProvider = p
	installWarnFunc(p)
}

func installWarnFunc(p LoggerProvider) {
	switch typed := p.(type) {
	case nil:
		errors.SetZerologWarnFunc(nil)
	case *ZerologProvider:
		errors.SetZerologWarnFunc(typed.WarnError)
	default:
		errors.SetZerologWarnFunc(func(w error) {
			typed.GetLoggerWithName("warnings").Warn(w.Error())
		})
	}
}

// GetLogger returns the default logger of the process-wide provider.
func GetLogger() Logger {
	return provider().GetLogger()
}

// GetLoggerWithName returns a component logger of the process-wide provider.
func GetLoggerWithName(name string) Logger {
	return provider().GetLoggerWithName(name)
}

// SetLevel sets the minimum level of the process-wide provider.
func SetLevel(level Level) {
	provider().SetLevel(level)
}
