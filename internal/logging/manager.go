package logging

import (
	"errors"
	"log"
	"os"
	"sync"
)

// Компоненты с собственными логгерами
const (
	ComponentTerrain = "terrain"
	ComponentAPI     = "api"
	ComponentStorage = "storage"
	ComponentTiles   = "tiles"
)

// LoggerManager хранит по одному логгеру на компонент
type LoggerManager struct {
	mu      sync.Mutex
	loggers map[string]*Logger
}

var manager = &LoggerManager{loggers: make(map[string]*Logger)}

// GetLoggerManager возвращает глобальный менеджер логгеров
func GetLoggerManager() *LoggerManager {
	return manager
}

// Logger возвращает логгер компонента, создавая его при первом обращении.
// Если файл лога открыть не удалось, логгер пишет только в stdout.
func (lm *LoggerManager) Logger(component string) *Logger {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if l, ok := lm.loggers[component]; ok {
		return l
	}
	l, err := NewLogger(component)
	if err != nil {
		log.Printf("logger %s: %v, using stdout", component, err)
		l = NewWriterLogger(component, os.Stdout, currentOptions().ConsoleLevel)
	}
	lm.loggers[component] = l
	return l
}

// CloseAll закрывает файлы всех логгеров; следующий вызов Logger создаст новый
func (lm *LoggerManager) CloseAll() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	var errs []error
	for _, l := range lm.loggers {
		errs = append(errs, l.Close())
	}
	clear(lm.loggers)
	return errors.Join(errs...)
}

func GetTerrainLogger() *Logger { return manager.Logger(ComponentTerrain) }

func GetAPILogger() *Logger { return manager.Logger(ComponentAPI) }

func GetStorageLogger() *Logger { return manager.Logger(ComponentStorage) }

func GetTilesLogger() *Logger { return manager.Logger(ComponentTiles) }
