package internal

import (
	"log"
	"os"
)

func InitLogging() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}

func Infof(format string, args ...any) {
	log.Printf("INFO  "+format, args...)
}

func Warnf(format string, args ...any) {
	log.Printf("WARN  "+format, args...)
}

func Errorf(format string, args ...any) {
	log.Printf("ERROR "+format, args...)
}
