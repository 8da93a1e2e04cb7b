package utils

import (
	"io"
	"log"
	"os"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// InfoLogger は情報レベルのログを出力します
	InfoLogger *log.Logger
	// WarnLogger は警告レベルのログを出力します
	WarnLogger *log.Logger
	// ErrorLogger はエラーレベルのログを出力します
	ErrorLogger *log.Logger

	logFile *lumberjack.Logger
)

// init関数はパッケージがインポートされたときに自動的に実行されます
func init() {
	setOutputs(os.Stdout, os.Stderr)
}

func setOutputs(stdout, stderr io.Writer) {
	InfoLogger = log.New(stdout, "INFO: ", log.Ldate|log.Ltime)
	WarnLogger = log.New(stdout, "WARN: ", log.Ldate|log.Ltime)
	ErrorLogger = log.New(stderr, "ERROR: ", log.Ldate|log.Ltime)
}

// SetLogFile はすべてのレベルのログをローテーション付きファイルにも出力します
func SetLogFile(path string) {
	if path == "" {
		return
	}

	logFile = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     30, // 日
	}
	setOutputs(io.MultiWriter(os.Stdout, logFile), io.MultiWriter(os.Stderr, logFile))
}

// SetOutput はすべてのレベルのログ出力先を差し替えます
func SetOutput(w io.Writer) {
	setOutputs(w, w)
}

// CloseLogFile はログファイルを閉じます
func CloseLogFile() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	setOutputs(os.Stdout, os.Stderr)
	return err
}

// LogInfo は情報レベルのメッセージをログに記録します
func LogInfo(format string, v ...interface{}) {
	InfoLogger.Printf(format, v...)
}

// LogWarn は警告レベルのメッセージをログに記録します
func LogWarn(format string, v ...interface{}) {
	WarnLogger.Printf(format, v...)
}

// LogError はエラーレベルのメッセージをログに記録します
func LogError(format string, v ...interface{}) {
	ErrorLogger.Printf(format, v...)
}

// TrackTime は関数の実行時間を計測して出力するユーティリティです
func TrackTime(start time.Time, name string) {
	elapsed := time.Since(start)
	LogInfo("%s 完了時間: %s", name, elapsed)
}
