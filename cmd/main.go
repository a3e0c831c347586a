package main

import (
	"fmt"
	"log"
	"os"

	tm "github.com/buger/goterm"
	"github.com/itsatony/sensorhub/internal/config"
	"github.com/itsatony/sensorhub/internal/logging"
	"github.com/itsatony/sensorhub/internal/server"
	nuts "github.com/vaudience/go-nuts"
)

// @title sensorhub API
// @version 1.0
// @description Sensor readings store with dashboard aggregates and CSV import.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	syncLogs, err := logging.Setup(cfg.Monitoring.LogLevel)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer syncLogs()

	// Clear console and draw logo
	ClearConsole()
	DrawLogo()
	// Initialize version info
	nuts.InitVersion()
	nuts.L.Infof("[Main] Starting sensorhub v%s", nuts.GetVersion())

	// Create and start server
	srv := server.New(cfg)
	if err := srv.Start(); err != nil {
		nuts.L.Errorf("[Main] Server error: %v", err)
		syncLogs()
		os.Exit(1)
	}
}

// ClearConsole clears the console screen.
func ClearConsole() {
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Flush()
}

func DrawLogo() {
	fmt.Println()
	lines := []string{
		"                                 __          __  ",
		"   ________  ____  _________  __/ /_  __  __/ /_ ",
		"  / ___/ _ \\/ __ \\/ ___/ __ \\/ __ \\/ / / / __ \\",
		" (__  )  __/ / / (__  ) /_/ / / / / /_/ / /_/ /",
		"/____/\\___/_/ /_/____/\\____/_/ /_/\\__,_/_.___/ ",
		"..........................................  " + nuts.GetVersion(),
	}

	for _, line := range lines {
		fmt.Println(line)
	}
}
