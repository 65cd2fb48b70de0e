package main

import (
	"fmt"
	"os"

	"github.com/ikkim/storerating-backend/config"
	"github.com/ikkim/storerating-backend/internal/app"
	"github.com/ikkim/storerating-backend/internal/db"
	"github.com/ikkim/storerating-backend/internal/seed"
	"github.com/ikkim/storerating-backend/pkg/logger"
	"github.com/ikkim/storerating-backend/pkg/util"
)

func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: go run cmd/seed/main.go <xlsx_file_path>")
		os.Exit(2)
	}
	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	logger.Initialize(logger.Config{
		Level:  cfg.Log.Level,
		Format: "console",
	})

	conn, err := db.Initialize(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer db.Close(conn)

	if err := db.Migrate(conn); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// XLSX 파일 읽기
	wb, err := seed.ReadFile(filePath)
	if err != nil {
		logger.Fatal("Failed to read XLSX", err)
	}
	fmt.Printf("Rows to import: %d users, %d stores\n", len(wb.Users), len(wb.Stores))

	services := app.NewServices(app.Dependencies{
		Config: cfg,
		DB:     conn,
		Hasher: util.NewPasswordHasher(cfg.Security.BcryptCost),
	})

	report, err := seed.Import(services.Admin, wb)
	if err != nil {
		logger.Fatal("Import aborted", err)
	}

	fmt.Println("Import completed!")
	fmt.Printf("Users created: %d\n", report.UsersCreated)
	fmt.Printf("Stores created: %d\n", report.StoresCreated)
	fmt.Printf("Skipped (already exist): %d\n", report.Skipped)
	for _, failure := range report.Failures {
		fmt.Printf("  - %s\n", failure.Error())
	}
	if len(report.Failures) > 0 {
		os.Exit(1)
	}
}
