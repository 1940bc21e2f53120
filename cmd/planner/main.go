package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"smartplanner/internal/calendar"
	"smartplanner/internal/config"
	"smartplanner/internal/entitlement"
	"smartplanner/internal/reminder"
	"smartplanner/internal/storage"
	"smartplanner/internal/store"
	"smartplanner/internal/ui"
)

func main() {
	doAuth := flag.Bool("auth", false, "Authorize Google Calendar access")
	doExport := flag.Bool("export", false, "Write the task snapshot file and exit")
	doRestore := flag.Bool("restore", false, "Replace all tasks from the snapshot file and exit")
	flag.Parse()

	cfg, err := config.LoadOrCreate(config.ResolveConfigPath())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if *doAuth {
		authorize()
		return
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	reminders := reminder.NewScheduler(time.Duration(cfg.ReminderLeadMins) * time.Minute)
	s, err := store.New(db, reminders)
	if err != nil {
		log.Fatalf("failed to build store: %v", err)
	}

	snapshot := storage.NewSnapshot(cfg.SnapshotPath)
	if *doExport {
		if err := snapshot.Save(s.Snapshot()); err != nil {
			log.Fatalf("export failed: %v", err)
		}
		fmt.Printf("Exported %d tasks to %s\n", len(s.Snapshot()), cfg.SnapshotPath)
		return
	}
	if *doRestore {
		tasks, err := snapshot.Load()
		if err != nil {
			log.Fatalf("restore failed: %v", err)
		}
		s.ReplaceAll(tasks)
		fmt.Printf("Restored %d tasks from %s\n", len(tasks), cfg.SnapshotPath)
		return
	}

	ctx := context.Background()
	paid := entitlement.NewChecker(cfg.RemoteConfigURL).IsPaid(ctx)

	var importer ui.Importer
	if svc, err := calendar.NewService(ctx, config.ConfigDir()); err == nil {
		importer = calendar.NewImporter(svc, cfg.CalendarID)
	} else {
		log.Printf("calendar import unavailable: %v", err)
	}

	if err := ui.Run(s, cfg, paid, importer); err != nil {
		log.Fatalf("error running program: %v", err)
	}
}

func authorize() {
	url, err := calendar.AuthURL(config.ConfigDir())
	if err != nil {
		log.Fatalf("authorization setup failed: %v", err)
	}
	fmt.Printf("Open this link in your browser, then paste the code here:\n%s\n> ", url)
	code, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		log.Fatalf("could not read authorization code: %v", err)
	}
	if err := calendar.Authorize(context.Background(), config.ConfigDir(), strings.TrimSpace(code)); err != nil {
		log.Fatalf("authorization failed: %v", err)
	}
	fmt.Println("Authorization successful.")
}
