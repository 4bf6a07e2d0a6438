package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BastardoSenpai/BootlegXCom/internal/config"
	"github.com/BastardoSenpai/BootlegXCom/internal/infrastructure/storage"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}
	logger.Init()

	// Хранилище берется из того же конфига, что и у сервера
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Printf("Config error: %v\n", err)
		os.Exit(1)
	}
	store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		fmt.Printf("Storage error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := run(ctx, store, os.Args[1], os.Args[2:]); err != nil {
		fmt.Printf("Error: %v\n", err)
		cancel()
		store.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, store *storage.Store, cmd string, args []string) error {
	switch cmd {
	case "list":
		recs, err := store.List(ctx, 50)
		if err != nil {
			return err
		}
		for _, r := range recs {
			fmt.Printf("%4d  %-12s %-16s %-10s round=%d left=%d seed=%d  %s\n",
				r.ID, r.Name, r.MissionType, r.Status, r.Round, r.TurnsRemaining, r.Seed,
				r.CreatedAt.Format(time.RFC3339))
		}
	case "show":
		id, err := parseID(args, "show <id>")
		if err != nil {
			return err
		}
		snap, err := store.Load(ctx, id)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case "export":
		if len(args) < 2 {
			return fmt.Errorf("usage: snapshotctl export <id> <file>")
		}
		id, err := parseID(args, "export <id> <file>")
		if err != nil {
			return err
		}
		snap, err := store.Load(ctx, id)
		if err != nil {
			return err
		}
		if err := storage.ExportFile(args[1], snap); err != nil {
			return err
		}
		fmt.Printf("Exported snapshot %d to %s\n", id, args[1])
	case "import":
		if len(args) < 1 {
			return fmt.Errorf("usage: snapshotctl import <file> [name]")
		}
		snap, err := storage.ImportFile(args[0])
		if err != nil {
			return err
		}
		name := "imported"
		if len(args) > 1 {
			name = args[1]
		}
		id, err := store.Save(ctx, name, snap)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %s as snapshot %d\n", args[0], id)
	case "delete":
		id, err := parseID(args, "delete <id>")
		if err != nil {
			return err
		}
		return store.Delete(ctx, id)
	default:
		printHelp()
	}
	return nil
}

func parseID(args []string, usage string) (uint, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("usage: snapshotctl %s", usage)
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snapshot id %q: %w", args[0], err)
	}
	return uint(id), nil
}

func printHelp() {
	fmt.Println(`Snapshot Utility - работа с сохраненными боями
Commands:
  list                   - последние снимки в базе
  show <id>              - снимок в JSON
  export <id> <file>     - выгрузить снимок в файл .bxsn
  import <file> [name]   - загрузить файл .bxsn в базу
  delete <id>            - удалить снимок

Хранилище: tactics.{json,yaml} в текущем каталоге или TACTICS_STORAGE_DRIVER / TACTICS_STORAGE_DSN`)
}
