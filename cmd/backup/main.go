package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"cerdas/internal/config"
	"cerdas/internal/database"
	"cerdas/internal/logging"
	"cerdas/internal/repository"
	"cerdas/internal/service"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: backup <command> [flags]

Commands:
  export -out <file>   write the learning content (subjects, questions,
                       achievements) to a JSON file, or stdout when -out
                       is omitted
  import -in <file>    load a JSON snapshot, inserting content the target
                       database does not yet have
`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg := config.Load()

	logger, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Closer()
	slog := logger.Sugar

	db, err := database.Open(cfg)
	if err != nil {
		slog.Fatalw("failed to open database", "error", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		slog.Fatalw("failed to run migrations", "error", err)
	}

	backup := service.NewBackupService(
		repository.NewSubjectRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewAchievementRepository(db),
		slog,
	)

	switch os.Args[1] {
	case "export":
		fs := flag.NewFlagSet("export", flag.ExitOnError)
		out := fs.String("out", "", "output file (default stdout)")
		fs.Parse(os.Args[2:])

		w := os.Stdout
		if *out != "" {
			f, err := os.Create(*out)
			if err != nil {
				slog.Fatalw("failed to create output file", "error", err)
			}
			defer f.Close()
			w = f
		}

		if err := backup.Export(w); err != nil {
			slog.Fatalw("export failed", "error", err)
		}

	case "import":
		fs := flag.NewFlagSet("import", flag.ExitOnError)
		in := fs.String("in", "", "input file")
		fs.Parse(os.Args[2:])

		if *in == "" {
			fs.Usage()
			os.Exit(2)
		}

		f, err := os.Open(*in)
		if err != nil {
			slog.Fatalw("failed to open input file", "error", err)
		}
		defer f.Close()

		if err := backup.Import(f); err != nil {
			slog.Fatalw("import failed", "error", err)
		}

	default:
		usage()
	}
}
