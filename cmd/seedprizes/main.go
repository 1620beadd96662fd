// Command seedprizes loads a YAML prize schedule into the database:
// per-day prize slots plus the redemption code inventory. Run it before a
// campaign day opens; existing slots are left untouched.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/campaign-hub/campaign-hub/internal/config"
	"github.com/campaign-hub/campaign-hub/internal/domain/prize"
	"github.com/campaign-hub/campaign-hub/internal/infrastructure/postgres"
	"github.com/campaign-hub/campaign-hub/internal/migrations"
)

type schedule struct {
	Slots []struct {
		Day    string `yaml:"day"`
		Number int    `yaml:"number"`
		Prize  string `yaml:"prize"`
	} `yaml:"slots"`
	Codes []struct {
		Amount int    `yaml:"amount"`
		Code   string `yaml:"code"`
		Link   string `yaml:"link"`
	} `yaml:"codes"`
}

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	file := flag.String("file", cfg.PrizeScheduleFile, "prize schedule YAML file")
	flag.Parse()

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("failed to read schedule: %v", err)
	}
	var sched schedule
	if err := yaml.Unmarshal(data, &sched); err != nil {
		log.Fatalf("failed to parse schedule: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool, migrations.FS); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	slotRepo := postgres.NewSlotRepository(pool)
	codeRepo := postgres.NewCodeRepository(pool)

	for _, s := range sched.Slots {
		if _, err := time.Parse("2006-01-02", s.Day); err != nil {
			log.Fatalf("invalid slot day %q: %v", s.Day, err)
		}
		slot := &prize.Slot{Day: s.Day, Number: s.Number, Prize: s.Prize}
		if err := slotRepo.Create(ctx, slot); err != nil {
			log.Fatalf("failed to create slot %s/%d: %v", s.Day, s.Number, err)
		}
	}
	for _, c := range sched.Codes {
		code := &prize.Code{
			CodeID:    uuid.New(),
			Amount:    c.Amount,
			Code:      c.Code,
			Link:      c.Link,
			CreatedAt: time.Now().UTC(),
		}
		if err := codeRepo.Create(ctx, code); err != nil {
			log.Fatalf("failed to create code for amount %d: %v", c.Amount, err)
		}
	}

	logger.Info().
		Int("slots", len(sched.Slots)).
		Int("codes", len(sched.Codes)).
		Msg("prize schedule seeded")
}
