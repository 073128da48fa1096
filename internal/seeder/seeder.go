// Package seeder fills a development database with a believable project
// catalog and a couple of months of synthetic traffic.
package seeder

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"log/slog"

	"github.com/karloscodes/cartridge"
	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"

	"portfolio/internal/events"
	"portfolio/internal/projects"
	"portfolio/internal/users"
)

const (
	seedDays      = 60
	insertBatch   = 500
	visitorPool   = 200
	adminEmail    = "admin@example.com"
	adminPassword = "password"
)

var seedPaths = []string{"/", "/", "/", "/about", "/projects", "/blog", "/blog/building-this-site", "/contact"}

var seedReferrers = []string{"", "", "", "https://github.com/", "https://news.ycombinator.com/", "https://www.google.com/", "https://lobste.rs/"}

var seedDevices = []string{"desktop", "desktop", "desktop", "mobile", "mobile", "tablet", ""}

var seedCountries = []string{"US", "DE", "GB", "FR", "NL", "ES", "JP", ""}

var seedUTMSources = []string{"", "", "", "", "newsletter", "twitter", "mastodon"}

var seedProjects = []projects.Project{
	{Title: "Terminal Dashboard", Description: "A tui for watching server metrics.", RepoURL: "https://github.com/example/termdash", Tags: "go,tui", Position: 1},
	{Title: "Static Site Engine", Description: "Markdown in, HTML out, nothing else.", LiveURL: "https://ssg.example.com", RepoURL: "https://github.com/example/ssg", Tags: "go,web", Position: 2},
	{Title: "Budget Tracker", Description: "Local-first personal finance.", LiveURL: "https://budget.example.com", Tags: "sqlite,pwa", Position: 3},
}

// Seeder generates sample data for local development.
type Seeder struct {
	DBManager  cartridge.DBManager
	Logger     *slog.Logger
	EventCount int
}

// NewSeeder creates a new seeder instance
func NewSeeder(dbManager cartridge.DBManager, logger *slog.Logger, eventCount int) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		DBManager:  dbManager,
		Logger:     logger,
		EventCount: eventCount,
	}
}

// Seed creates the admin user, the project catalog, and EventCount events
// spread over the last sixty days.
func (s *Seeder) Seed(ctx context.Context) error {
	start := time.Now()
	db := s.DBManager.GetConnection()

	if err := s.seedAdminUser(db); err != nil {
		return fmt.Errorf("seeding admin user: %w", err)
	}

	catalog, err := s.seedProjects(db)
	if err != nil {
		return fmt.Errorf("seeding projects: %w", err)
	}

	if err := s.seedEvents(ctx, db, catalog); err != nil {
		return fmt.Errorf("seeding events: %w", err)
	}

	s.Logger.Info("Seeding completed",
		slog.Int("events", s.EventCount),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

func (s *Seeder) seedAdminUser(db *gorm.DB) error {
	err := users.CreateAdminUser(db, s.Logger, adminEmail, adminPassword)
	if err == users.ErrUserExists {
		s.Logger.Info("Admin user already present", slog.String("email", adminEmail))
		return nil
	}
	return err
}

func (s *Seeder) seedProjects(db *gorm.DB) ([]projects.Project, error) {
	existing, err := projects.GetAllProjects(db)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		s.Logger.Info("Project catalog already present", slog.Int("count", len(existing)))
		return existing, nil
	}

	for i := range seedProjects {
		project := seedProjects[i]
		if err := projects.CreateProject(db, s.Logger, &project); err != nil {
			return nil, err
		}
	}
	return projects.GetAllProjects(db)
}

func (s *Seeder) seedEvents(ctx context.Context, db *gorm.DB, catalog []projects.Project) error {
	batch := make([]events.Event, 0, insertBatch)
	now := time.Now().UTC()

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		toInsert := batch
		batch = batch[:0]
		return sqlite.PerformWrite(s.Logger, db, func(tx *gorm.DB) error {
			return tx.Create(&toInsert).Error
		})
	}

	for i := 0; i < s.EventCount; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		age := time.Duration(rand.IntN(seedDays*24)) * time.Hour
		timestamp := now.Add(-age).UnixMilli()
		visitor := fmt.Sprintf("seed-visitor-%03d", rand.IntN(visitorPool))

		event := events.Event{
			EventType: events.EventTypePageView,
			Path:      pick(seedPaths),
			VisitorID: visitor,
			Referrer:  pick(seedReferrers),
			UTMSource: pick(seedUTMSources),
			Device:    pick(seedDevices),
			Country:   pick(seedCountries),
			Timestamp: timestamp,
		}

		// Roughly a fifth of traffic interacts with the catalog.
		if len(catalog) > 0 && rand.IntN(5) == 0 {
			project := catalog[rand.IntN(len(catalog))]
			event.Path = "/projects"
			event.ProjectID = project.ID
			if rand.IntN(3) == 0 {
				event.EventType = events.EventTypeLiveClick
			} else {
				event.EventType = events.EventTypeProjectView
			}
		}

		batch = append(batch, event)
		if len(batch) >= insertBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	return flush()
}

func pick(options []string) string {
	return options[rand.IntN(len(options))]
}
