package projects

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"
)

// ProjectNotFoundError represents an error when a project is not found
type ProjectNotFoundError struct {
	ID string
}

func (e *ProjectNotFoundError) Error() string {
	return fmt.Sprintf("project not found: %s", e.ID)
}

// NewProjectNotFoundError creates a new ProjectNotFoundError
func NewProjectNotFoundError(id string) *ProjectNotFoundError {
	return &ProjectNotFoundError{ID: id}
}

// Project is a showcased portfolio entry. Analytics joins against ID and
// Title only and never mutates these records.
type Project struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"not null;size:255" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	LiveURL     string    `json:"live_url"`
	RepoURL     string    `json:"repo_url"`
	ImageKey    string    `json:"image_key"`
	Tags        string    `gorm:"size:500" json:"tags"` // comma-separated
	Position    int       `gorm:"not null;default:0" json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Project) TableName() string {
	return "projects"
}

// CreateProject creates a new project. A missing ID gets a fresh UUID and a
// missing position appends the project to the end of the catalog.
func CreateProject(db *gorm.DB, logger *slog.Logger, project *Project) error {
	if project.Title == "" {
		return fmt.Errorf("project title is required")
	}

	if project.ID == "" {
		project.ID = uuid.NewString()
	}

	if project.Position == 0 {
		var maxPosition int
		db.Model(&Project{}).Select("COALESCE(MAX(position), 0)").Scan(&maxPosition)
		project.Position = maxPosition + 1
	}

	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Create(project).Error
	})
}

// GetProjectByID retrieves a project by its identifier
func GetProjectByID(db *gorm.DB, id string) (*Project, error) {
	var project Project
	if err := db.Where("id = ?", id).First(&project).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewProjectNotFoundError(id)
		}
		return nil, fmt.Errorf("unexpected error querying project: %w", err)
	}
	return &project, nil
}

// GetAllProjects retrieves the full catalog in display order
func GetAllProjects(db *gorm.DB) ([]Project, error) {
	var projects []Project
	if err := db.Order("position ASC, created_at ASC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to get projects: %w", err)
	}
	return projects, nil
}

// UpdateProject updates an existing project's editable fields
func UpdateProject(db *gorm.DB, logger *slog.Logger, project *Project) error {
	if project.ID == "" {
		return fmt.Errorf("project ID is required")
	}
	if project.Title == "" {
		return fmt.Errorf("project title is required")
	}

	project.UpdatedAt = time.Now().UTC()

	// Only update specific fields to prevent overwriting created_at
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Model(project).
			Select("title", "description", "live_url", "repo_url", "image_key", "tags", "position", "updated_at").
			Updates(project).Error
	})
}

// DeleteProject deletes a project by its identifier
func DeleteProject(db *gorm.DB, logger *slog.Logger, id string) error {
	var affected int64
	err := sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&Project{})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return NewProjectNotFoundError(id)
	}
	return nil
}

// CountProjects returns the number of catalog entries
func CountProjects(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&Project{}).Count(&count).Error
	return count, err
}
