package advocacy

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectStatus is the lifecycle state of an advocacy project.
type ProjectStatus string

const (
	ProjectDraft     ProjectStatus = "draft"
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

// EntityStatus is the stance of one entity toward one project.
type EntityStatus string

const (
	StatusSolidApproval      EntityStatus = "solid_approval"
	StatusLeaningApproval    EntityStatus = "leaning_approval"
	StatusNeutral            EntityStatus = "neutral"
	StatusLeaningDisapproval EntityStatus = "leaning_disapproval"
	StatusSolidDisapproval   EntityStatus = "solid_disapproval"
)

// Jurisdiction is a governing body (city council, state house, state senate, ...).
// Jurisdictions form a tree: wards under a city council, chambers under a state.
type Jurisdiction struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Level       string     `gorm:"size:50;not null" json:"level"` // city_council, state_house, state_senate, ward
	ParentID    *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (Jurisdiction) TableName() string { return "jurisdictions" }

func (j *Jurisdiction) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// District is a geographic subdivision of a jurisdiction ("Ward 4").
// Boundary holds opaque GeoJSON (bare geometry, Feature, or FeatureCollection)
// exactly as imported; it stays nil until a boundary import runs.
type District struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string          `gorm:"size:255;not null" json:"name"`
	Code           string          `gorm:"size:50;index:idx_districts_jurisdiction_code" json:"code,omitempty"`
	JurisdictionID uuid.UUID       `gorm:"type:uuid;not null;index:idx_districts_jurisdiction_code" json:"jurisdiction_id"`
	Boundary       json.RawMessage `gorm:"type:jsonb" json:"boundary,omitempty"`
}

func (District) TableName() string { return "districts" }

func (d *District) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Entity is an officeholder: an alderperson, state representative, senator.
type Entity struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	Title          string    `gorm:"size:255" json:"title,omitempty"`
	EntityType     string    `gorm:"size:50;not null" json:"entity_type"`
	JurisdictionID uuid.UUID `gorm:"type:uuid;not null;index" json:"jurisdiction_id"`
	DistrictID     uuid.UUID `gorm:"type:uuid;not null;index" json:"district_id"`
	ImageURL       string    `gorm:"size:255" json:"image_url,omitempty"`

	Email   string `gorm:"size:255" json:"email,omitempty"`
	Phone   string `gorm:"size:50" json:"phone,omitempty"`
	Website string `gorm:"size:255" json:"website,omitempty"`
	Address string `gorm:"type:text" json:"address,omitempty"`

	// DistrictName is filled in by lookups so API responses are
	// self-describing without a client-side join.
	DistrictName string `gorm:"-" json:"district_name,omitempty"`
}

func (Entity) TableName() string { return "entities" }

func (e *Entity) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Project is an advocacy campaign scoped to one jurisdiction's entity roster.
type Project struct {
	ID               uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Title            string        `gorm:"size:255;not null" json:"title"`
	Description      string        `gorm:"type:text" json:"description,omitempty"`
	Status           ProjectStatus `gorm:"size:50;not null;default:draft" json:"status"`
	Active           bool          `gorm:"default:true" json:"active"`
	Link             string        `gorm:"size:255" json:"link,omitempty"`
	PreferredStatus  EntityStatus  `gorm:"size:50;not null;default:solid_approval" json:"preferred_status"`
	TemplateResponse string        `gorm:"type:text" json:"template_response,omitempty"`
	CreatedBy        string        `gorm:"size:255" json:"created_by,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	VoteCount        int           `gorm:"default:0" json:"vote_count"`
	JurisdictionID   *uuid.UUID    `gorm:"type:uuid;index" json:"jurisdiction_id,omitempty"`
	GroupID          *uuid.UUID    `gorm:"type:uuid;index" json:"group_id,omitempty"`

	// Computed view fields, never stored.
	JurisdictionName   string              `gorm:"-" json:"jurisdiction_name,omitempty"`
	StatusDistribution *StatusDistribution `gorm:"-" json:"status_distribution,omitempty"`
}

func (Project) TableName() string { return "projects" }

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Group is an advocacy organization owning zero or more projects.
type Group struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Group) TableName() string { return "groups" }

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// EntityStatusRecord is one entity's recorded stance on one project.
// At most one record exists per (entity, project); handler code collapses
// duplicate creates into updates of the existing row.
type EntityStatusRecord struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	EntityID  uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_status_entity_project" json:"entity_id"`
	ProjectID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_status_entity_project" json:"project_id"`
	Status    EntityStatus `gorm:"size:50;not null;default:neutral" json:"status"`
	Notes     string       `gorm:"type:text" json:"notes,omitempty"`
	UpdatedAt time.Time    `json:"updated_at"`
	UpdatedBy string       `gorm:"size:255;not null" json:"updated_by"`
}

func (EntityStatusRecord) TableName() string { return "entity_status_records" }

func (r *EntityStatusRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
