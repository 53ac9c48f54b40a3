// Package seeds loads development fixture data from a YAML file:
// jurisdictions with their districts and entities, plus groups and projects.
// Seeding is idempotent: records are matched by name/title and only created
// when missing.
package seeds

import (
	"fmt"
	"log"
	"os"

	"github.com/OpenAdvocacy/OA-Backend/internal/advocacy"
	"github.com/OpenAdvocacy/OA-Backend/internal/db"
	"github.com/goccy/go-yaml"
	"gorm.io/gorm"
)

type fixtureFile struct {
	Jurisdictions []jurisdictionFixture `yaml:"jurisdictions"`
	Groups        []groupFixture        `yaml:"groups"`
	Projects      []projectFixture      `yaml:"projects"`
}

type jurisdictionFixture struct {
	Name        string            `yaml:"name"`
	Level       string            `yaml:"level"`
	Description string            `yaml:"description"`
	Parent      string            `yaml:"parent"`
	Districts   []districtFixture `yaml:"districts"`
	Entities    []entityFixture   `yaml:"entities"`
}

type districtFixture struct {
	Name string `yaml:"name"`
	Code string `yaml:"code"`
}

type entityFixture struct {
	Name       string `yaml:"name"`
	Title      string `yaml:"title"`
	EntityType string `yaml:"entity_type"`
	District   string `yaml:"district"` // district code or name within the jurisdiction
	Email      string `yaml:"email"`
	Phone      string `yaml:"phone"`
	Website    string `yaml:"website"`
	Address    string `yaml:"address"`
}

type groupFixture struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type projectFixture struct {
	Title           string `yaml:"title"`
	Description     string `yaml:"description"`
	Status          string `yaml:"status"`
	PreferredStatus string `yaml:"preferred_status"`
	Link            string `yaml:"link"`
	Jurisdiction    string `yaml:"jurisdiction"` // jurisdiction name
	Group           string `yaml:"group"`        // group name
}

// SeedFromFile reads the fixture file and creates anything that is missing.
func SeedFromFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixture file: %w", err)
	}

	var fixtures fixtureFile
	if err := yaml.Unmarshal(raw, &fixtures); err != nil {
		return fmt.Errorf("parse fixture file: %w", err)
	}

	for _, jf := range fixtures.Jurisdictions {
		if err := seedJurisdiction(db.DB, jf); err != nil {
			return err
		}
	}
	for _, gf := range fixtures.Groups {
		group := advocacy.Group{Name: gf.Name, Description: gf.Description}
		if err := db.DB.Where("name = ?", gf.Name).FirstOrCreate(&group).Error; err != nil {
			return fmt.Errorf("seed group %q: %w", gf.Name, err)
		}
	}
	for _, pf := range fixtures.Projects {
		if err := seedProject(db.DB, pf); err != nil {
			return err
		}
	}

	return nil
}

func seedJurisdiction(tx *gorm.DB, jf jurisdictionFixture) error {
	jur := advocacy.Jurisdiction{
		Name:        jf.Name,
		Level:       jf.Level,
		Description: jf.Description,
	}

	if jf.Parent != "" {
		var parent advocacy.Jurisdiction
		if err := tx.First(&parent, "name = ?", jf.Parent).Error; err != nil {
			return fmt.Errorf("jurisdiction %q: parent %q not found (order fixtures parent-first)", jf.Name, jf.Parent)
		}
		jur.ParentID = &parent.ID
	}

	if err := tx.Where("name = ?", jf.Name).FirstOrCreate(&jur).Error; err != nil {
		return fmt.Errorf("seed jurisdiction %q: %w", jf.Name, err)
	}

	districtsByKey := make(map[string]advocacy.District)
	for _, df := range jf.Districts {
		district := advocacy.District{
			Name:           df.Name,
			Code:           df.Code,
			JurisdictionID: jur.ID,
		}
		if err := tx.Where("jurisdiction_id = ? AND name = ?", jur.ID, df.Name).
			FirstOrCreate(&district).Error; err != nil {
			return fmt.Errorf("seed district %q: %w", df.Name, err)
		}
		districtsByKey[df.Name] = district
		if df.Code != "" {
			districtsByKey[df.Code] = district
		}
	}

	for _, ef := range jf.Entities {
		district, ok := districtsByKey[ef.District]
		if !ok {
			log.Printf("[seeds] skipping entity %q: district %q not in fixture", ef.Name, ef.District)
			continue
		}
		entity := advocacy.Entity{
			Name:           ef.Name,
			Title:          ef.Title,
			EntityType:     ef.EntityType,
			JurisdictionID: jur.ID,
			DistrictID:     district.ID,
			Email:          ef.Email,
			Phone:          ef.Phone,
			Website:        ef.Website,
			Address:        ef.Address,
		}
		if err := tx.Where("jurisdiction_id = ? AND name = ?", jur.ID, ef.Name).
			FirstOrCreate(&entity).Error; err != nil {
			return fmt.Errorf("seed entity %q: %w", ef.Name, err)
		}
	}

	return nil
}

func seedProject(tx *gorm.DB, pf projectFixture) error {
	project := advocacy.Project{
		Title:           pf.Title,
		Description:     pf.Description,
		Status:          advocacy.ProjectStatus(pf.Status),
		PreferredStatus: advocacy.EntityStatus(pf.PreferredStatus),
		Link:            pf.Link,
		Active:          true,
	}
	if project.Status == "" {
		project.Status = advocacy.ProjectDraft
	}
	if project.PreferredStatus == "" {
		project.PreferredStatus = advocacy.StatusSolidApproval
	}

	if pf.Jurisdiction != "" {
		var jur advocacy.Jurisdiction
		if err := tx.First(&jur, "name = ?", pf.Jurisdiction).Error; err != nil {
			return fmt.Errorf("project %q: jurisdiction %q not found", pf.Title, pf.Jurisdiction)
		}
		project.JurisdictionID = &jur.ID
	}
	if pf.Group != "" {
		var group advocacy.Group
		if err := tx.First(&group, "name = ?", pf.Group).Error; err != nil {
			return fmt.Errorf("project %q: group %q not found", pf.Title, pf.Group)
		}
		project.GroupID = &group.ID
	}

	if err := tx.Where("title = ?", pf.Title).FirstOrCreate(&project).Error; err != nil {
		return fmt.Errorf("seed project %q: %w", pf.Title, err)
	}
	return nil
}
