package advocacy

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusDistribution is the count of stances across all entities eligible to
// take a position on a project. The invariant
//
//	solid_approval + leaning_approval + neutral +
//	leaning_disapproval + solid_disapproval + unknown == total
//
// holds for every distribution produced by this package.
type StatusDistribution struct {
	SolidApproval      int `json:"solid_approval"`
	LeaningApproval    int `json:"leaning_approval"`
	Neutral            int `json:"neutral"`
	LeaningDisapproval int `json:"leaning_disapproval"`
	SolidDisapproval   int `json:"solid_disapproval"`
	Unknown            int `json:"unknown"`
	Total              int `json:"total"`
}

// CalculateDistribution computes the stance distribution for one project.
//
// The denominator is the full entity roster of the project's jurisdiction,
// not the set of entities that happen to have a record: every entity starts
// out counted as neutral, and the explicit records act purely as a sparse
// override map keyed by entity id. An entity with no record and an entity
// with an explicit neutral record are indistinguishable in the result.
// Status values outside the five known categories land in Unknown.
func CalculateDistribution(records []EntityStatusRecord, totalEntities int) StatusDistribution {
	dist := StatusDistribution{
		Neutral: totalEntities,
		Total:   totalEntities,
	}

	// Schema guarantees at most one record per (entity, project); the map
	// collapses any stray duplicates so the invariant survives bad data.
	statusByEntity := make(map[uuid.UUID]EntityStatus, len(records))
	for _, r := range records {
		statusByEntity[r.EntityID] = r.Status
	}

	for _, status := range statusByEntity {
		if status == StatusNeutral {
			continue // already counted
		}

		dist.Neutral--

		switch status {
		case StatusSolidApproval:
			dist.SolidApproval++
		case StatusLeaningApproval:
			dist.LeaningApproval++
		case StatusLeaningDisapproval:
			dist.LeaningDisapproval++
		case StatusSolidDisapproval:
			dist.SolidDisapproval++
		default:
			dist.Unknown++
		}
	}

	return dist
}

// DistributionForProject fetches the project's jurisdiction roster and status
// records, then computes the distribution. A nil project, a project without a
// jurisdiction, or a jurisdiction with no entities all yield the zero-valued
// distribution; none of these are errors.
func DistributionForProject(db *gorm.DB, project *Project) (StatusDistribution, error) {
	if project == nil || project.JurisdictionID == nil {
		return StatusDistribution{}, nil
	}

	var entityIDs []uuid.UUID
	if err := db.Model(&Entity{}).
		Where("jurisdiction_id = ?", *project.JurisdictionID).
		Pluck("id", &entityIDs).Error; err != nil {
		return StatusDistribution{}, fmt.Errorf("fetch jurisdiction entities: %w", err)
	}

	if len(entityIDs) == 0 {
		return StatusDistribution{}, nil
	}

	var records []EntityStatusRecord
	if err := db.
		Where("project_id = ? AND entity_id IN ?", project.ID, entityIDs).
		Find(&records).Error; err != nil {
		return StatusDistribution{}, fmt.Errorf("fetch status records: %w", err)
	}

	return CalculateDistribution(records, len(entityIDs)), nil
}

// DistributionForProjectID is the by-id variant used by the distribution
// endpoint. A missing project yields the zero distribution so callers can
// render "no data" views without special-casing.
func DistributionForProjectID(db *gorm.DB, projectID uuid.UUID) (StatusDistribution, error) {
	var project Project
	err := db.First(&project, "id = ?", projectID).Error
	if err == gorm.ErrRecordNotFound {
		return StatusDistribution{}, nil
	}
	if err != nil {
		return StatusDistribution{}, fmt.Errorf("fetch project: %w", err)
	}
	return DistributionForProject(db, &project)
}

// EnrichProjects attaches a status distribution and the jurisdiction display
// name to every project in the slice. It runs a fixed number of batched
// queries regardless of list length: one for the rosters of every referenced
// jurisdiction, one for the status records of every listed project, one for
// jurisdiction names.
func EnrichProjects(db *gorm.DB, projects []Project) ([]Project, error) {
	if len(projects) == 0 {
		return projects, nil
	}

	jurisdictionIDs := make([]uuid.UUID, 0, len(projects))
	seen := make(map[uuid.UUID]bool)
	projectIDs := make([]uuid.UUID, 0, len(projects))
	for _, p := range projects {
		projectIDs = append(projectIDs, p.ID)
		if p.JurisdictionID != nil && !seen[*p.JurisdictionID] {
			seen[*p.JurisdictionID] = true
			jurisdictionIDs = append(jurisdictionIDs, *p.JurisdictionID)
		}
	}

	// Roster of every referenced jurisdiction, in one IN query.
	entityJurisdiction := make(map[uuid.UUID]uuid.UUID)
	rosterSize := make(map[uuid.UUID]int)
	if len(jurisdictionIDs) > 0 {
		var rows []struct {
			ID             uuid.UUID
			JurisdictionID uuid.UUID
		}
		if err := db.Model(&Entity{}).
			Select("id", "jurisdiction_id").
			Where("jurisdiction_id IN ?", jurisdictionIDs).
			Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("fetch entity rosters: %w", err)
		}
		for _, row := range rows {
			entityJurisdiction[row.ID] = row.JurisdictionID
			rosterSize[row.JurisdictionID]++
		}
	}

	// Status records for all listed projects at once, grouped afterwards.
	recordsByProject := make(map[uuid.UUID][]EntityStatusRecord)
	if len(entityJurisdiction) > 0 {
		var records []EntityStatusRecord
		if err := db.
			Where("project_id IN ?", projectIDs).
			Find(&records).Error; err != nil {
			return nil, fmt.Errorf("fetch status records: %w", err)
		}
		for _, r := range records {
			recordsByProject[r.ProjectID] = append(recordsByProject[r.ProjectID], r)
		}
	}

	jurisdictionNames := make(map[uuid.UUID]string)
	if len(jurisdictionIDs) > 0 {
		var jurisdictions []Jurisdiction
		if err := db.Where("id IN ?", jurisdictionIDs).Find(&jurisdictions).Error; err != nil {
			return nil, fmt.Errorf("fetch jurisdictions: %w", err)
		}
		for _, j := range jurisdictions {
			jurisdictionNames[j.ID] = j.Name
		}
	}

	for i := range projects {
		p := &projects[i]

		dist := StatusDistribution{}
		if p.JurisdictionID != nil {
			total := rosterSize[*p.JurisdictionID]
			if total > 0 {
				// Records for entities outside the project's jurisdiction
				// (e.g. a project re-scoped after canvassing) must not leak
				// into the distribution.
				var scoped []EntityStatusRecord
				for _, r := range recordsByProject[p.ID] {
					if entityJurisdiction[r.EntityID] == *p.JurisdictionID {
						scoped = append(scoped, r)
					}
				}
				dist = CalculateDistribution(scoped, total)
			}
			p.JurisdictionName = jurisdictionNames[*p.JurisdictionID]
		}
		p.StatusDistribution = &dist
	}

	return projects, nil
}
