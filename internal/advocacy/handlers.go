package advocacy

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/OpenAdvocacy/OA-Backend/internal/db"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// ---- Projects ----

func ListProjects(w http.ResponseWriter, r *http.Request) {
	q := db.DB.Model(&Project{})

	if status := r.URL.Query().Get("status"); status != "" {
		q = q.Where("status = ?", status)
	} else {
		// Archived projects are hidden unless asked for explicitly.
		q = q.Where("status <> ?", ProjectArchived)
	}

	if groupID := r.URL.Query().Get("group_id"); groupID != "" {
		gid, err := uuid.Parse(groupID)
		if err != nil {
			http.Error(w, "Invalid group_id", http.StatusBadRequest)
			return
		}
		q = q.Where("group_id = ?", gid)
	}

	var projects []Project
	if err := q.Order("created_at DESC").Find(&projects).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	projects, err := EnrichProjects(db.DB, projects)
	if err != nil {
		http.Error(w, "Failed to enrich projects: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, projects)
}

func GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var project Project
	if err := db.DB.First(&project, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			http.Error(w, "Project not found", http.StatusNotFound)
			return
		}
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	enriched, err := EnrichProjects(db.DB, []Project{project})
	if err != nil {
		http.Error(w, "Failed to enrich project: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, enriched[0])
}

// GetProjectDistribution serves the distribution as a standalone resource.
// A missing project returns the zero distribution, not a 404, so dashboards
// can render "no data" safely.
func GetProjectDistribution(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	dist, err := DistributionForProjectID(db.DB, id)
	if err != nil {
		http.Error(w, "Failed to compute distribution: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, dist)
}

func CreateProject(w http.ResponseWriter, r *http.Request) {
	var input Project
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if input.Title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}
	if input.Status == "" {
		input.Status = ProjectDraft
	}
	if input.PreferredStatus == "" {
		input.PreferredStatus = StatusSolidApproval
	}

	if input.GroupID != nil {
		var group Group
		if err := db.DB.First(&group, "id = ?", *input.GroupID).Error; err != nil {
			http.Error(w, "Group not found", http.StatusBadRequest)
			return
		}
	}
	if input.JurisdictionID != nil {
		var jur Jurisdiction
		if err := db.DB.First(&jur, "id = ?", *input.JurisdictionID).Error; err != nil {
			http.Error(w, "Jurisdiction not found", http.StatusBadRequest)
			return
		}
	}

	input.ID = uuid.Nil
	if err := db.DB.Create(&input).Error; err != nil {
		http.Error(w, "Failed to create project", http.StatusInternalServerError)
		return
	}

	writeJSONStatus(w, http.StatusCreated, input)
}

func UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var existing Project
	if err := db.DB.First(&existing, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			http.Error(w, "Project not found", http.StatusNotFound)
			return
		}
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var input Project
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if input.GroupID != nil {
		var group Group
		if err := db.DB.First(&group, "id = ?", *input.GroupID).Error; err != nil {
			http.Error(w, "Group not found", http.StatusBadRequest)
			return
		}
	}
	if input.JurisdictionID != nil {
		var jur Jurisdiction
		if err := db.DB.First(&jur, "id = ?", *input.JurisdictionID).Error; err != nil {
			http.Error(w, "Jurisdiction not found", http.StatusBadRequest)
			return
		}
	}

	input.ID = existing.ID
	input.CreatedAt = existing.CreatedAt
	if err := db.DB.Save(&input).Error; err != nil {
		http.Error(w, "Failed to update project", http.StatusInternalServerError)
		return
	}

	writeJSON(w, input)
}

func DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	result := db.DB.Delete(&Project{}, "id = ?", id)
	if result.Error != nil {
		http.Error(w, "Failed to delete project", http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ---- Jurisdictions ----

func ListJurisdictions(w http.ResponseWriter, r *http.Request) {
	q := db.DB.Model(&Jurisdiction{})

	if level := r.URL.Query().Get("level"); level != "" {
		q = q.Where("level = ?", level)
	}
	if parentID := r.URL.Query().Get("parent_id"); parentID != "" {
		pid, err := uuid.Parse(parentID)
		if err != nil {
			http.Error(w, "Invalid parent_id", http.StatusBadRequest)
			return
		}
		q = q.Where("parent_id = ?", pid)
	}

	var jurisdictions []Jurisdiction
	if err := q.Order("name").Find(&jurisdictions).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, jurisdictions)
}

func GetJurisdiction(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var jur Jurisdiction
	if err := db.DB.First(&jur, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			http.Error(w, "Jurisdiction not found", http.StatusNotFound)
			return
		}
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, jur)
}

func CreateJurisdiction(w http.ResponseWriter, r *http.Request) {
	var input Jurisdiction
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if input.Name == "" || input.Level == "" {
		http.Error(w, "Name and level are required", http.StatusBadRequest)
		return
	}

	if input.ParentID != nil {
		var parent Jurisdiction
		if err := db.DB.First(&parent, "id = ?", *input.ParentID).Error; err != nil {
			http.Error(w, "Parent jurisdiction not found", http.StatusBadRequest)
			return
		}
	}

	input.ID = uuid.Nil
	if err := db.DB.Create(&input).Error; err != nil {
		http.Error(w, "Failed to create jurisdiction", http.StatusInternalServerError)
		return
	}

	writeJSONStatus(w, http.StatusCreated, input)
}

// ---- Districts ----

func ListDistricts(w http.ResponseWriter, r *http.Request) {
	q := db.DB.Model(&District{})

	if jurID := r.URL.Query().Get("jurisdiction_id"); jurID != "" {
		jid, err := uuid.Parse(jurID)
		if err != nil {
			http.Error(w, "Invalid jurisdiction_id", http.StatusBadRequest)
			return
		}
		q = q.Where("jurisdiction_id = ?", jid)
	}

	var districts []District
	if err := q.Order("name").Find(&districts).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, districts)
}

func GetDistrict(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var district District
	if err := db.DB.First(&district, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			http.Error(w, "District not found", http.StatusNotFound)
			return
		}
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, district)
}

func CreateDistrict(w http.ResponseWriter, r *http.Request) {
	var input District
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if input.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	var jur Jurisdiction
	if err := db.DB.First(&jur, "id = ?", input.JurisdictionID).Error; err != nil {
		http.Error(w, "Jurisdiction not found", http.StatusBadRequest)
		return
	}

	// Code uniqueness is scoped to the jurisdiction.
	if input.Code != "" {
		var count int64
		db.DB.Model(&District{}).
			Where("jurisdiction_id = ? AND code = ?", input.JurisdictionID, input.Code).
			Count(&count)
		if count > 0 {
			http.Error(w, "District code already exists in this jurisdiction", http.StatusConflict)
			return
		}
	}

	input.ID = uuid.Nil
	if err := db.DB.Create(&input).Error; err != nil {
		http.Error(w, "Failed to create district", http.StatusInternalServerError)
		return
	}

	writeJSONStatus(w, http.StatusCreated, input)
}

// ---- Entities ----

// attachDistrictNames fills Entity.DistrictName with one batched lookup.
func attachDistrictNames(entities []Entity) error {
	if len(entities) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(entities))
	seen := make(map[uuid.UUID]bool)
	for _, e := range entities {
		if !seen[e.DistrictID] {
			seen[e.DistrictID] = true
			ids = append(ids, e.DistrictID)
		}
	}

	var districts []District
	if err := db.DB.Select("id", "name").Where("id IN ?", ids).Find(&districts).Error; err != nil {
		return err
	}

	names := make(map[uuid.UUID]string, len(districts))
	for _, d := range districts {
		names[d.ID] = d.Name
	}
	for i := range entities {
		entities[i].DistrictName = names[entities[i].DistrictID]
	}
	return nil
}

func ListEntities(w http.ResponseWriter, r *http.Request) {
	q := db.DB.Model(&Entity{})

	if jurID := r.URL.Query().Get("jurisdiction_id"); jurID != "" {
		jid, err := uuid.Parse(jurID)
		if err != nil {
			http.Error(w, "Invalid jurisdiction_id", http.StatusBadRequest)
			return
		}
		q = q.Where("jurisdiction_id = ?", jid)
	}
	if districtID := r.URL.Query().Get("district_id"); districtID != "" {
		did, err := uuid.Parse(districtID)
		if err != nil {
			http.Error(w, "Invalid district_id", http.StatusBadRequest)
			return
		}
		q = q.Where("district_id = ?", did)
	}

	var entities []Entity
	if err := q.Order("name").Find(&entities).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := attachDistrictNames(entities); err != nil {
		http.Error(w, "Failed to enrich entities: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, entities)
}

func GetEntity(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var entity Entity
	if err := db.DB.First(&entity, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			http.Error(w, "Entity not found", http.StatusNotFound)
			return
		}
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var district District
	if err := db.DB.Select("id", "name").First(&district, "id = ?", entity.DistrictID).Error; err == nil {
		entity.DistrictName = district.Name
	}

	writeJSON(w, entity)
}

func CreateEntity(w http.ResponseWriter, r *http.Request) {
	var input Entity
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if input.Name == "" || input.EntityType == "" {
		http.Error(w, "Name and entity_type are required", http.StatusBadRequest)
		return
	}

	var jur Jurisdiction
	if err := db.DB.First(&jur, "id = ?", input.JurisdictionID).Error; err != nil {
		http.Error(w, "Jurisdiction not found", http.StatusBadRequest)
		return
	}

	var district District
	if err := db.DB.First(&district, "id = ?", input.DistrictID).Error; err != nil {
		http.Error(w, "District not found", http.StatusBadRequest)
		return
	}
	if district.JurisdictionID != input.JurisdictionID {
		http.Error(w, "District does not belong to the given jurisdiction", http.StatusBadRequest)
		return
	}

	input.ID = uuid.Nil
	if err := db.DB.Create(&input).Error; err != nil {
		http.Error(w, "Failed to create entity", http.StatusInternalServerError)
		return
	}

	writeJSONStatus(w, http.StatusCreated, input)
}

// ---- Status records ----

func ListStatusRecords(w http.ResponseWriter, r *http.Request) {
	q := db.DB.Model(&EntityStatusRecord{})

	if projectID := r.URL.Query().Get("project_id"); projectID != "" {
		pid, err := uuid.Parse(projectID)
		if err != nil {
			http.Error(w, "Invalid project_id", http.StatusBadRequest)
			return
		}
		q = q.Where("project_id = ?", pid)
	}
	if entityID := r.URL.Query().Get("entity_id"); entityID != "" {
		eid, err := uuid.Parse(entityID)
		if err != nil {
			http.Error(w, "Invalid entity_id", http.StatusBadRequest)
			return
		}
		q = q.Where("entity_id = ?", eid)
	}

	var records []EntityStatusRecord
	if err := q.Order("updated_at DESC").Find(&records).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, records)
}

// CreateStatusRecord creates a stance record, or updates the existing one if
// the (entity, project) pair already has a record. The collapse keeps the
// at-most-one-record invariant that the distribution math relies on.
func CreateStatusRecord(w http.ResponseWriter, r *http.Request) {
	var input EntityStatusRecord
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if input.Status == "" {
		input.Status = StatusNeutral
	}

	var project Project
	if err := db.DB.First(&project, "id = ?", input.ProjectID).Error; err != nil {
		http.Error(w, "Project not found", http.StatusBadRequest)
		return
	}
	var entity Entity
	if err := db.DB.First(&entity, "id = ?", input.EntityID).Error; err != nil {
		http.Error(w, "Entity not found", http.StatusBadRequest)
		return
	}

	var existing EntityStatusRecord
	err := db.DB.
		Where("entity_id = ? AND project_id = ?", input.EntityID, input.ProjectID).
		First(&existing).Error

	if err == nil {
		existing.Status = input.Status
		existing.Notes = input.Notes
		existing.UpdatedBy = input.UpdatedBy
		existing.UpdatedAt = time.Now()
		if err := db.DB.Save(&existing).Error; err != nil {
			http.Error(w, "Failed to update status record", http.StatusInternalServerError)
			return
		}
		writeJSON(w, existing)
		return
	}

	if err != gorm.ErrRecordNotFound {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	input.ID = uuid.Nil
	input.UpdatedAt = time.Now()
	if err := db.DB.Create(&input).Error; err != nil {
		http.Error(w, "Failed to create status record", http.StatusInternalServerError)
		return
	}

	writeJSONStatus(w, http.StatusCreated, input)
}

func UpdateStatusRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var existing EntityStatusRecord
	if err := db.DB.First(&existing, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			http.Error(w, "Status record not found", http.StatusNotFound)
			return
		}
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var input EntityStatusRecord
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if input.Status != "" {
		existing.Status = input.Status
	}
	existing.Notes = input.Notes
	if input.UpdatedBy != "" {
		existing.UpdatedBy = input.UpdatedBy
	}
	existing.UpdatedAt = time.Now()

	if err := db.DB.Save(&existing).Error; err != nil {
		http.Error(w, "Failed to update status record", http.StatusInternalServerError)
		return
	}

	writeJSON(w, existing)
}

func DeleteStatusRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	result := db.DB.Delete(&EntityStatusRecord{}, "id = ?", id)
	if result.Error != nil {
		http.Error(w, "Failed to delete status record", http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "Status record not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ---- Groups ----

func ListGroups(w http.ResponseWriter, r *http.Request) {
	var groups []Group
	if err := db.DB.Order("name").Find(&groups).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, groups)
}

func GetGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var group Group
	if err := db.DB.First(&group, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			http.Error(w, "Group not found", http.StatusNotFound)
			return
		}
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, group)
}

func CreateGroup(w http.ResponseWriter, r *http.Request) {
	var input Group
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if input.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	input.ID = uuid.Nil
	if err := db.DB.Create(&input).Error; err != nil {
		http.Error(w, "Failed to create group", http.StatusInternalServerError)
		return
	}

	writeJSONStatus(w, http.StatusCreated, input)
}
