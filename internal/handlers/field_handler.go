package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/jsjcard/eventhub/internal/forms"
	"github.com/jsjcard/eventhub/internal/helpers"
	"github.com/jsjcard/eventhub/internal/models"
)

// FieldPayload uses pointers throughout so a bulk-upsert entry can be applied
// as a partial update: only the keys present in the JSON are touched.
type FieldPayload struct {
	Category    *uuid.UUID `json:"category"`
	Label       *string    `json:"label"`
	FieldID     *string    `json:"field_id"`
	FieldType   *string    `json:"field_type"`
	IsRequired  *bool      `json:"is_required"`
	Placeholder *string    `json:"placeholder"`
	Value       *string    `json:"value"`
	Option      *[]string  `json:"option"`
}

func (p *FieldPayload) validateNew() map[string]string {
	errs := map[string]string{}
	if p.Label == nil || *p.Label == "" {
		errs["label"] = "This field is required."
	}
	if p.FieldID == nil || *p.FieldID == "" {
		errs["field_id"] = "This field is required."
	}
	if p.FieldType == nil || !models.ValidFieldType(*p.FieldType) {
		errs["field_type"] = "Invalid field type."
	}
	return errs
}

func (p *FieldPayload) validateUpdate() map[string]string {
	errs := map[string]string{}
	if p.Label != nil && *p.Label == "" {
		errs["label"] = "May not be blank."
	}
	if p.FieldType != nil && !models.ValidFieldType(*p.FieldType) {
		errs["field_type"] = "Invalid field type."
	}
	return errs
}

func (p *FieldPayload) apply(field *models.ProfileField) {
	if p.Category != nil {
		field.CategoryID = p.Category
	}
	if p.Label != nil {
		field.Label = *p.Label
	}
	if p.FieldID != nil {
		field.FieldID = *p.FieldID
	}
	if p.FieldType != nil {
		field.FieldType = *p.FieldType
	}
	if p.IsRequired != nil {
		field.IsRequired = *p.IsRequired
	}
	if p.Placeholder != nil {
		field.Placeholder = *p.Placeholder
	}
	if p.Value != nil {
		field.Value = *p.Value
	}
	if p.Option != nil {
		encoded, _ := json.Marshal(*p.Option)
		field.Option = datatypes.JSON(encoded)
	}
}

func categoryExists(gormDB *gorm.DB, id uuid.UUID) bool {
	var count int64
	gormDB.Model(&models.FieldCategory{}).Where("id = ?", id).Count(&count)
	return count > 0
}

func CreateField(c *gin.Context) {
	var payload FieldPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if errs := payload.validateNew(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	if payload.Category != nil && !categoryExists(gormDB, *payload.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"category": "Category not found."})
		return
	}

	var field models.ProfileField
	payload.apply(&field)

	if err := gormDB.Create(&field).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"field_id": "Field with this field_id already exists."})
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create field.")
		return
	}

	gormDB.Preload("Category").First(&field, "id = ?", field.ID)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Field created successfully",
		"data":    forms.Serialize(field),
	})
}

func GetField(c *gin.Context) {
	fieldID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var field models.ProfileField
	if err := gormDB.Preload("Category").Where("id = ?", fieldID).First(&field).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Field not found")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding field.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": forms.Serialize(field)})
}

func UpdateField(c *gin.Context) {
	fieldID := c.Param("id")

	var payload FieldPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var field models.ProfileField
	if err := gormDB.Where("id = ?", fieldID).First(&field).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Field not found")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding field.")
		return
	}

	if errs := payload.validateUpdate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, errs)
		return
	}
	if payload.Category != nil && !categoryExists(gormDB, *payload.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"category": "Category not found."})
		return
	}

	payload.apply(&field)
	if err := gormDB.Save(&field).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update field.")
		return
	}

	gormDB.Preload("Category").First(&field, "id = ?", field.ID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Field updated successfully",
		"data":    forms.Serialize(field),
	})
}

func DeleteField(c *gin.Context) {
	fieldID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	result := gormDB.Where("id = ?", fieldID).Delete(&models.ProfileField{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete field.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Field not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Field deleted successfully"})
}

// ListFieldsGrouped returns the whole catalog grouped under its categories.
func ListFieldsGrouped(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var fields []models.ProfileField
	if err := gormDB.Preload("Category").Order("created_at").Find(&fields).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving fields.")
		return
	}

	c.JSON(http.StatusOK, forms.GroupedByCategory(fields))
}

// ListFieldsByCategory returns one category's fields, stripped of the
// redundant category keys. Missing category_id and empty categories are soft
// failures, not 4xx.
func ListFieldsByCategory(c *gin.Context) {
	categoryID := c.Query("category_id")
	if categoryID == "" {
		c.JSON(http.StatusOK, gin.H{
			"status":  false,
			"message": "category_id is required",
		})
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var fields []models.ProfileField
	if err := gormDB.Where("category_id = ?", categoryID).Order("created_at").Find(&fields).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving fields.")
		return
	}
	if len(fields) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"status":  false,
			"message": "No fields found for this category",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": true,
		"data":   forms.CategoryFields(fields),
	})
}

// BulkUpsertFields accepts a single field object or an array of them. Each
// entry is matched by field_id: existing fields get a partial update, unknown
// ones are created. Results come back per entry, in input order, so a partial
// success is a normal 200.
func BulkUpsertFields(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	var payloads []FieldPayload
	if err := json.Unmarshal(raw, &payloads); err != nil {
		var single FieldPayload
		if err := json.Unmarshal(raw, &single); err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
			return
		}
		payloads = []FieldPayload{single}
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	results := make([]gin.H, 0, len(payloads))
	for _, payload := range payloads {
		results = append(results, upsertOne(gormDB, payload))
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  true,
		"results": results,
	})
}

func upsertOne(gormDB *gorm.DB, payload FieldPayload) gin.H {
	name := ""
	if payload.FieldID != nil {
		name = *payload.FieldID
	}

	if name != "" {
		var field models.ProfileField
		err := gormDB.Where("field_id = ?", name).First(&field).Error
		if err == nil {
			if errs := payload.validateUpdate(); len(errs) > 0 {
				return gin.H{
					"status":  false,
					"message": fmt.Sprintf("Validation failed for '%s'", name),
					"errors":  errs,
				}
			}
			if payload.Category != nil && !categoryExists(gormDB, *payload.Category) {
				return gin.H{
					"status":  false,
					"message": fmt.Sprintf("Validation failed for '%s'", name),
					"errors":  map[string]string{"category": "Category not found."},
				}
			}
			payload.apply(&field)
			if err := gormDB.Save(&field).Error; err != nil {
				return gin.H{
					"status":  false,
					"message": fmt.Sprintf("Validation failed for '%s'", name),
					"errors":  map[string]string{"field_id": err.Error()},
				}
			}
			gormDB.Preload("Category").First(&field, "id = ?", field.ID)
			return gin.H{
				"status":  true,
				"message": fmt.Sprintf("Field '%s' updated successfully", name),
				"field":   forms.Serialize(field),
			}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return gin.H{
				"status":  false,
				"message": fmt.Sprintf("Validation failed for '%s'", name),
				"errors":  map[string]string{"field_id": err.Error()},
			}
		}
	}

	if errs := payload.validateNew(); len(errs) > 0 {
		return gin.H{
			"status":  false,
			"message": fmt.Sprintf("Validation failed for '%s'", name),
			"errors":  errs,
		}
	}
	if payload.Category != nil && !categoryExists(gormDB, *payload.Category) {
		return gin.H{
			"status":  false,
			"message": fmt.Sprintf("Validation failed for '%s'", name),
			"errors":  map[string]string{"category": "Category not found."},
		}
	}

	var field models.ProfileField
	payload.apply(&field)
	if err := gormDB.Create(&field).Error; err != nil {
		return gin.H{
			"status":  false,
			"message": fmt.Sprintf("Validation failed for '%s'", name),
			"errors":  map[string]string{"field_id": err.Error()},
		}
	}
	gormDB.Preload("Category").First(&field, "id = ?", field.ID)
	return gin.H{
		"status":  true,
		"message": fmt.Sprintf("Field '%s' created successfully", name),
		"field":   forms.Serialize(field),
	}
}
