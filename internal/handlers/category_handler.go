package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jsjcard/eventhub/internal/helpers"
	"github.com/jsjcard/eventhub/internal/models"
)

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"name": "This field is required."})
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	category := models.FieldCategory{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := gormDB.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category with this name already exists"})
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create category.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Category created successfully",
		"data":    category,
	})
}

func ListCategories(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var categories []models.FieldCategory
	if err := gormDB.Order("created_at").Find(&categories).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving categories.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func GetCategory(c *gin.Context) {
	categoryID := c.Param("category_id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var category models.FieldCategory
	if err := gormDB.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Category not found")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding category.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": category})
}

func UpdateCategory(c *gin.Context) {
	categoryID := c.Param("category_id")

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var category models.FieldCategory
	if err := gormDB.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Category not found")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding category.")
		return
	}

	if req.Name != "" {
		category.Name = req.Name
	}
	if req.Description != "" {
		category.Description = req.Description
	}

	if err := gormDB.Save(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category with this name already exists"})
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update category.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category updated successfully",
		"data":    category,
	})
}

// DeleteCategory removes a category; its fields go with it via the cascade
// constraint.
func DeleteCategory(c *gin.Context) {
	categoryID := c.Param("category_id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var category models.FieldCategory
	if err := gormDB.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Category not found")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding category.")
		return
	}

	if err := gormDB.Select("Fields").Delete(&category).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete category.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
