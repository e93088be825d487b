// Package forms projects the field catalog into the shapes clients consume
// and validates submitted answers against an event's frozen form snapshot.
package forms

import (
	"encoding/json"
	"fmt"

	"github.com/jsjcard/eventhub/internal/models"
	"gorm.io/datatypes"
)

// Options decodes a field's option column. Always a list of strings, never
// nil, for every field type.
func Options(field models.ProfileField) []string {
	options := []string{}
	if len(field.Option) == 0 {
		return options
	}
	if err := json.Unmarshal(field.Option, &options); err != nil || options == nil {
		return []string{}
	}
	return options
}

// Serialize renders one catalog field with its category reference, the shape
// the admin CRUD endpoints return.
func Serialize(field models.ProfileField) map[string]interface{} {
	data := map[string]interface{}{
		"id":          field.ID,
		"category":    field.CategoryID,
		"label":       field.Label,
		"field_id":    field.FieldID,
		"field_type":  field.FieldType,
		"is_required": field.IsRequired,
		"placeholder": field.Placeholder,
		"value":       field.Value,
		"option":      Options(field),
	}
	if field.Category != nil {
		data["category_name"] = field.Category.Name
	} else {
		data["category_name"] = nil
	}
	return data
}

func selectOnlyOptions(field models.ProfileField) []string {
	if field.FieldType == models.FieldTypeSelect {
		return Options(field)
	}
	return []string{}
}

// CategoryFields renders the fields of a single category. The category keys
// are redundant once scoped, so they are stripped, and option is suppressed
// unless the field is a select.
func CategoryFields(fields []models.ProfileField) []map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(fields))
	for _, field := range fields {
		items = append(items, map[string]interface{}{
			"id":          field.ID,
			"label":       field.Label,
			"field_id":    field.FieldID,
			"field_type":  field.FieldType,
			"is_required": field.IsRequired,
			"placeholder": field.Placeholder,
			"value":       field.Value,
			"option":      selectOnlyOptions(field),
		})
	}
	return items
}

// GroupedByCategory is the flat admin projection: one entry per category with
// its fields listed under it, in catalog order.
func GroupedByCategory(fields []models.ProfileField) []map[string]interface{} {
	grouped := []map[string]interface{}{}
	index := map[string]int{}
	for _, field := range fields {
		var categoryName interface{}
		var categoryID interface{}
		key := ""
		if field.Category != nil {
			categoryName = field.Category.Name
			categoryID = field.Category.ID
			key = field.Category.ID.String()
		}
		item := map[string]interface{}{
			"label":       field.Label,
			"field_id":    field.FieldID,
			"field_type":  field.FieldType,
			"is_required": field.IsRequired,
			"placeholder": field.Placeholder,
			"value":       field.Value,
			"option":      selectOnlyOptions(field),
		}
		pos, seen := index[key]
		if !seen {
			index[key] = len(grouped)
			grouped = append(grouped, map[string]interface{}{
				"category_name": categoryName,
				"category":      categoryID,
				"fields":        []map[string]interface{}{item},
			})
			continue
		}
		grouped[pos]["fields"] = append(grouped[pos]["fields"].([]map[string]interface{}), item)
	}
	return grouped
}

// Skeleton is the keyed form template a client fills in and submits back:
// {category_name: {field_id: {...}}}. value starts as an empty list for
// checkbox fields and null for everything else.
func Skeleton(categories []models.FieldCategory) map[string]interface{} {
	skeleton := map[string]interface{}{}
	for _, category := range categories {
		categoryFields := map[string]interface{}{}
		for _, field := range category.Fields {
			var value interface{}
			if field.FieldType == models.FieldTypeCheckbox {
				value = []string{}
			}
			categoryFields[field.FieldID] = map[string]interface{}{
				"label":       field.Label,
				"field_id":    field.FieldID,
				"field_type":  field.FieldType,
				"is_required": field.IsRequired,
				"placeholder": field.Placeholder,
				"option":      Options(field),
				"value":       value,
			}
		}
		skeleton[category.Name] = categoryFields
	}
	return skeleton
}

// FlattenSection reduces a stored {field_id: {label, value, ...}} section to
// {field_id: {label, value}}, the read-side mirror of the skeleton.
func FlattenSection(section datatypes.JSONMap) map[string]interface{} {
	flat := map[string]interface{}{}
	for fieldID, raw := range section {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		flat[fieldID] = map[string]interface{}{
			"label": entry["label"],
			"value": entry["value"],
		}
	}
	return flat
}

// KnownFieldIDs collects every field_id present in a frozen form snapshot.
func KnownFieldIDs(form datatypes.JSONMap) map[string]bool {
	known := map[string]bool{}
	for _, raw := range form {
		categoryFields, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		for fieldID := range categoryFields {
			known[fieldID] = true
		}
	}
	return known
}

// ValidateAnswers checks submitted section payloads against the event's
// frozen form snapshot and returns a field-level error map for every
// field_id the form does not define. An event with no snapshot accepts any
// shape, matching events created before a form was configured.
func ValidateAnswers(form datatypes.JSONMap, sections map[string]map[string]interface{}) map[string]string {
	errs := map[string]string{}
	known := KnownFieldIDs(form)
	if len(known) == 0 {
		return errs
	}
	for sectionName, section := range sections {
		for fieldID := range section {
			if !known[fieldID] {
				errs[fmt.Sprintf("%s.%s", sectionName, fieldID)] = "field is not part of this event's registration form"
			}
		}
	}
	return errs
}
