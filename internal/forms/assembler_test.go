package forms

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/jsjcard/eventhub/internal/models"
)

func TestOptionsNeverNil(t *testing.T) {
	cases := []struct {
		name   string
		option datatypes.JSON
		want   int
	}{
		{"empty column", nil, 0},
		{"json null", datatypes.JSON("null"), 0},
		{"garbage", datatypes.JSON("{not json"), 0},
		{"list", datatypes.JSON(`["Python","Go"]`), 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Options(models.ProfileField{Option: tc.option})
			if got == nil {
				t.Fatal("expected a list, got nil")
			}
			if len(got) != tc.want {
				t.Errorf("expected %d options, got %d", tc.want, len(got))
			}
		})
	}
}

func TestSerializeIncludesCategoryName(t *testing.T) {
	category := models.FieldCategory{ID: uuid.New(), Name: "SkillsCompetencies"}
	field := models.ProfileField{
		ID:         uuid.New(),
		CategoryID: &category.ID,
		Category:   &category,
		Label:      "Skills",
		FieldID:    "skills",
		FieldType:  models.FieldTypeCheckbox,
		Option:     datatypes.JSON(`["Python","Go","SQL"]`),
	}

	data := Serialize(field)
	if data["category_name"] != "SkillsCompetencies" {
		t.Errorf("expected category_name 'SkillsCompetencies', got %v", data["category_name"])
	}
	if len(data["option"].([]string)) != 3 {
		t.Errorf("expected 3 options, got %v", data["option"])
	}

	orphan := Serialize(models.ProfileField{FieldID: "loose"})
	if orphan["category_name"] != nil {
		t.Errorf("expected nil category_name for orphan field, got %v", orphan["category_name"])
	}
}

func TestCategoryFieldsSuppressesNonSelectOptions(t *testing.T) {
	fields := []models.ProfileField{
		{FieldID: "gender", FieldType: models.FieldTypeSelect, Option: datatypes.JSON(`["Male","Female"]`)},
		{FieldID: "skills", FieldType: models.FieldTypeCheckbox, Option: datatypes.JSON(`["Python","Go"]`)},
	}

	items := CategoryFields(fields)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if len(items[0]["option"].([]string)) != 2 {
		t.Errorf("select field should keep its options, got %v", items[0]["option"])
	}
	if len(items[1]["option"].([]string)) != 0 {
		t.Errorf("checkbox field options should be suppressed, got %v", items[1]["option"])
	}
	if _, present := items[0]["category"]; present {
		t.Error("category key should be stripped from scoped field listing")
	}
}

func TestGroupedByCategoryKeepsCatalogOrder(t *testing.T) {
	basic := models.FieldCategory{ID: uuid.New(), Name: "basicInformation"}
	skills := models.FieldCategory{ID: uuid.New(), Name: "SkillsCompetencies"}
	fields := []models.ProfileField{
		{FieldID: "full_name", Category: &basic, CategoryID: &basic.ID},
		{FieldID: "skills", Category: &skills, CategoryID: &skills.ID},
		{FieldID: "email", Category: &basic, CategoryID: &basic.ID},
	}

	grouped := GroupedByCategory(fields)
	if len(grouped) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(grouped))
	}
	if grouped[0]["category_name"] != "basicInformation" {
		t.Errorf("expected first group 'basicInformation', got %v", grouped[0]["category_name"])
	}
	basicFields := grouped[0]["fields"].([]map[string]interface{})
	if len(basicFields) != 2 {
		t.Errorf("expected 2 fields under basicInformation, got %d", len(basicFields))
	}
}

func TestSkeletonCheckboxValueIsEmptyList(t *testing.T) {
	categories := []models.FieldCategory{
		{
			Name: "SkillsCompetencies",
			Fields: []models.ProfileField{
				{FieldID: "skills", Label: "Skills", FieldType: models.FieldTypeCheckbox, Option: datatypes.JSON(`["Python","Go"]`)},
				{FieldID: "summary", Label: "Summary", FieldType: models.FieldTypeText},
			},
		},
	}

	skeleton := Skeleton(categories)
	section := skeleton["SkillsCompetencies"].(map[string]interface{})

	checkbox := section["skills"].(map[string]interface{})
	value, ok := checkbox["value"].([]string)
	if !ok || len(value) != 0 {
		t.Errorf("checkbox value should start as empty list, got %v", checkbox["value"])
	}

	text := section["summary"].(map[string]interface{})
	if text["value"] != nil {
		t.Errorf("text value should start as null, got %v", text["value"])
	}
}

func TestFlattenSection(t *testing.T) {
	section := datatypes.JSONMap{
		"skills": map[string]interface{}{
			"label":       "Skills",
			"field_type":  "checkbox",
			"is_required": true,
			"value":       []interface{}{"Python"},
		},
		"broken": "not an entry map",
	}

	flat := FlattenSection(section)
	if len(flat) != 1 {
		t.Fatalf("expected 1 flattened entry, got %d", len(flat))
	}
	entry := flat["skills"].(map[string]interface{})
	if entry["label"] != "Skills" {
		t.Errorf("expected label 'Skills', got %v", entry["label"])
	}
	if _, present := entry["field_type"]; present {
		t.Error("flattened entry should only carry label and value")
	}
}

func formSnapshot(t *testing.T, raw string) datatypes.JSONMap {
	t.Helper()
	var form datatypes.JSONMap
	if err := json.Unmarshal([]byte(raw), &form); err != nil {
		t.Fatalf("bad snapshot fixture: %v", err)
	}
	return form
}

func TestValidateAnswers(t *testing.T) {
	form := formSnapshot(t, `{
		"basicInformation": {"full_name": {"label": "Full Name"}, "email": {"label": "Email"}},
		"SkillsCompetencies": {"skills": {"label": "Skills"}}
	}`)

	sections := map[string]map[string]interface{}{
		"basicInformation":   {"full_name": map[string]interface{}{"value": "Ada"}},
		"SkillsCompetencies": {"skills": map[string]interface{}{"value": []string{"Python"}}},
	}
	if errs := ValidateAnswers(form, sections); len(errs) != 0 {
		t.Errorf("expected no errors for known fields, got %v", errs)
	}

	sections["SkillsCompetencies"]["favorite_color"] = map[string]interface{}{"value": "green"}
	errs := ValidateAnswers(form, sections)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if _, present := errs["SkillsCompetencies.favorite_color"]; !present {
		t.Errorf("expected error keyed by section.field_id, got %v", errs)
	}
}

func TestValidateAnswersEmptySnapshotAcceptsAnything(t *testing.T) {
	sections := map[string]map[string]interface{}{
		"OtherDetails": {"anything": map[string]interface{}{"value": "at all"}},
	}
	if errs := ValidateAnswers(nil, sections); len(errs) != 0 {
		t.Errorf("empty snapshot should accept any shape, got %v", errs)
	}
	if errs := ValidateAnswers(datatypes.JSONMap{}, sections); len(errs) != 0 {
		t.Errorf("empty snapshot should accept any shape, got %v", errs)
	}
}
