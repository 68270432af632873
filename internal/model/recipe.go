package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Recipe represents a recipe in the system
type Recipe struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Ingredients IngredientList  `json:"ingredients" validate:"required,min=1"`
	Steps       StepList        `json:"steps" validate:"required,min=1"`
	PrepTime    *StringOrNumber `json:"prep_time,omitempty" validate:"-"`
	CookTime    *StringOrNumber `json:"cook_time,omitempty" validate:"-"`
	Servings    *StringOrNumber `json:"servings,omitempty" validate:"-"`
	Difficulty  string          `json:"difficulty,omitempty"`
}

// recipeDocument mirrors Recipe but also accepts the field spellings used by
// older recipe files ("instructions", "prepTime", "cookTime").
type recipeDocument struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Ingredients  IngredientList  `json:"ingredients"`
	Steps        StepList        `json:"steps"`
	Instructions StepList        `json:"instructions"`
	PrepTime     *StringOrNumber `json:"prep_time"`
	PrepTimeAlt  *StringOrNumber `json:"prepTime"`
	CookTime     *StringOrNumber `json:"cook_time"`
	CookTimeAlt  *StringOrNumber `json:"cookTime"`
	Servings     *StringOrNumber `json:"servings"`
	Difficulty   string          `json:"difficulty"`
}

// UnmarshalJSON decodes a recipe document, accepting both the canonical and
// the legacy field names.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	var doc recipeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	r.ID = doc.ID
	r.Name = doc.Name
	r.Description = doc.Description
	r.Category = doc.Category
	r.Ingredients = doc.Ingredients
	r.Steps = doc.Steps
	if len(r.Steps) == 0 {
		r.Steps = doc.Instructions
	}
	r.PrepTime = doc.PrepTime
	if r.PrepTime == nil {
		r.PrepTime = doc.PrepTimeAlt
	}
	r.CookTime = doc.CookTime
	if r.CookTime == nil {
		r.CookTime = doc.CookTimeAlt
	}
	r.Servings = doc.Servings
	r.Difficulty = doc.Difficulty
	return nil
}

// Validate checks that the recipe has the required fields
func (r *Recipe) Validate() error {
	if err := validate.Struct(r); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			first := errs[0]
			return fmt.Errorf("invalid recipe: field %s failed on %q", first.Field(), first.Tag())
		}
		return fmt.Errorf("invalid recipe: %w", err)
	}

	for i, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return fmt.Errorf("invalid recipe: ingredient %d has no name", i+1)
		}
	}
	for i, step := range r.Steps {
		if strings.TrimSpace(step.Description) == "" {
			return fmt.Errorf("invalid recipe: step %d has no description", i+1)
		}
	}
	return nil
}

// Slugify derives a recipe identifier from its name: letters, digits, spaces
// and underscores are kept, spaces become underscores, the rest is dropped.
func Slugify(name string) string {
	var b strings.Builder
	for _, c := range name {
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == ' ' || c == '_' {
			b.WriteRune(c)
		}
	}
	slug := strings.TrimSpace(b.String())
	slug = strings.ReplaceAll(slug, " ", "_")
	return strings.ToLower(slug)
}

// Ingredient is one entry in a recipe's ingredient list. Recipe files may
// spell an ingredient as a plain string ("2 cups flour") or as an object
// with name, amount and units.
type Ingredient struct {
	Name   string
	Amount float64
	Units  string
	Group  string
}

type ingredientObject struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount,omitempty"`
	Units  string  `json:"units,omitempty"`
}

// UnmarshalJSON accepts either a string or an ingredient object.
func (i *Ingredient) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		i.Name = s
		return nil
	}

	var obj ingredientObject
	if err := json.Unmarshal(data, &obj); err == nil {
		i.Name = obj.Name
		i.Amount = obj.Amount
		i.Units = obj.Units
		return nil
	}

	return fmt.Errorf("invalid ingredient format")
}

// MarshalJSON emits a plain string for string-only ingredients and an object
// otherwise.
func (i Ingredient) MarshalJSON() ([]byte, error) {
	if i.Amount == 0 && i.Units == "" {
		return json.Marshal(i.Name)
	}
	return json.Marshal(ingredientObject{Name: i.Name, Amount: i.Amount, Units: i.Units})
}

// Display renders the ingredient as a single line for templates.
func (i Ingredient) Display() string {
	if i.Amount == 0 && i.Units == "" {
		return i.Name
	}
	amount := formatNumber(i.Amount)
	if i.Units != "" {
		return fmt.Sprintf("%s %s %s", amount, i.Units, i.Name)
	}
	return fmt.Sprintf("%s %s", amount, i.Name)
}

// IngredientList is an ordered list of ingredients. Recipe files may spell it
// as a flat array or as an object of named groups (e.g. "wet" and "dry");
// grouped ingredients are flattened in document order with Group set.
type IngredientList []Ingredient

// UnmarshalJSON accepts either the flat array or the grouped object form.
func (l *IngredientList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []Ingredient
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}

	// Grouped form: walk the object with a token decoder so group order
	// follows the document, not map iteration.
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("invalid ingredients format")
	}

	var items []Ingredient
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		group, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("invalid ingredients format")
		}

		var grouped []Ingredient
		if err := dec.Decode(&grouped); err != nil {
			return fmt.Errorf("invalid ingredients in group %q: %w", group, err)
		}
		for _, ing := range grouped {
			ing.Group = group
			items = append(items, ing)
		}
	}

	*l = items
	return nil
}

// Step is one entry in a recipe's ordered instructions. Recipe files may
// spell a step as a plain string or as an object with a step number and a
// description.
type Step struct {
	Number      int
	Description string
}

type stepObject struct {
	Number      int    `json:"step,omitempty"`
	Description string `json:"description"`
}

// UnmarshalJSON accepts either a string or a step object.
func (s *Step) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		s.Description = str
		return nil
	}

	var obj stepObject
	if err := json.Unmarshal(data, &obj); err == nil {
		s.Number = obj.Number
		s.Description = obj.Description
		return nil
	}

	return fmt.Errorf("invalid step format")
}

// MarshalJSON emits a plain string for unnumbered steps and an object
// otherwise.
func (s Step) MarshalJSON() ([]byte, error) {
	if s.Number == 0 {
		return json.Marshal(s.Description)
	}
	return json.Marshal(stepObject{Number: s.Number, Description: s.Description})
}

// StepList is an ordered list of steps.
type StepList []Step

// StringOrNumber can handle both string and number values for fields like
// servings and preparation time.
type StringOrNumber struct {
	Value   string
	numeric bool
}

// NewStringValue wraps a string value.
func NewStringValue(s string) *StringOrNumber {
	return &StringOrNumber{Value: s}
}

// NewNumberValue wraps a numeric value.
func NewNumberValue(n float64) *StringOrNumber {
	return &StringOrNumber{Value: formatNumber(n), numeric: true}
}

// UnmarshalJSON accepts a JSON number or string.
func (v *StringOrNumber) UnmarshalJSON(data []byte) error {
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		v.Value = num.String()
		v.numeric = true
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		v.Value = str
		v.numeric = false
		return nil
	}

	return fmt.Errorf("invalid value: %s", string(data))
}

// MarshalJSON preserves the original representation.
func (v StringOrNumber) MarshalJSON() ([]byte, error) {
	if v.numeric {
		return []byte(v.Value), nil
	}
	return json.Marshal(v.Value)
}

func (v *StringOrNumber) String() string {
	if v == nil {
		return ""
	}
	return v.Value
}

func formatNumber(n float64) string {
	s := fmt.Sprintf("%.2f", n)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
