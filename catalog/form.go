package catalog

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/MUHULILAMRI/Done-Fast/models"
)

// Form is the admin editing shape of a service: features as one
// comma-separated string and sub-options as a JSON document.
type Form struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Price        int64  `json:"price"`
	Icon         string `json:"icon"`
	Category     string `json:"category"`
	Popular      bool   `json:"popular"`
	Features     string `json:"features"`
	DeliveryTime string `json:"delivery_time"`
	Revisions    string `json:"revisions"`
	SubOptions   string `json:"sub_options"`
}

// FormError points at the form field that could not be accepted.
type FormError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FormError) Error() string { return e.Field + ": " + e.Message }

var whitespace = regexp.MustCompile(`\s+`)

// Slugify lowercases title and replaces whitespace runs with "-".
func Slugify(title string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
}

// NewForm is the empty form for creating a service.
func NewForm() Form {
	return Form{Icon: DefaultIcon, Category: "Academic", SubOptions: "[]"}
}

// EncodeForm turns a stored service into its editable form.
func EncodeForm(s models.Service) Form {
	subs := []models.SubOption(s.SubOptions)
	if subs == nil {
		subs = []models.SubOption{}
	}
	raw, _ := json.MarshalIndent(subs, "", "  ")

	f := Form{
		ID:           s.ID,
		Title:        s.Title,
		Description:  s.Description,
		Icon:         s.Icon,
		Category:     s.Category,
		Popular:      s.Popular,
		Features:     strings.Join(s.Features, ", "),
		DeliveryTime: s.DeliveryTime,
		Revisions:    s.Revisions,
		SubOptions:   string(raw),
	}
	if s.Price != nil {
		f.Price = *s.Price
	}
	return f
}

// DecodeForm validates f and turns it into a service. Malformed sub-option
// JSON is rejected; nothing is guessed.
func DecodeForm(f Form) (models.Service, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return models.Service{}, &FormError{Field: "title", Message: "Judul layanan wajib diisi."}
	}
	if !ValidCategory(f.Category) {
		return models.Service{}, &FormError{Field: "category", Message: "Kategori tidak dikenal."}
	}
	if f.Price < 0 {
		return models.Service{}, &FormError{Field: "price", Message: "Harga tidak boleh negatif."}
	}

	id := strings.TrimSpace(f.ID)
	if id == "" {
		id = Slugify(title)
	}

	icon := f.Icon
	if _, ok := icons[icon]; !ok {
		icon = DefaultIcon
	}

	subs, err := decodeSubOptions(id, f.SubOptions)
	if err != nil {
		return models.Service{}, err
	}

	s := models.Service{
		ID:           id,
		Title:        title,
		Description:  strings.TrimSpace(f.Description),
		Icon:         icon,
		Category:     f.Category,
		Popular:      f.Popular,
		Features:     SplitFeatures(f.Features),
		DeliveryTime: strings.TrimSpace(f.DeliveryTime),
		Revisions:    strings.TrimSpace(f.Revisions),
		SubOptions:   subs,
	}
	if f.Price > 0 {
		p := f.Price
		s.Price = &p
	}
	return s, nil
}

// SplitFeatures splits a comma-separated feature list, dropping blanks.
func SplitFeatures(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func decodeSubOptions(serviceID, raw string) ([]models.SubOption, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []models.SubOption{}, nil
	}
	var subs []models.SubOption
	if err := json.Unmarshal([]byte(raw), &subs); err != nil {
		return nil, &FormError{Field: "sub_options", Message: "Sub-opsi harus berupa JSON array yang valid: " + err.Error()}
	}
	for i := range subs {
		subs[i].Name = strings.TrimSpace(subs[i].Name)
		if subs[i].Name == "" {
			return nil, &FormError{Field: "sub_options", Message: "Setiap sub-opsi wajib memiliki nama."}
		}
		if subs[i].Price < 0 {
			return nil, &FormError{Field: "sub_options", Message: "Harga sub-opsi tidak boleh negatif."}
		}
		if subs[i].ID == "" {
			subs[i].ID = serviceID + "-" + Slugify(subs[i].Name)
		}
		if subs[i].Features == nil {
			subs[i].Features = []string{}
		}
	}
	return subs, nil
}
