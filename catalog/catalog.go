package catalog

import (
	"context"
	"errors"

	"github.com/MUHULILAMRI/Done-Fast/models"
)

const Table = "services"

// DefaultPackageName names the single package of a service without sub-options.
const DefaultPackageName = "Paket Standar"

var ErrNotFound = errors.New("service not found")

// Provider reads the catalog.
type Provider interface {
	List(ctx context.Context) ([]models.Service, error)
	Get(ctx context.Context, slug string) (models.Service, error)
}

// Categories is the filter list shown on the services page.
func Categories() []string {
	return append([]string{"All"}, models.ServiceCategories...)
}

// ValidCategory reports whether c is a category a service may have.
func ValidCategory(c string) bool {
	for _, known := range models.ServiceCategories {
		if c == known {
			return true
		}
	}
	return false
}

// icons maps stored icon names to the slugs the front end renders.
var icons = map[string]string{
	"FileText":   "file-text",
	"BookOpen":   "book-open",
	"Code":       "code",
	"Microscope": "microscope",
	"Cube":       "cable",
	"Users":      "users",
}

const DefaultIcon = "FileText"

// IconNames lists the icon names an admin can pick.
func IconNames() []string {
	return []string{"FileText", "BookOpen", "Code", "Microscope", "Cube", "Users"}
}

// IconSlug resolves a stored icon name. Unknown names fall back to FileText.
func IconSlug(name string) string {
	if slug, ok := icons[name]; ok {
		return slug
	}
	return icons[DefaultIcon]
}

// Package is one purchasable unit of a service.
type Package struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    int64    `json:"price"`
	Features []string `json:"features"`
}

// Packages returns the purchasable units: the sub-options when there are
// any, otherwise the service itself at its base price.
func Packages(s models.Service) []Package {
	if len(s.SubOptions) > 0 {
		out := make([]Package, 0, len(s.SubOptions))
		for _, so := range s.SubOptions {
			out = append(out, Package{ID: so.ID, Name: so.Name, Price: so.Price, Features: so.Features})
		}
		return out
	}
	var p int64
	if s.Price != nil {
		p = *s.Price
	}
	return []Package{{ID: s.ID, Name: DefaultPackageName, Price: p, Features: s.Features}}
}

// Resolve finds a package by name or id.
func Resolve(s models.Service, pkg string) (Package, bool) {
	for _, p := range Packages(s) {
		if p.Name == pkg || p.ID == pkg {
			return p, true
		}
	}
	return Package{}, false
}

// CartItem builds the cart line for one unit of pkg. Prices always come
// from the catalog.
func CartItem(s models.Service, pkg Package) models.CartItem {
	return models.CartItem{
		ServiceSlug:  s.ID,
		ServiceTitle: s.Title,
		PackageName:  pkg.Name,
		Price:        pkg.Price,
		Quantity:     1,
	}
}

// Entry is a service as the storefront shows it.
type Entry struct {
	models.Service
	IconSlug string    `json:"icon_slug"`
	Packages []Package `json:"packages"`
}

func Describe(s models.Service) Entry {
	return Entry{Service: s, IconSlug: IconSlug(s.Icon), Packages: Packages(s)}
}

// Filter keeps services of category ("All" or empty keeps everything).
func Filter(list []models.Service, category string) []models.Service {
	if category == "" || category == "All" {
		return list
	}
	out := make([]models.Service, 0, len(list))
	for _, s := range list {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}

func find(list []models.Service, slug string) (models.Service, error) {
	for _, s := range list {
		if s.ID == slug {
			return s, nil
		}
	}
	return models.Service{}, ErrNotFound
}
